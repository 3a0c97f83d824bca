package boot

import (
	"errors"
	"fmt"
)

// Startup stages reported by StartupError.
const (
	StageResolve = "resolve"
	StageOpen    = "open"
	StagePing    = "ping"
)

// ErrSubsystemExcluded is returned when the adapter for the resolved profile
// belongs to a family the published exclusion list disables.
var ErrSubsystemExcluded = errors.New("store subsystem excluded")

// ErrMissingURI is returned when a store profile is active but nothing says
// where the store is.
var ErrMissingURI = errors.New("no connection uri for store profile")

// StartupError is a failure at a named startup stage. Errors from hooks
// registered with App.OnReady carry the hook's name as the stage.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the first StartupError in err's chain, or "".
func StageOf(err error) string {
	var se *StartupError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
