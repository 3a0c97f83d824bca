package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ResolveError reports an ambiguous store selection. It is always fatal to
// startup.
type ResolveError struct {
	// Code identifies the error category.
	Code ResolveErrorCode

	// Message is a human-readable description.
	Message string

	// Profiles lists the conflicting profile identifiers.
	Profiles []string

	// Bindings lists the conflicting binding names (MultipleServiceBindings only).
	Bindings []string
}

// ResolveErrorCode categorizes resolution errors.
type ResolveErrorCode string

const (
	// ErrCodeMultipleProfilesActive indicates explicit configuration names
	// more than one store profile.
	ErrCodeMultipleProfilesActive ResolveErrorCode = "MULTIPLE_PROFILES_ACTIVE"

	// ErrCodeMultipleServiceBindings indicates bound services satisfy more than
	// one profile's tag requirement.
	ErrCodeMultipleServiceBindings ResolveErrorCode = "MULTIPLE_SERVICE_BINDINGS"
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMultipleProfilesActive reports whether err is (or wraps) a
// MultipleProfilesActive resolution error.
func IsMultipleProfilesActive(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMultipleProfilesActive
	}
	return false
}

// IsMultipleServiceBindings reports whether err is (or wraps) a
// MultipleServiceBindings resolution error.
func IsMultipleServiceBindings(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMultipleServiceBindings
	}
	return false
}

func newMultipleProfilesActive(active []Profile) *ResolveError {
	names := profileNames(active)
	return &ResolveError{
		Code: ErrCodeMultipleProfilesActive,
		Message: fmt.Sprintf(
			"only one active profile may be set among the following: [%s]; these profiles are active: [%s]",
			strings.Join(profileNames(All), ", "), strings.Join(names, ", "),
		),
		Profiles: names,
	}
}

func newMultipleServiceBindings(profiles []Profile, bindings []string) *ResolveError {
	names := profileNames(profiles)
	return &ResolveError{
		Code: ErrCodeMultipleServiceBindings,
		Message: fmt.Sprintf(
			"only one service of the following types may be bound to this application: [%s]; these services are bound: [%s] (profiles [%s])",
			strings.Join(profileNames(All), ", "), strings.Join(bindings, ", "), strings.Join(names, ", "),
		),
		Profiles: names,
		Bindings: bindings,
	}
}

func profileNames(profiles []Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = string(p)
	}
	return out
}
