package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tracklist/internal/boot"
	"github.com/roach88/tracklist/internal/config"
	"github.com/roach88/tracklist/internal/exclusion"
	"github.com/roach88/tracklist/internal/profile"
	"github.com/roach88/tracklist/internal/seed"
)

// ResolveReport is the outcome of the resolve command.
type ResolveReport struct {
	Profile  string   `json:"profile"`
	Source   string   `json:"source"`
	Binding  string   `json:"binding,omitempty"`
	Property string   `json:"property"`
	Families []string `json:"families"`
	Excluded []string `json:"excluded"`
	Services []string `json:"services"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the store profile and exclusion list startup would use",
		Long: `Resolve the store profile from service bindings and activation settings
without opening any store.

Prints the selected profile, where it came from, and the auto-configuration
exclusion list that would be published.

Exit codes:
  0 - A profile (or none) was selected
  1 - The configuration is ambiguous
  2 - Command error (unreadable settings or bindings)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, cmd)
		},
	}
	return cmd
}

func runResolve(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, _, _, err := startup(opts, cmd)
	if err != nil {
		return reportStartupError(formatter, err)
	}

	report := ResolveReport{
		Profile:  s.Profile().String(),
		Source:   string(s.Resolution.Source),
		Property: exclusion.PropertyName,
		Families: []string{},
		Excluded: s.Plan.Components(),
		Services: s.Services,
	}
	for _, f := range exclusion.FamiliesExcluded(config.Excluded(s.Config)) {
		report.Families = append(report.Families, string(f))
	}
	if b := s.Resolution.Binding; b != nil {
		report.Binding = b.Name
	}
	if report.Services == nil {
		report.Services = []string{}
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	writeResolveText(cmd.OutOrStdout(), report)
	return nil
}

func writeResolveText(w io.Writer, r ResolveReport) {
	fmt.Fprintf(w, "Profile:  %s (%s)\n", r.Profile, r.Source)
	if r.Binding != "" {
		fmt.Fprintf(w, "Binding:  %s\n", r.Binding)
	}
	fmt.Fprintf(w, "Excluded: %s\n", strings.Join(r.Families, ", "))
	fmt.Fprintf(w, "%s:\n", r.Property)
	for _, c := range r.Excluded {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// reportStartupError prints a startup failure and converts it to an exit
// error. Ambiguous configuration exits 1, everything else exits 2.
func reportStartupError(formatter *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if outErr := formatter.Error(ErrCodeCommand, exitErr.Error(), nil); outErr != nil {
			return outErr
		}
		return exitErr
	}

	var re *profile.ResolveError
	if errors.As(err, &re) {
		details := map[string][]string{"profiles": re.Profiles}
		if len(re.Bindings) > 0 {
			details["bindings"] = re.Bindings
		}
		if outErr := formatter.Error(string(re.Code), re.Message, details); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "store profile resolution failed", err)
	}

	// A dataset that cannot be loaded is the operator's input, not a
	// startup fault.
	var seedErr *seed.Error
	if errors.As(err, &seedErr) && seedErr.Op == "load" {
		if outErr := formatter.Error(ErrCodeInvalidDataset, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "seed dataset invalid", err)
	}

	code := ErrCodeStartup
	if boot.StageOf(err) == boot.StageOpen {
		code = ErrCodeStoreOpen
	}
	if outErr := formatter.Error(code, err.Error(), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitCommandError, "startup failed", err)
}
