package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tracklist/internal/binding"
	"github.com/roach88/tracklist/internal/boot"
	"github.com/roach88/tracklist/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // path to the YAML settings file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tracklist CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tracklist",
		Short: "Tracklist - album catalog service",
		Long: `An album catalog that picks its backing store at startup.

The store profile comes from attached service bindings (VCAP_SERVICES) or
from explicit activation (TRACKLIST_PROFILES_ACTIVE). Every store family
the profile does not use is excluded before anything opens, and an empty
store is seeded from the album dataset before the service starts listening.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "tracklist.yaml", "settings file (missing file is ignored)")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds the process logger. Verbose forces debug; otherwise the
// configured level applies.
func newLogger(opts *RootOptions, cmd *cobra.Command, level string) *slog.Logger {
	logLevel := parseLevel(level)
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startup loads settings, reads the platform bindings and resolves the
// store profile. Every command that touches a store goes through here.
func startup(opts *RootOptions, cmd *cobra.Command) (*boot.Startup, config.Settings, *slog.Logger, error) {
	settings, err := config.LoadSettings(opts.Config)
	if err != nil {
		return nil, config.Settings{}, nil, WrapExitError(ExitCommandError, "failed to load settings", err)
	}
	logger := newLogger(opts, cmd, settings.LogLevel)

	catalog, err := binding.FromEnv(logger)
	if err != nil {
		return nil, settings, logger, WrapExitError(ExitCommandError, "failed to read service bindings", err)
	}
	logger.Debug("service bindings", "count", catalog.Len(), "names", catalog.Names())

	s, err := boot.Resolve(catalog, settings.Profiles, settings.Chain(), logger)
	if err != nil {
		return nil, settings, logger, err
	}
	return s, settings, logger, nil
}
