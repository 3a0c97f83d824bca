package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/boot"
	"github.com/roach88/tracklist/internal/config"
	"github.com/roach88/tracklist/internal/seed"
)

// SeedResult is the outcome of the seed command.
type SeedResult struct {
	Profile  string `json:"profile"`
	Disabled bool   `json:"disabled,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Saved    int    `json:"saved"`
	Nulls    int    `json:"nulls"`
	Count    int64  `json:"count"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the selected store if it is empty",
		Long: `Resolve the store profile, open the one store it selects, and seed it
from the album dataset if it holds no albums.

Seeding is idempotent: a populated store, or one whose seed marker another
instance already claimed, is left alone.

Example:
  tracklist seed
  TRACKLIST_SEED_DATASET=./albums.json tracklist seed --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, settings, logger, err := startup(opts, cmd)
	if err != nil {
		return reportStartupError(formatter, err)
	}

	app, report, err := openApp(ctx, s, settings, logger)
	if err != nil {
		return reportStartupError(formatter, err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("error closing store", "error", closeErr)
		}
	}()

	if err := app.Ready(ctx); err != nil {
		return reportStartupError(formatter, err)
	}

	count, err := app.Repo.Count(ctx)
	if err != nil {
		return reportStartupError(formatter, WrapExitError(ExitCommandError, "failed to count albums", err))
	}

	result := SeedResult{
		Profile:  s.Profile().String(),
		Disabled: settings.SeedDisabled,
		Skipped:  report.Skipped,
		Reason:   report.Reason,
		Saved:    report.Saved,
		Nulls:    report.Nulls,
		Count:    count,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	switch {
	case result.Disabled:
		fmt.Fprintf(w, "Seeding disabled; store holds %d album(s)\n", count)
	case result.Skipped:
		fmt.Fprintf(w, "Seed skipped: %s; store holds %d album(s)\n", result.Reason, count)
	default:
		fmt.Fprintf(w, "✓ Seeded %d album(s) into %s store (%d null entries skipped)\n",
			result.Saved, result.Profile, result.Nulls)
	}
	return nil
}

// openApp opens the selected store and registers the seed hook unless
// seeding is disabled. The returned report is filled in by App.Ready.
func openApp(ctx context.Context, s *boot.Startup, settings config.Settings, logger *slog.Logger) (*boot.App, *seed.Report, error) {
	repo, err := boot.OpenRepository(ctx, s, settings)
	if err != nil {
		return nil, nil, err
	}

	app := boot.NewApp(repo, logger)
	report := &seed.Report{}
	if settings.SeedDisabled {
		logger.Info("seeding disabled")
		return app, report, nil
	}

	seeder := seed.New[album.Album](repo, seed.AlbumLoader(settings.SeedDataset), seed.AlbumsMarker, logger)
	app.OnReady("seed", boot.SeedHook(seeder, report))
	return app, report, nil
}
