package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/binding"
	"github.com/roach88/tracklist/internal/boot"
	"github.com/roach88/tracklist/internal/config"
	"github.com/roach88/tracklist/internal/exclusion"
	"github.com/roach88/tracklist/internal/profile"
	"github.com/roach88/tracklist/internal/seed"
	"github.com/roach88/tracklist/internal/store"
)

// Harness runs scenarios. The zero value logs nowhere.
type Harness struct {
	Logger *slog.Logger
}

// Run executes a scenario with a silent logger.
func Run(scenario *Scenario) (*Result, error) {
	return (&Harness{}).Run(context.Background(), scenario)
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. A resolution error is a
// scenario outcome, not a harness error: it is traced and checked against
// the expectation. The returned error is reserved for harness failures such
// as an unreadable dataset.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result := NewResult()
	catalog := binding.NewCatalog(scenario.Bindings, logger)

	startup, err := boot.Resolve(catalog, scenario.Activation, config.NewChain(), logger)
	if err != nil {
		var re *profile.ResolveError
		if !errors.As(err, &re) {
			return nil, fmt.Errorf("resolve: %w", err)
		}
		result.add(TraceEvent{Step: StepResolve, Error: string(re.Code)})
		checkResolveError(result, scenario.Expect, re)
		return result, nil
	}

	ev := TraceEvent{
		Step:    StepResolve,
		Profile: startup.Profile().String(),
		Source:  string(startup.Resolution.Source),
	}
	if b := startup.Resolution.Binding; b != nil {
		ev.Bindings = []string{b.Name}
	}
	result.add(ev)

	families := familyNames(exclusion.FamiliesExcluded(config.Excluded(startup.Config)))
	result.add(TraceEvent{
		Step:     StepPublish,
		Property: exclusion.PropertyName,
		Families: families,
	})

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if scenario.InitialCount > 0 {
		if err := preload(ctx, st, scenario.InitialCount); err != nil {
			return nil, err
		}
		result.add(TraceEvent{Step: StepPreload, Count: int64(scenario.InitialCount)})
	}

	var saved []string
	repo := &recordingRepo{Store: st, onSave: func(a album.Album) {
		saved = append(saved, a.Title)
		result.add(TraceEvent{Step: StepSave, Title: a.Title})
	}}

	report, err := seed.New[album.Album](repo, datasetLoader(scenario.Dataset), seed.AlbumsMarker, logger).Run(ctx)
	if err != nil {
		return nil, err
	}
	result.add(TraceEvent{
		Step:    StepSeed,
		Skipped: report.Skipped,
		Reason:  report.Reason,
		Saved:   report.Saved,
		Nulls:   report.Nulls,
	})

	count, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}
	result.add(TraceEvent{Step: StepFinal, Count: count})

	exp := scenario.Expect
	if exp.Error != "" {
		result.AddError(fmt.Sprintf("expected error %s, resolved profile %s", exp.Error, startup.Profile()))
	}
	if exp.Profile != "" && exp.Profile != startup.Profile().String() {
		result.AddError(fmt.Sprintf("profile: expected %s, got %s", exp.Profile, startup.Profile()))
	}
	if exp.Excluded != nil && !equalStrings(exp.Excluded, families) {
		result.AddError(fmt.Sprintf("excluded: expected [%s], got [%s]",
			strings.Join(exp.Excluded, ", "), strings.Join(families, ", ")))
	}
	if exp.Saved != nil && !equalStrings(exp.Saved, saved) {
		result.AddError(fmt.Sprintf("saved: expected [%s], got [%s]",
			strings.Join(exp.Saved, ", "), strings.Join(saved, ", ")))
	}
	if exp.Count != nil && *exp.Count != count {
		result.AddError(fmt.Sprintf("count: expected %d, got %d", *exp.Count, count))
	}

	return result, nil
}

func checkResolveError(result *Result, exp Expectation, re *profile.ResolveError) {
	switch {
	case exp.Error == "":
		result.AddError(fmt.Sprintf("unexpected resolve error: %v", re))
	case exp.Error != string(re.Code):
		result.AddError(fmt.Sprintf("error: expected %s, got %s", exp.Error, re.Code))
	}
}

// recordingRepo reports each successful save. ClaimSeed is promoted from the
// embedded store, so the seeder still claims the marker.
type recordingRepo struct {
	*store.Store
	onSave func(album.Album)
}

func (r *recordingRepo) Save(ctx context.Context, a album.Album) error {
	if err := r.Store.Save(ctx, a); err != nil {
		return err
	}
	r.onSave(a)
	return nil
}

func preload(ctx context.Context, st *store.Store, n int) error {
	for i := 1; i <= n; i++ {
		a := album.Album{
			ID:     fmt.Sprintf("preload-%03d", i),
			Title:  fmt.Sprintf("Preloaded %d", i),
			Artist: "harness",
		}
		if err := st.Save(ctx, a); err != nil {
			return fmt.Errorf("preload: %w", err)
		}
	}
	return nil
}

func datasetLoader(dataset []map[string]any) seed.Loader[album.Album] {
	if dataset == nil {
		return seed.BundledAlbums
	}
	return func() ([]*album.Album, error) {
		raw, err := json.Marshal(dataset)
		if err != nil {
			return nil, fmt.Errorf("encode inline dataset: %w", err)
		}
		return seed.LoadAlbums(bytes.NewReader(raw))
	}
}

func familyNames(families []exclusion.Family) []string {
	out := make([]string, len(families))
	for i, f := range families {
		out[i] = string(f)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
