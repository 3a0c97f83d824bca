// Package seed performs the one-time population of an empty repository with
// the bundled album dataset.
//
// A Seeder moves from unseeded to seeded exactly once per process. Across
// restarts the repository's own record count is the guard: a non-empty
// repository is never seeded again. When the repository can atomically claim
// a seed marker (Claimer), concurrent instances that both observe an empty
// repository race on the marker instead of both inserting.
//
// Seeding is best-effort, not transactional: a failure part way through leaves
// the records already saved in place.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Repository is the capability the seeder needs from a store.
type Repository[T any] interface {
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, record T) error
}

// Claimer is implemented by repositories that can atomically create a seed
// marker. ClaimSeed returns true for exactly one caller per marker name.
type Claimer interface {
	ClaimSeed(ctx context.Context, name string) (bool, error)
}

// Loader produces the dataset. Nil entries are skipped.
type Loader[T any] func() ([]*T, error)

// Error wraps any failure during seeding. The original error is kept in the
// chain.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("seed %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Report summarizes one seeding attempt.
type Report struct {
	// Skipped is set when the repository already had records or another
	// instance holds the seed marker.
	Skipped bool
	Reason  string
	Saved   int
	Nulls   int
}

// Seeder seeds a repository at most once.
type Seeder[T any] struct {
	Repo   Repository[T]
	Load   Loader[T]
	Name   string
	Logger *slog.Logger

	mu     sync.Mutex
	seeded atomic.Bool
}

// New returns a seeder for repo. name identifies the seed marker.
func New[T any](repo Repository[T], load Loader[T], name string, logger *slog.Logger) *Seeder[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder[T]{Repo: repo, Load: load, Name: name, Logger: logger}
}

// Seeded reports whether the seeder has reached its terminal state.
func (s *Seeder[T]) Seeded() bool {
	return s.seeded.Load()
}

// Run seeds the repository if it is empty.
func (s *Seeder[T]) Run(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if s.seeded.Load() {
		return Report{Skipped: true, Reason: "already seeded"}, nil
	}

	count, err := s.Repo.Count(ctx)
	if err != nil {
		return Report{}, &Error{Op: "count", Err: err}
	}
	if count > 0 {
		s.seeded.Store(true)
		logger.Info("repository already populated, skipping seed", "name", s.Name, "count", count)
		return Report{Skipped: true, Reason: "repository not empty"}, nil
	}

	// Load before claiming: a dataset that fails to load must not leave a
	// marker behind, or the empty store could never be seeded.
	records, err := s.Load()
	if err != nil {
		return Report{}, &Error{Op: "load", Err: err}
	}

	if claimer, ok := s.Repo.(Claimer); ok {
		claimed, err := claimer.ClaimSeed(ctx, s.Name)
		if err != nil {
			return Report{}, &Error{Op: "claim", Err: err}
		}
		if !claimed {
			s.seeded.Store(true)
			logger.Info("seed marker held by another instance, skipping seed", "name", s.Name)
			return Report{Skipped: true, Reason: "seed marker already claimed"}, nil
		}
	}

	var report Report
	for i, rec := range records {
		if rec == nil {
			report.Nulls++
			continue
		}
		if err := s.Repo.Save(ctx, *rec); err != nil {
			return report, &Error{Op: fmt.Sprintf("save record %d", i), Err: err}
		}
		report.Saved++
	}

	s.seeded.Store(true)
	logger.Info("repository seeded", "name", s.Name, "saved", report.Saved, "skipped_nulls", report.Nulls)
	return report, nil
}
