package boot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/seed"
)

// ReadyHook runs once after the store is open and before serving.
type ReadyHook func(ctx context.Context) error

type namedHook struct {
	name string
	run  ReadyHook
}

// App owns the opened repository and the ready hooks.
type App struct {
	Repo   album.Repository
	Logger *slog.Logger

	mu    sync.Mutex
	hooks []namedHook
	once  sync.Once
	err   error
}

// NewApp returns an App over repo.
func NewApp(repo album.Repository, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{Repo: repo, Logger: logger}
}

// OnReady registers a hook. Hooks run in registration order. Hooks added
// after Ready has run are ignored.
func (a *App) OnReady(name string, hook ReadyHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, namedHook{name: name, run: hook})
}

// Ready pings the repository and runs every hook, once per App. Later calls
// return the first call's result.
func (a *App) Ready(ctx context.Context) error {
	a.once.Do(func() {
		a.err = a.ready(ctx)
	})
	return a.err
}

func (a *App) ready(ctx context.Context) error {
	if err := a.Repo.Ping(ctx); err != nil {
		return &StartupError{Stage: StagePing, Err: err}
	}

	a.mu.Lock()
	hooks := make([]namedHook, len(a.hooks))
	copy(hooks, a.hooks)
	a.mu.Unlock()

	for _, h := range hooks {
		a.Logger.Debug("running ready hook", "hook", h.name)
		if err := h.run(ctx); err != nil {
			return &StartupError{Stage: h.name, Err: err}
		}
	}
	a.Logger.Info("application ready", "hooks", len(hooks))
	return nil
}

// Close releases the repository.
func (a *App) Close() error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.Close()
}

// SeedHook adapts a seeder into a ready hook. When report is non-nil it
// receives the seeding outcome.
func SeedHook(s *seed.Seeder[album.Album], report *seed.Report) ReadyHook {
	return func(ctx context.Context) error {
		r, err := s.Run(ctx)
		if report != nil {
			*report = r
		}
		return err
	}
}
