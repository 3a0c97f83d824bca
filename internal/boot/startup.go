// Package boot sequences process startup.
//
// The order is fixed and explicit: read bindings, resolve the store profile,
// derive the exclusion plan, publish it into the configuration chain, open
// the one store adapter the plan leaves enabled, then run ready hooks (the
// seeder) exactly once. Nothing listens for requests until Ready returns.
package boot

import (
	"log/slog"

	"github.com/roach88/tracklist/internal/binding"
	"github.com/roach88/tracklist/internal/config"
	"github.com/roach88/tracklist/internal/exclusion"
	"github.com/roach88/tracklist/internal/profile"
)

// Startup is the outcome of profile resolution and exclusion publishing.
type Startup struct {
	Resolution profile.Resolution
	Plan       exclusion.Plan
	Config     *config.Chain
	// Services names every bound service, matched or not.
	Services []string

	logger *slog.Logger
}

// Resolve runs the pre-listen startup decisions in order. chain receives the
// published exclusion plan; a nil chain gets a fresh one.
func Resolve(catalog *binding.Catalog, activation []string, chain *config.Chain, logger *slog.Logger) (*Startup, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = binding.NewCatalog(nil, logger)
	}
	if chain == nil {
		chain = config.NewChain()
	}

	bindings := catalog.Bindings()

	res, err := profile.NewResolver(logger).Resolve(bindings, activation)
	if err != nil {
		return nil, &StartupError{Stage: StageResolve, Err: err}
	}

	plan := exclusion.PlanFor(res.Profile)
	config.Publish(chain, plan)
	logger.Debug("published store exclusions",
		"profile", res.Profile.String(),
		"source", string(res.Source),
		"property", exclusion.PropertyName,
		"value", plan.Value(),
	)

	return &Startup{
		Resolution: res,
		Plan:       plan,
		Config:     chain,
		Services:   catalog.Names(),
		logger:     logger,
	}, nil
}

// log returns the startup logger, or slog.Default for a Startup built
// without Resolve.
func (s *Startup) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}

// Profile is shorthand for the resolved profile.
func (s *Startup) Profile() profile.Profile {
	return s.Resolution.Profile
}

// Info is the application summary served at /appinfo.
type Info struct {
	Profiles []string `json:"profiles"`
	Services []string `json:"services"`
}

// AppInfo reports the active profile and the bound service names. The None
// profile reports no profiles.
func AppInfo(s *Startup) Info {
	info := Info{Profiles: []string{}, Services: []string{}}
	if s == nil {
		return info
	}
	if p := s.Profile(); p != profile.None {
		info.Profiles = append(info.Profiles, p.String())
	}
	info.Services = append(info.Services, s.Services...)
	return info
}
