package boot

import (
	"context"
	"fmt"

	"github.com/roach88/tracklist/internal/album"
	"github.com/roach88/tracklist/internal/config"
	"github.com/roach88/tracklist/internal/exclusion"
	"github.com/roach88/tracklist/internal/profile"
	"github.com/roach88/tracklist/internal/store"
	"github.com/roach88/tracklist/internal/store/document"
	"github.com/roach88/tracklist/internal/store/keyvalue"
	"github.com/roach88/tracklist/internal/store/relational"
)

// OpenRepository opens the store adapter for the resolved profile and no
// other. The exclusion list is read back from the configuration chain, so an
// operator-visible override that disables the adapter's family wins.
func OpenRepository(ctx context.Context, s *Startup, settings config.Settings) (album.Repository, error) {
	p := s.Profile()
	family := exclusion.FamilyFor(p)

	chain := s.Config
	if chain == nil {
		chain = config.NewChain()
		config.Publish(chain, s.Plan)
	}
	for _, f := range exclusion.FamiliesExcluded(config.Excluded(chain)) {
		if f == family {
			return nil, &StartupError{
				Stage: StageOpen,
				Err:   fmt.Errorf("%w: %s needs %s", ErrSubsystemExcluded, p, family),
			}
		}
	}

	repo, err := open(ctx, s, settings)
	if err != nil {
		return nil, &StartupError{Stage: StageOpen, Err: err}
	}
	s.log().Info("store opened", "profile", p.String(), "family", string(family))
	return repo, nil
}

func open(ctx context.Context, s *Startup, settings config.Settings) (album.Repository, error) {
	p := s.Profile()
	if p == profile.None {
		return store.Open(settings.DBPath)
	}

	uri := settings.StoreURI
	if b := s.Resolution.Binding; b != nil {
		if bound := b.URI(); bound != "" {
			uri = bound
		}
	}
	if uri == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingURI, p)
	}

	switch p {
	case profile.Redis:
		return keyvalue.Open(ctx, uri)
	case profile.MongoDB:
		return document.Open(ctx, uri, s.log())
	default:
		dialector, err := relational.Dialector(p, uri)
		if err != nil {
			return nil, err
		}
		return relational.Open(ctx, dialector, s.log())
	}
}
