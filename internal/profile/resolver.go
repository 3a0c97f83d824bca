package profile

import (
	"log/slog"

	"github.com/roach88/tracklist/internal/binding"
)

// Source records where the resolved profile came from.
type Source string

const (
	SourceDefault    Source = "default"
	SourceActivation Source = "activation"
	SourceBinding    Source = "binding"
)

// Match is the outcome of binding-derived resolution.
type Match struct {
	Profile Profile
	// Bindings are the bindings that satisfied Profile, in catalog order.
	Bindings []binding.Binding
}

// Resolution is the final store selection.
type Resolution struct {
	Profile Profile
	Source  Source
	// Binding is the service that selected Profile, when Source is SourceBinding.
	Binding *binding.Binding
}

// Resolver maps activation input and bindings to at most one profile.
type Resolver struct {
	Requirements Requirements
	Logger       *slog.Logger
}

// NewResolver returns a resolver over the reference requirement table.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Requirements: DefaultRequirements(), Logger: logger}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Resolver) requirements() Requirements {
	if r.Requirements == nil {
		return DefaultRequirements()
	}
	return r.Requirements
}

// ValidateActive intersects the activation input with the profile
// enumeration. Tokens that are not store profiles are ignored; duplicates
// count once. More than one distinct store profile is an error.
func (r *Resolver) ValidateActive(activation []string) (Profile, error) {
	var active []Profile
	seen := make(map[Profile]bool)
	for _, token := range activation {
		p, ok := Parse(token)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		active = append(active, p)
	}

	switch len(active) {
	case 0:
		return None, nil
	case 1:
		return active[0], nil
	default:
		return None, newMultipleProfilesActive(active)
	}
}

// FromBindings finds the profile selected by the discovered bindings.
//
// Every (binding, profile) pair is checked: a binding is a candidate for a
// profile when its tags are a superset of the profile's requirement. More than
// one distinct candidate profile is an error naming the conflicting bindings.
func (r *Resolver) FromBindings(bindings []binding.Binding) (Match, error) {
	req := r.requirements()

	var profiles []Profile
	var names []string
	byProfile := make(map[Profile][]binding.Binding)

	for _, b := range bindings {
		matched := false
		for _, p := range All {
			tags := req.Tags(p)
			if !b.HasTags(tags...) {
				continue
			}
			if _, ok := byProfile[p]; !ok {
				profiles = append(profiles, p)
			}
			byProfile[p] = append(byProfile[p], b)
			matched = true
		}
		if matched {
			names = append(names, b.Name)
		}
	}

	switch len(profiles) {
	case 0:
		return Match{Profile: None}, nil
	case 1:
		p := profiles[0]
		r.logger().Info("setting service profile", "profile", string(p), "bindings", len(byProfile[p]))
		return Match{Profile: p, Bindings: byProfile[p]}, nil
	default:
		return Match{}, newMultipleServiceBindings(profiles, names)
	}
}

// Resolve runs both checks and combines them.
//
// Explicit input is validated first, then bindings, each independently. When
// both sources name a profile they must agree; a binding-selected profile
// carries its binding so adapters can read credentials.
func (r *Resolver) Resolve(bindings []binding.Binding, activation []string) (Resolution, error) {
	explicit, err := r.ValidateActive(activation)
	if err != nil {
		return Resolution{}, err
	}

	match, err := r.FromBindings(bindings)
	if err != nil {
		return Resolution{}, err
	}

	switch {
	case match.Profile != None && explicit != None && match.Profile != explicit:
		return Resolution{}, newMultipleProfilesActive([]Profile{explicit, match.Profile})
	case match.Profile != None:
		b := match.Bindings[0]
		return Resolution{Profile: match.Profile, Source: SourceBinding, Binding: &b}, nil
	case explicit != None:
		r.logger().Info("using explicitly activated profile", "profile", string(explicit))
		return Resolution{Profile: explicit, Source: SourceActivation}, nil
	default:
		r.logger().Debug("no store profile selected, using defaults")
		return Resolution{Profile: None, Source: SourceDefault}, nil
	}
}
