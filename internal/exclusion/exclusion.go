// Package exclusion maps a resolved store profile to the store subsystems that
// must stay disabled.
//
// PlanFor is a pure table lookup: total over every profile value including
// None, with a fixed output order. The plan is published into the startup
// configuration chain as one comma-joined property.
package exclusion

import (
	"strings"

	"github.com/roach88/tracklist/internal/profile"
)

const (
	// PropertyName is the configuration key the plan is published under.
	PropertyName = "tracklist.autoconfigure.exclude"

	// SourceName names the configuration source carrying the plan.
	SourceName = "tracklistAutoConfig"
)

const storePkg = "github.com/roach88/tracklist/internal/store"

// Component identifiers have the form "<adapter import path>.<Component>".
// The package path names the real adapter package that serves the family;
// the suffix is an opaque component name, not a Go symbol. Identifiers are
// compared as strings only.
const (
	RelationalDataSource = storePkg + "/relational.DataSource"

	DocumentClient       = storePkg + "/document.Client"
	DocumentData         = storePkg + "/document.Data"
	DocumentRepositories = storePkg + "/document.Repositories"

	KeyValueData         = storePkg + "/keyvalue.Data"
	KeyValueRepositories = storePkg + "/keyvalue.Repositories"
)

// Family is a group of store components that are enabled or disabled together.
type Family string

const (
	Relational Family = "relational-access"
	Document   Family = "document-access"
	Cache      Family = "cache-access"
)

// Components returns the component identifiers belonging to the family.
func (f Family) Components() []string {
	switch f {
	case Relational:
		return []string{RelationalDataSource}
	case Document:
		return []string{DocumentClient, DocumentData, DocumentRepositories}
	case Cache:
		return []string{KeyValueData, KeyValueRepositories}
	default:
		return nil
	}
}

// AllFamilies lists every known family.
var AllFamilies = []Family{Relational, Document, Cache}

// Plan is the ordered set of families to disable.
type Plan struct {
	families []Family
}

// PlanFor returns the exclusion plan for p. Unknown profiles and None get the
// default plan, which leaves relational access enabled.
func PlanFor(p profile.Profile) Plan {
	switch p {
	case profile.Redis:
		return Plan{families: []Family{Relational, Document}}
	case profile.MongoDB:
		return Plan{families: []Family{Relational, Cache}}
	default:
		return Plan{families: []Family{Document, Cache}}
	}
}

// Families returns the excluded families in plan order.
func (p Plan) Families() []Family {
	out := make([]Family, len(p.families))
	copy(out, p.families)
	return out
}

// Components returns every excluded component identifier in plan order.
func (p Plan) Components() []string {
	var out []string
	for _, f := range p.families {
		out = append(out, f.Components()...)
	}
	return out
}

// Excludes reports whether the family is disabled by the plan.
func (p Plan) Excludes(f Family) bool {
	for _, excluded := range p.families {
		if excluded == f {
			return true
		}
	}
	return false
}

// Value renders the plan as the published property value.
func (p Plan) Value() string {
	return strings.Join(p.Components(), ",")
}

// ParseValue reads a published exclusion value back into a component set.
// Blank entries are dropped.
func ParseValue(value string) map[string]bool {
	out := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out[part] = true
		}
	}
	return out
}

// FamiliesExcluded returns the families whose components are all present in
// the excluded set, in AllFamilies order.
func FamiliesExcluded(excluded map[string]bool) []Family {
	var out []Family
	for _, f := range AllFamilies {
		all := true
		for _, c := range f.Components() {
			if !excluded[c] {
				all = false
				break
			}
		}
		if all {
			out = append(out, f)
		}
	}
	return out
}

// FamilyFor returns the family that serves a profile.
func FamilyFor(p profile.Profile) Family {
	switch p {
	case profile.Redis:
		return Cache
	case profile.MongoDB:
		return Document
	default:
		return Relational
	}
}
