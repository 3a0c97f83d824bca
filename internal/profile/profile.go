// Package profile resolves which single backing-store profile the process
// runs under.
//
// Two independent sources can name a profile: the operator's explicit
// activation list and the tags on discovered service bindings. Each source is
// validated on its own before they are combined, so a bad operator override
// is reported as such and is never hidden by a correct binding.
package profile

import "strings"

// Profile names a backing-store technology.
type Profile string

// Supported store profiles. None means no store profile was selected and
// defaults apply downstream.
const (
	None      Profile = ""
	MongoDB   Profile = "mongodb"
	Postgres  Profile = "postgres"
	MySQL     Profile = "mysql"
	Redis     Profile = "redis"
	Oracle    Profile = "oracle"
	SQLServer Profile = "sqlserver"
)

// All lists the supported profiles in resolution order.
var All = []Profile{MongoDB, Postgres, MySQL, Redis, Oracle, SQLServer}

// String returns the profile identifier, or "none".
func (p Profile) String() string {
	if p == None {
		return "none"
	}
	return string(p)
}

// Valid reports whether p is one of the supported store profiles.
func (p Profile) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// Parse maps a token to a profile. Unknown tokens return None, false.
func Parse(token string) (Profile, bool) {
	p := Profile(strings.ToLower(strings.TrimSpace(token)))
	if p.Valid() {
		return p, true
	}
	return None, false
}

// Requirements maps each profile to the tags a binding must carry to select it.
type Requirements map[Profile][]string

// DefaultRequirements is the reference table: one tag per profile, named after
// the profile.
func DefaultRequirements() Requirements {
	req := make(Requirements, len(All))
	for _, p := range All {
		req[p] = []string{string(p)}
	}
	return req
}

// Tags returns the required tags for p.
func (r Requirements) Tags(p Profile) []string {
	return r[p]
}
