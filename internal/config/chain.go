// Package config holds process settings and the ordered configuration source
// chain that startup decisions are published into.
//
// The chain is consulted front to back: the first source that has a key wins.
// Startup publishes the store exclusion plan with AddFirst so it overrides
// anything an operator or a default put further down.
package config

import (
	"strings"

	"github.com/roach88/tracklist/internal/exclusion"
)

// Source is a named set of configuration properties.
type Source interface {
	Name() string
	Lookup(key string) (string, bool)
}

// MapSource is a Source backed by a map.
type MapSource struct {
	name   string
	values map[string]string
}

// NewMapSource copies values into a new source.
func NewMapSource(name string, values map[string]string) *MapSource {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &MapSource{name: name, values: cp}
}

// Name implements Source.
func (m *MapSource) Name() string { return m.name }

// Lookup implements Source.
func (m *MapSource) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Chain is an ordered list of sources, highest precedence first.
type Chain struct {
	sources []Source
}

// NewChain returns a chain over sources in precedence order.
func NewChain(sources ...Source) *Chain {
	c := &Chain{}
	for _, s := range sources {
		c.AddLast(s)
	}
	return c
}

// AddFirst inserts s with the highest precedence. A source with the same name
// is replaced.
func (c *Chain) AddFirst(s Source) {
	c.remove(s.Name())
	c.sources = append([]Source{s}, c.sources...)
}

// AddLast appends s with the lowest precedence. A source with the same name
// is replaced.
func (c *Chain) AddLast(s Source) {
	c.remove(s.Name())
	c.sources = append(c.sources, s)
}

func (c *Chain) remove(name string) {
	kept := c.sources[:0]
	for _, s := range c.sources {
		if s.Name() != name {
			kept = append(kept, s)
		}
	}
	c.sources = kept
}

// Lookup returns the value from the first source that defines key.
func (c *Chain) Lookup(key string) (string, bool) {
	for _, s := range c.sources {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Get returns the value for key, or fallback when no source defines it.
func (c *Chain) Get(key, fallback string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return fallback
}

// Names lists the sources in precedence order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Publish inserts the exclusion plan as the highest-precedence source.
func Publish(c *Chain, plan exclusion.Plan) {
	c.AddFirst(NewMapSource(exclusion.SourceName, map[string]string{
		exclusion.PropertyName: plan.Value(),
	}))
}

// Excluded reads the published exclusion set back from the chain.
func Excluded(c *Chain) map[string]bool {
	return exclusion.ParseValue(strings.TrimSpace(c.Get(exclusion.PropertyName, "")))
}
