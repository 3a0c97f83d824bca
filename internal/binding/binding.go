// Package binding exposes the service bindings the hosting platform attached
// to this process.
//
// Bindings are read once at startup and never mutated. The catalog is a
// read-only view: it orders bindings deterministically and logs what it found,
// nothing more. Interpreting tags is the profile package's job.
package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Binding is a declaration that an external service instance is attached to
// the application.
type Binding struct {
	Name        string         `json:"name" yaml:"name"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Tags        []string       `json:"tags" yaml:"tags"`
	Credentials map[string]any `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}

// HasTags reports whether the binding's tag set is a superset of required.
// An empty requirement never matches; a profile must ask for something.
func (b Binding) HasTags(required ...string) bool {
	if len(required) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(b.Tags))
	for _, tag := range b.Tags {
		have[tag] = struct{}{}
	}
	for _, tag := range required {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// URI returns the connection string from the binding credentials, if any.
func (b Binding) URI() string {
	for _, key := range []string{"uri", "url", "jdbcUrl"} {
		if v, ok := b.Credentials[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Catalog is the ordered set of bindings discovered at process start.
type Catalog struct {
	bindings []Binding
	logger   *slog.Logger
	logOnce  sync.Once
}

// NewCatalog wraps bindings in discovery order.
// A nil logger falls back to slog.Default().
func NewCatalog(bindings []Binding, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return &Catalog{bindings: out, logger: logger}
}

// Bindings returns the discovered bindings in order.
// The first call logs the binding names.
func (c *Catalog) Bindings() []Binding {
	c.logOnce.Do(func() {
		c.logger.Info("found services", "names", strings.Join(c.Names(), ","))
	})
	out := make([]Binding, len(c.bindings))
	copy(out, c.bindings)
	return out
}

// Names returns the binding names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.bindings))
	for i, b := range c.bindings {
		names[i] = b.Name
	}
	return names
}

// Len returns the number of bindings.
func (c *Catalog) Len() int {
	return len(c.bindings)
}

// ParseVCAPServices decodes a Cloud Foundry VCAP_SERVICES document.
//
// The document maps service labels to arrays of service instances. Labels are
// visited in sorted order so the result does not depend on map iteration;
// instances keep their array order within a label. Empty input is not an error.
func ParseVCAPServices(raw []byte) ([]Binding, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var doc map[string][]Binding
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse VCAP_SERVICES: %w", err)
	}

	labels := make([]string, 0, len(doc))
	for label := range doc {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var out []Binding
	for _, label := range labels {
		for _, b := range doc[label] {
			if b.Label == "" {
				b.Label = label
			}
			out = append(out, b)
		}
	}
	return out, nil
}

type vcapEnv struct {
	Services string `env:"VCAP_SERVICES"`
}

// FromEnv builds a catalog from the VCAP_SERVICES environment variable.
// An unset variable yields an empty catalog.
func FromEnv(logger *slog.Logger) (*Catalog, error) {
	var e vcapEnv
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	bindings, err := ParseVCAPServices([]byte(e.Services))
	if err != nil {
		return nil, err
	}
	return NewCatalog(bindings, logger), nil
}
