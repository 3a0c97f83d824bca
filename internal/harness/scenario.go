package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tracklist/internal/binding"
	"github.com/roach88/tracklist/internal/exclusion"
	"github.com/roach88/tracklist/internal/profile"
)

// Scenario defines a startup conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bindings are the services the platform attached.
	Bindings []binding.Binding `yaml:"bindings,omitempty"`

	// Activation is the operator's explicit profile list.
	Activation []string `yaml:"activation,omitempty"`

	// InitialCount is the number of albums already in the store.
	InitialCount int `yaml:"initial_count,omitempty"`

	// Dataset is the seed dataset; nil entries are JSON nulls. A missing
	// dataset seeds the bundled catalog.
	Dataset []map[string]any `yaml:"dataset,omitempty"`

	Expect Expectation `yaml:"expect"`
}

// Expectation lists what the scenario checks. Empty fields are not checked.
type Expectation struct {
	// Profile is the resolved profile identifier ("none" for None).
	Profile string `yaml:"profile,omitempty"`

	// Error is the expected resolution error code.
	Error string `yaml:"error,omitempty"`

	// Excluded lists the expected excluded families, in plan order.
	Excluded []string `yaml:"excluded,omitempty"`

	// Saved lists the titles the seeder saves, in save order. Use an empty
	// list to expect no saves.
	Saved []string `yaml:"saved,omitempty"`

	// Count is the expected final album count.
	Count *int64 `yaml:"count,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every .yaml/.yml file directly under dir, sorted by
// file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	files, err := ScenarioFiles(dir)
	if err != nil {
		return nil, err
	}

	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ScenarioFiles lists the scenario files directly under dir, sorted.
func ScenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.InitialCount < 0 {
		return fmt.Errorf("initial_count must be non-negative")
	}

	for i, b := range s.Bindings {
		if b.Name == "" {
			return fmt.Errorf("bindings[%d]: name is required", i)
		}
	}

	if s.Expect.Error == "" && s.Expect.Profile == "" {
		return fmt.Errorf("expect: profile or error is required")
	}

	switch profile.ResolveErrorCode(s.Expect.Error) {
	case "", profile.ErrCodeMultipleProfilesActive, profile.ErrCodeMultipleServiceBindings:
	default:
		return fmt.Errorf("expect.error: unknown error code %q", s.Expect.Error)
	}

	if p := s.Expect.Profile; p != "" && p != profile.None.String() {
		if _, ok := profile.Parse(p); !ok {
			return fmt.Errorf("expect.profile: unknown profile %q", p)
		}
	}

	known := make([]string, len(exclusion.AllFamilies))
	for i, f := range exclusion.AllFamilies {
		known[i] = string(f)
	}
	for i, f := range s.Expect.Excluded {
		if !contains(known, f) {
			return fmt.Errorf("expect.excluded[%d]: unknown family %q (known: %s)", i, f, strings.Join(known, ", "))
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
