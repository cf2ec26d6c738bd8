package catalogue

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogueFileYAML is the on-disk catalogue schema:
//
//	role: air
//	implementations:
//	  - name: heli-A
//	    provides: {area_ha: 10}
//	    requires: {cost_usd: 500, logistics_kg: 100, response_min: 20}
type catalogueFileYAML struct {
	Role            string      `yaml:"role"`
	Implementations []entryYAML `yaml:"implementations"`
}

type entryYAML struct {
	Name     string             `yaml:"name"`
	Provides map[string]float64 `yaml:"provides"`
	Requires map[string]float64 `yaml:"requires"`
}

// ParseFile parses a catalogue YAML file. Unknown fields are rejected so
// typos in quantity sections fail loudly instead of silently dropping data.
func ParseFile(path string) (role string, entries []Entry, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (string, []Entry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogueFileYAML
	if err := dec.Decode(&f); err != nil {
		return "", nil, fmt.Errorf("invalid catalogue YAML in %s: %w", path, err)
	}
	if f.Role == "" {
		return "", nil, fmt.Errorf("catalogue file %s does not declare a role", path)
	}

	entries := make([]Entry, len(f.Implementations))
	for i, e := range f.Implementations {
		entries[i] = Entry{Name: e.Name, Provides: e.Provides, Requires: e.Requires}
	}
	return f.Role, entries, nil
}

// LoadDir loads every catalogue file (*.yaml, *.yml) in dir into the store,
// in lexical filename order, then verifies the model's roles are covered.
func (s *Store) LoadDir(dir string) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read catalogues directory: %w", err)
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return fmt.Errorf("no catalogue files found in %s", dir)
	}

	for _, name := range files {
		path := filepath.Join(dir, name)
		role, entries, err := ParseFile(path)
		if err != nil {
			return err
		}
		if err := s.Load(role, entries); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return s.Complete()
}
