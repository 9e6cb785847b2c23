// Package templates loads named skill-weight presets from YAML files.
//
// A template bundles the weights a coach saved for a recurring session
// type ("beach doubles", "league night") so a generation request can
// name a preset instead of spelling out six numbers.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sideout/sideout/internal/domain/model"
)

// Template is one weight preset as stored on disk.
type Template struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Weights     map[string]float64 `yaml:"weights" json:"weights"`
	TeamCap     int                `yaml:"team_cap,omitempty" json:"team_cap,omitempty"`
}

// Validate checks the template is usable: a name, known skill keys,
// no negative weights, and a non-negative team cap.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTemplate)
	}
	if len(t.Weights) == 0 {
		return fmt.Errorf("%w: %q has no weights", ErrInvalidTemplate, t.Name)
	}
	for name, v := range t.Weights {
		if v < 0 {
			return fmt.Errorf("%w: %q weight %q is negative", ErrInvalidTemplate, t.Name, name)
		}
	}
	if _, err := model.WeightsFromMap(t.Weights); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidTemplate, t.Name, err)
	}
	if t.TeamCap < 0 {
		return fmt.Errorf("%w: %q team_cap is negative", ErrInvalidTemplate, t.Name)
	}
	return nil
}

// SkillWeights converts the template's weight map to the engine type.
// Validate must have passed; unknown keys fail here too.
func (t *Template) SkillWeights() (model.SkillWeights, error) {
	return model.WeightsFromMap(t.Weights)
}

// Parse decodes and validates a single template payload.
func Parse(data []byte) (Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Template{}, fmt.Errorf("%w: empty payload", ErrInvalidTemplate)
	}
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("templates: decode: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// LoadFile reads and parses one template file.
func LoadFile(path string) (Template, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return Template{}, fmt.Errorf("templates: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Template{}, fmt.Errorf("templates: %s: %w", path, err)
	}
	return t, nil
}

// LoadDir scans a directory for *.yaml and *.yml presets, sorted by
// name. A missing or empty directory means no presets, not an error,
// so a fresh deployment starts without any files on disk.
func LoadDir(dir string) ([]Template, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("templates: read %s: %w", trimmed, err)
	}

	var out []Template
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		t, err := LoadFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
