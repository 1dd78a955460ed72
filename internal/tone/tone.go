// Package tone holds the static tone table used to steer reply generation
// and to score how well a text matches a tone.
package tone

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToneID identifies one tone of the closed set.
type ToneID string

// Supported tones.
const (
	Formal       ToneID = "formal"
	Friendly     ToneID = "friendly"
	Casual       ToneID = "casual"
	Professional ToneID = "professional"
	Apologetic   ToneID = "apologetic"
	Urgent       ToneID = "urgent"
	Grateful     ToneID = "grateful"
	Polite       ToneID = "polite"
)

// DefaultTone is used whenever a tone id can't be resolved.
const DefaultTone = Professional

var closedSet = []ToneID{Formal, Friendly, Casual, Professional, Apologetic, Urgent, Grateful, Polite}

// Config describes how a tone reads and what breaks it.
type Config struct {
	ID                ToneID   `yaml:"id" json:"id"`
	Description       string   `yaml:"description" json:"description"`
	Keywords          []string `yaml:"keywords" json:"keywords"`
	StyleInstructions []string `yaml:"style_instructions" json:"style_instructions"`
	Avoid             []string `yaml:"avoid" json:"avoid"`
}

type toneEntry struct {
	Config  `yaml:",inline"`
	Related []ToneID `yaml:"related"`
}

type tableDoc struct {
	Default ToneID      `yaml:"default"`
	Tones   []toneEntry `yaml:"tones"`
}

type table struct {
	order   []ToneID
	configs map[ToneID]Config
	related map[ToneID][]ToneID
}

//go:embed tones.yaml
var tonesYAML []byte

var registry = mustLoad(tonesYAML)

func mustLoad(raw []byte) *table {
	t, err := load(raw)
	if err != nil {
		panic(fmt.Errorf("tone table: %w", err))
	}
	return t
}

func load(raw []byte) (*table, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}

	if doc.Default != DefaultTone {
		return nil, fmt.Errorf("default tone is %q, want %q", doc.Default, DefaultTone)
	}

	t := &table{
		configs: make(map[ToneID]Config, len(doc.Tones)),
		related: make(map[ToneID][]ToneID, len(doc.Tones)),
	}

	known := make(map[ToneID]bool, len(closedSet))
	for _, id := range closedSet {
		known[id] = true
	}

	for _, e := range doc.Tones {
		if !known[e.ID] {
			return nil, fmt.Errorf("unknown tone %q", e.ID)
		}
		if _, dup := t.configs[e.ID]; dup {
			return nil, fmt.Errorf("tone %q defined twice", e.ID)
		}
		if strings.TrimSpace(e.Description) == "" {
			return nil, fmt.Errorf("tone %q: empty description", e.ID)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("tone %q: no keywords", e.ID)
		}
		if len(e.Related) == 0 || len(e.Related) > 2 {
			return nil, fmt.Errorf("tone %q: want 1-2 related tones, got %d", e.ID, len(e.Related))
		}

		t.order = append(t.order, e.ID)
		t.configs[e.ID] = e.Config
		t.related[e.ID] = e.Related
	}

	var errs []error
	for _, id := range closedSet {
		if _, ok := t.configs[id]; !ok {
			errs = append(errs, fmt.Errorf("tone %q missing", id))
		}
	}
	for id, rel := range t.related {
		for _, r := range rel {
			if !known[r] {
				errs = append(errs, fmt.Errorf("tone %q: unknown related tone %q", id, r))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return t, nil
}

// Lookup resolves id case-insensitively. When id is not a known tone it
// returns the default tone config and false.
func Lookup(id string) (Config, bool) {
	cfg, ok := registry.configs[normalize(id)]
	if !ok {
		return cloneConfig(registry.configs[DefaultTone]), false
	}
	return cloneConfig(cfg), true
}

// Resolve returns the config for id, falling back to DefaultTone.
func Resolve(id string) Config {
	cfg, _ := Lookup(id)
	return cfg
}

// IsKnown reports whether id names a tone of the closed set.
func IsKnown(id string) bool {
	_, ok := registry.configs[normalize(id)]
	return ok
}

// List returns every tone with its description.
func List() map[ToneID]string {
	out := make(map[ToneID]string, len(registry.configs))
	for id, cfg := range registry.configs {
		out[id] = cfg.Description
	}
	return out
}

// IDs returns the closed set in table order.
func IDs() []ToneID {
	return append([]ToneID(nil), registry.order...)
}

func normalize(id string) ToneID {
	return ToneID(strings.ToLower(strings.TrimSpace(id)))
}

// cloneConfig keeps callers from mutating the shared table through slices.
func cloneConfig(c Config) Config {
	c.Keywords = append([]string(nil), c.Keywords...)
	c.StyleInstructions = append([]string(nil), c.StyleInstructions...)
	c.Avoid = append([]string(nil), c.Avoid...)
	return c
}
