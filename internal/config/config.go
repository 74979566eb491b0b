// Package config loads named execution presets — an ExecutionLimits plus a
// CapabilitySet, keyed by name ("trusted", "sandboxed", "preview-only") —
// from an embedded default TOML document or a host-supplied override file.
package config

import (
	_ "embed"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/guard"
)

//go:embed presets.toml
var defaultPresetsTOML string

// presetDoc mirrors presets.toml's shape for BurntSushi/toml decoding.
type presetDoc struct {
	Preset map[string]presetEntry `toml:"preset"`
}

type presetEntry struct {
	Capabilities       []string `toml:"capabilities"`
	InstructionBudget  int      `toml:"instruction_budget"`
	MaxCallDepth       int      `toml:"max_call_depth"`
	MaxValueStackDepth int      `toml:"max_value_stack_depth"`
	WallClockMillis    int      `toml:"wall_clock_millis"`
}

// Preset is a fully resolved, ready-to-use execution configuration.
type Preset struct {
	Name         string
	Capabilities capability.Set
	Limits       guard.ExecutionLimits
}

// ErrUnknownPreset is returned when a requested preset name isn't defined.
var ErrUnknownPreset = errors.New("unknown preset")

// Presets is a name-keyed table of resolved presets, built once by Load.
type Presets struct {
	byName map[string]Preset
}

// Load decodes the embedded default presets document, then (if overridePath
// is non-empty) decodes overridePath on top of it — entries in the override
// file replace same-named entries from the default document.
func Load(overridePath string) (*Presets, error) {
	var doc presetDoc
	if _, err := toml.Decode(defaultPresetsTOML, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding embedded default presets")
	}

	if overridePath != "" {
		var override presetDoc
		if _, err := toml.DecodeFile(overridePath, &override); err != nil {
			return nil, errors.Wrapf(err, "decoding preset override file %q", overridePath)
		}
		for name, entry := range override.Preset {
			doc.Preset[name] = entry
		}
	}

	p := &Presets{byName: make(map[string]Preset, len(doc.Preset))}
	for presetName, entry := range doc.Preset {
		caps := capability.NewSet()
		for _, capName := range entry.Capabilities {
			c, ok := capability.ParseCapability(capName)
			if !ok {
				return nil, errors.Errorf("preset %q: unknown capability %q", presetName, capName)
			}
			caps = caps.With(c)
		}
		p.byName[presetName] = Preset{
			Name:         presetName,
			Capabilities: caps,
			Limits: guard.ExecutionLimits{
				InstructionBudget:  entry.InstructionBudget,
				MaxCallDepth:       entry.MaxCallDepth,
				MaxValueStackDepth: entry.MaxValueStackDepth,
				WallClock:          time.Duration(entry.WallClockMillis) * time.Millisecond,
			},
		}
	}
	return p, nil
}

// Get looks up a preset by name.
func (p *Presets) Get(name string) (Preset, error) {
	preset, ok := p.byName[name]
	if !ok {
		return Preset{}, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return preset, nil
}

// Names returns every loaded preset's name.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	return names
}
