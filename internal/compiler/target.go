package compiler

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/lhaig/eacheck/internal/config"
	"github.com/lhaig/eacheck/internal/hwcaps"
)

// ResolveTarget returns the capability detector for a target identifier.
// An empty name falls back to the configured target. Profiles defined in
// cfg take precedence over architecture and level names, so a project can
// shadow "x86_64" with its own CPU. cfg may be nil.
func ResolveTarget(name string, cfg *config.Config) (*hwcaps.Detector, error) {
	name = strings.TrimSpace(name)
	if name == "" && cfg != nil {
		name = cfg.Target
	}

	if cfg != nil {
		if p, ok := cfg.Profile(name); ok {
			d, err := p.Detector()
			if err != nil {
				return nil, errors.Wrapf(err, "compiler: profile %s", name)
			}
			return d, nil
		}
	}

	d, err := hwcaps.ForTarget(name)
	if err != nil {
		return nil, errors.Wrapf(err, "compiler: resolve target (known: %s)", strings.Join(KnownTargets(cfg), ", "))
	}
	return d, nil
}

// KnownTargets lists the identifiers ResolveTarget accepts besides
// architecture names: "native", the x86-64 levels and any configured profiles.
func KnownTargets(cfg *config.Config) []string {
	names := append([]string{"native"}, hwcaps.Levels()...)
	if cfg != nil {
		for _, p := range cfg.Profiles {
			names = append(names, p.Name)
		}
	}
	return names
}
