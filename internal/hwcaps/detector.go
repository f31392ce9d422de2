package hwcaps

import (
	"fmt"

	"github.com/lhaig/eacheck/internal/types"
)

// Detector answers vector-support questions for one target. It is built
// once and never mutated, so a single Detector may be shared by any number
// of concurrently running checkers.
type Detector struct {
	arch     Arch
	features FeatureSet
	name     string
}

// NewDetector creates a detector for arch with exactly the given features
func NewDetector(arch Arch, features ...Feature) *Detector {
	return &Detector{
		arch:     arch,
		features: NewFeatureSet(features...),
		name:     arch.String(),
	}
}

// Named returns a copy of d reported under a different target name, used
// for micro-architecture levels and configured CPU profiles.
func (d *Detector) Named(name string) *Detector {
	return &Detector{arch: d.arch, features: d.features, name: name}
}

// Arch returns the target architecture
func (d *Detector) Arch() Arch { return d.arch }

// Features returns the available feature set
func (d *Detector) Features() FeatureSet { return d.features }

// Has reports whether a single feature is available
func (d *Detector) Has(f Feature) bool { return d.features.Has(f) }

// Target returns the name the detector was resolved from
func (d *Detector) Target() string { return d.name }

// String returns a summary such as "x86_64 [sse sse2]"
func (d *Detector) String() string {
	return fmt.Sprintf("%s [%s]", d.name, d.features)
}

// IsSupported reports whether kind can be executed natively on the target
func (d *Detector) IsSupported(kind types.VectorKind) bool {
	for _, req := range requirements[kind] {
		if req.appliesTo(d.arch) && d.features.HasAll(req.features) {
			return true
		}
	}
	return false
}

// RequiredFeatures returns the features kind needs on this architecture.
// When several alternatives apply, the first satisfied one wins, otherwise
// the first listed. It returns nil when the architecture cannot run kind at
// all.
func (d *Detector) RequiredFeatures(kind types.VectorKind) []Feature {
	var first []Feature
	found := false
	for _, req := range requirements[kind] {
		if !req.appliesTo(d.arch) {
			continue
		}
		if d.features.HasAll(req.features) {
			return append([]Feature(nil), req.features...)
		}
		if !found {
			first = req.features
			found = true
		}
	}
	return append([]Feature(nil), first...)
}

// MissingFeatures returns the required features the target lacks
func (d *Detector) MissingFeatures(kind types.VectorKind) []Feature {
	var missing []Feature
	for _, f := range d.RequiredFeatures(kind) {
		if !d.features.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Explain describes why kind is unsupported, for diagnostics. It returns an
// empty string for supported kinds.
func (d *Detector) Explain(kind types.VectorKind) string {
	if d.IsSupported(kind) {
		return ""
	}
	missing := d.MissingFeatures(kind)
	if len(missing) == 0 {
		return fmt.Sprintf("%s has no instruction set for %s", d.name, kind)
	}
	return fmt.Sprintf("requires %s", joinFeatures(missing))
}
