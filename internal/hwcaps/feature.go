package hwcaps

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// Feature is a single vector instruction-set extension
type Feature int

const (
	SSE Feature = iota
	SSE2
	SSE3
	SSSE3
	SSE41
	SSE42
	AVX
	AVX2
	FMA
	F16C
	AVX512F
	AVX512BW
	AVX512DQ
	AVX512VL
	AVX512CD
	NEON
	SVE
	AltiVec
	VSX
	SIMD128
)

var featureNames = []string{
	SSE:      "sse",
	SSE2:     "sse2",
	SSE3:     "sse3",
	SSSE3:    "ssse3",
	SSE41:    "sse4.1",
	SSE42:    "sse4.2",
	AVX:      "avx",
	AVX2:     "avx2",
	FMA:      "fma",
	F16C:     "f16c",
	AVX512F:  "avx512f",
	AVX512BW: "avx512bw",
	AVX512DQ: "avx512dq",
	AVX512VL: "avx512vl",
	AVX512CD: "avx512cd",
	NEON:     "neon",
	SVE:      "sve",
	AltiVec:  "altivec",
	VSX:      "vsx",
	SIMD128:  "simd128",
}

// String returns the conventional lower-case feature name
func (f Feature) String() string {
	if int(f) >= 0 && int(f) < len(featureNames) {
		return featureNames[f]
	}
	return "unknown"
}

// ParseFeature resolves a feature name. Dots and dashes are optional, so
// "sse4.1", "sse41" and "SSE4_1" all name the same feature.
func ParseFeature(name string) (Feature, bool) {
	norm := normalizeFeatureName(name)
	for i, n := range featureNames {
		if normalizeFeatureName(n) == norm {
			return Feature(i), true
		}
	}
	switch norm {
	case "asimd":
		return NEON, true
	case "vmx":
		return AltiVec, true
	}
	return 0, false
}

func normalizeFeatureName(name string) string {
	r := strings.NewReplacer(".", "", "-", "", "_", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// FeatureSet is an immutable set of available features
type FeatureSet struct {
	s *set.Set[Feature]
}

// NewFeatureSet builds a set from the given features
func NewFeatureSet(features ...Feature) FeatureSet {
	return FeatureSet{s: set.From(features)}
}

// Has reports whether f is present
func (fs FeatureSet) Has(f Feature) bool {
	return fs.s != nil && fs.s.Contains(f)
}

// HasAll reports whether every listed feature is present
func (fs FeatureSet) HasAll(features []Feature) bool {
	for _, f := range features {
		if !fs.Has(f) {
			return false
		}
	}
	return true
}

// Len returns the number of features in the set
func (fs FeatureSet) Len() int {
	if fs.s == nil {
		return 0
	}
	return fs.s.Size()
}

// With returns a new set with the extra features added
func (fs FeatureSet) With(features ...Feature) FeatureSet {
	next := set.New[Feature](fs.Len() + len(features))
	for _, f := range fs.Slice() {
		next.Insert(f)
	}
	for _, f := range features {
		next.Insert(f)
	}
	return FeatureSet{s: next}
}

// Slice returns the features in declaration order
func (fs FeatureSet) Slice() []Feature {
	if fs.s == nil {
		return nil
	}
	out := fs.s.Slice()
	slices.Sort(out)
	return out
}

// String renders the set as space separated names
func (fs FeatureSet) String() string {
	return joinFeatures(fs.Slice())
}

func joinFeatures(features []Feature) string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.String()
	}
	return strings.Join(names, " ")
}
