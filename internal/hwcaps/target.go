package hwcaps

import (
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// x86-64 micro-architecture levels (psABI). Each level includes the
// previous one.
var x86Levels = map[string][]Feature{
	"x86_64-v1": {SSE, SSE2},
	"x86_64-v2": {SSE, SSE2, SSE3, SSSE3, SSE41, SSE42},
	"x86_64-v3": {SSE, SSE2, SSE3, SSSE3, SSE41, SSE42, AVX, AVX2, FMA, F16C},
	"x86_64-v4": {SSE, SSE2, SSE3, SSSE3, SSE41, SSE42, AVX, AVX2, FMA, F16C,
		AVX512F, AVX512BW, AVX512DQ, AVX512VL, AVX512CD},
}

// Baseline returns the conservative feature set every CPU of arch is
// guaranteed to have.
func Baseline(arch Arch) *Detector {
	switch arch {
	case ArchX86_64:
		return NewDetector(arch, SSE, SSE2)
	case ArchAArch64:
		return NewDetector(arch, NEON)
	case ArchPPC64LE:
		return NewDetector(arch, AltiVec, VSX)
	default:
		return NewDetector(arch)
	}
}

// HostArch returns the architecture the process is running on
func HostArch() Arch {
	return archFromGOARCH(runtime.GOARCH)
}

// ForTarget resolves a target identifier. The empty string and "native"
// inspect the host CPU, as does naming the host's own architecture. Any
// other architecture is a cross-compilation target and gets only its
// baseline features. x86-64 level names ("x86_64-v3") select that level.
func ForTarget(name string) (*Detector, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" || trimmed == "native" {
		return Native(), nil
	}

	level := strings.Replace(trimmed, "x86-64", "x86_64", 1)
	level = strings.Replace(level, "amd64", "x86_64", 1)
	if features, ok := x86Levels[level]; ok {
		return NewDetector(ArchX86_64, features...).Named(level), nil
	}

	arch, ok := ParseArch(trimmed)
	if !ok {
		return nil, errors.Errorf("unknown target architecture %q", name)
	}
	if arch == HostArch() {
		return Native(), nil
	}
	return Baseline(arch).Named(trimmed), nil
}

// Levels returns the known x86-64 level names
func Levels() []string {
	return []string{"x86_64-v1", "x86_64-v2", "x86_64-v3", "x86_64-v4"}
}
