package hwcaps

import "strings"

// Arch identifies a target CPU family
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchX86
	ArchAArch64
	ArchARM
	ArchPPC64LE
	ArchPPC64
	ArchRISCV64
	ArchWasm32
)

// String returns the LLVM-style architecture name
func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchX86:
		return "i686"
	case ArchAArch64:
		return "aarch64"
	case ArchARM:
		return "arm"
	case ArchPPC64LE:
		return "powerpc64le"
	case ArchPPC64:
		return "powerpc64"
	case ArchRISCV64:
		return "riscv64"
	case ArchWasm32:
		return "wasm32"
	default:
		return "unknown"
	}
}

// IsX86 reports whether a belongs to the x86 family
func (a Arch) IsX86() bool { return a == ArchX86_64 || a == ArchX86 }

// IsARM reports whether a belongs to the ARM family
func (a Arch) IsARM() bool { return a == ArchAArch64 || a == ArchARM }

// IsPPC reports whether a belongs to the POWER family
func (a Arch) IsPPC() bool { return a == ArchPPC64LE || a == ArchPPC64 }

// ParseArch accepts GOARCH spellings, LLVM spellings and full target
// triples such as "x86_64-unknown-linux-gnu".
func ParseArch(name string) (Arch, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Replace(name, "x86-64", "x86_64", 1)
	if i := strings.IndexByte(name, '-'); i > 0 {
		name = name[:i]
	}
	switch name {
	case "x86_64", "amd64", "x64":
		return ArchX86_64, true
	case "i386", "i486", "i586", "i686", "x86", "386":
		return ArchX86, true
	case "aarch64", "arm64":
		return ArchAArch64, true
	case "ppc64le", "powerpc64le":
		return ArchPPC64LE, true
	case "ppc64", "powerpc64":
		return ArchPPC64, true
	case "riscv64", "riscv64gc":
		return ArchRISCV64, true
	case "wasm32", "wasm":
		return ArchWasm32, true
	}
	if strings.HasPrefix(name, "arm") || strings.HasPrefix(name, "thumb") {
		return ArchARM, true
	}
	return ArchUnknown, false
}

// archFromGOARCH maps a Go GOARCH value to an Arch
func archFromGOARCH(goarch string) Arch {
	switch goarch {
	case "amd64":
		return ArchX86_64
	case "386":
		return ArchX86
	case "arm64":
		return ArchAArch64
	case "arm":
		return ArchARM
	case "ppc64le":
		return ArchPPC64LE
	case "ppc64":
		return ArchPPC64
	case "riscv64":
		return ArchRISCV64
	case "wasm":
		return ArchWasm32
	default:
		return ArchUnknown
	}
}
