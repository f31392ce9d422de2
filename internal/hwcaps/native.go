package hwcaps

import (
	"golang.org/x/sys/cpu"
)

// Native detects the vector features of the host CPU
func Native() *Detector {
	arch := HostArch()
	return NewDetector(arch, nativeFeatures(arch)...).Named("native(" + arch.String() + ")")
}

func nativeFeatures(arch Arch) []Feature {
	var fs []Feature
	add := func(ok bool, f Feature) {
		if ok {
			fs = append(fs, f)
		}
	}

	switch {
	case arch.IsX86():
		add(cpu.X86.HasSSE2, SSE)
		add(cpu.X86.HasSSE2, SSE2)
		add(cpu.X86.HasSSE3, SSE3)
		add(cpu.X86.HasSSSE3, SSSE3)
		add(cpu.X86.HasSSE41, SSE41)
		add(cpu.X86.HasSSE42, SSE42)
		add(cpu.X86.HasAVX, AVX)
		add(cpu.X86.HasAVX2, AVX2)
		add(cpu.X86.HasFMA, FMA)
		add(cpu.X86.HasAVX512F, AVX512F)
		add(cpu.X86.HasAVX512BW, AVX512BW)
		add(cpu.X86.HasAVX512DQ, AVX512DQ)
		add(cpu.X86.HasAVX512VL, AVX512VL)
		add(cpu.X86.HasAVX512CD, AVX512CD)
	case arch == ArchAArch64:
		add(cpu.ARM64.HasASIMD, NEON)
		add(cpu.ARM64.HasSVE, SVE)
	case arch == ArchARM:
		add(cpu.ARM.HasNEON, NEON)
	case arch == ArchPPC64LE:
		fs = append(fs, AltiVec, VSX)
	case arch == ArchPPC64:
		fs = append(fs, AltiVec)
		add(cpu.PPC64.IsPOWER8, VSX)
	}
	return fs
}
