//go:build arm64

package par

import "golang.org/x/sys/cpu"

func init() {
	// Note: cpu.ARM64.HasASIMD is always true for ARMv8+
	if cpu.ARM64.HasASIMD {
		cpuFeatures = append(cpuFeatures, "asimd")
	}
	if cpu.ARM64.HasFP {
		cpuFeatures = append(cpuFeatures, "fp")
	}
	if cpu.ARM64.HasASIMDDP {
		cpuFeatures = append(cpuFeatures, "asimddp")
	}
	if cpu.ARM64.HasSVE {
		cpuFeatures = append(cpuFeatures, "sve")
	}
}
