//go:build !amd64 && !arm64

package par

func init() {
	// No feature probing on other architectures.
	cpuFeatures = nil
}
