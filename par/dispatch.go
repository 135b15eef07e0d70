// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package par

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// DefaultWorkers is the pool size used when none is configured.
// It is deliberately fixed and never derived from the matrix size.
const DefaultWorkers = 4

// CacheLineSize is the padding unit used to keep per-worker counters on
// separate cache lines.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// cpuFeatures lists the notable CPU features of this machine.
// Set by init() in dispatch_*.go files.
var cpuFeatures []string

// CPUInfo describes the machine the engine runs on. It is informational only:
// nothing in the multiply path changes behavior based on it.
type CPUInfo struct {
	Arch          string
	NumCPU        int
	GOMAXPROCS    int
	CacheLineSize int
	Features      []string
}

// CurrentCPU returns a snapshot of the detected CPU information.
func CurrentCPU() CPUInfo {
	features := make([]string, len(cpuFeatures))
	copy(features, cpuFeatures)
	return CPUInfo{
		Arch:          runtime.GOARCH,
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		CacheLineSize: CacheLineSize,
		Features:      features,
	}
}
