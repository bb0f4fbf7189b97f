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

// Package cpuinfo reports the hardware parallelism available to the process
// and the CPU features detected by golang.org/x/sys/cpu.
package cpuinfo

import (
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sys/cpu"
)

// MaxParallelismEnv caps the parallelism reported by AvailableParallelism.
// Useful in containers where the CPU quota is lower than the visible cores.
const MaxParallelismEnv = "MATBENCH_MAX_PARALLELISM"

// AvailableParallelism returns the number of workers that can run
// simultaneously: the smaller of the CPUs usable by this process and
// GOMAXPROCS, further capped by MATBENCH_MAX_PARALLELISM when it is set to a
// positive integer. Always >= 1.
func AvailableParallelism() int {
	n := min(runtime.NumCPU(), runtime.GOMAXPROCS(0))
	if limit := maxParallelismEnv(); limit > 0 {
		n = min(n, limit)
	}
	return max(n, 1)
}

// maxParallelismEnv returns the MATBENCH_MAX_PARALLELISM value, or 0 when it
// is unset or malformed.
func maxParallelismEnv() int {
	val := os.Getenv(MaxParallelismEnv)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Feature is a single named CPU capability.
type Feature struct {
	Name    string
	Present bool
}

// Info is a snapshot of the host as seen by the Go runtime.
type Info struct {
	GOOS                 string
	GOARCH               string
	NumCPU               int
	GOMAXPROCS           int
	AvailableParallelism int
	Features             []Feature
}

// Detect collects runtime and CPU feature information for the current host.
func Detect() Info {
	info := Info{
		GOOS:                 runtime.GOOS,
		GOARCH:               runtime.GOARCH,
		NumCPU:               runtime.NumCPU(),
		GOMAXPROCS:           runtime.GOMAXPROCS(0),
		AvailableParallelism: AvailableParallelism(),
	}
	switch runtime.GOARCH {
	case "amd64":
		info.Features = amd64Features()
	case "arm64":
		info.Features = arm64Features()
	}
	return info
}

func amd64Features() []Feature {
	return []Feature{
		{"SSE2", cpu.X86.HasSSE2},
		{"SSE4.1", cpu.X86.HasSSE41},
		{"SSE4.2", cpu.X86.HasSSE42},
		{"AVX", cpu.X86.HasAVX},
		{"AVX2", cpu.X86.HasAVX2},
		{"FMA", cpu.X86.HasFMA},
		{"AVX512F", cpu.X86.HasAVX512F},
		{"AVX512VNNI", cpu.X86.HasAVX512VNNI},
	}
}

func arm64Features() []Feature {
	return []Feature{
		{"ASIMD", cpu.ARM64.HasASIMD},
		{"ASIMDDP", cpu.ARM64.HasASIMDDP},
		{"SVE", cpu.ARM64.HasSVE},
		{"SVE2", cpu.ARM64.HasSVE2},
		{"ATOMICS", cpu.ARM64.HasATOMICS},
	}
}
