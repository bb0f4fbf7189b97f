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

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/bench"
	"github.com/ajroetker/go-matbench/internal/cpuinfo"
)

func newOSThreadsCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "os_threads",
		Short: "Print the number of available OS threads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := cpuinfo.Detect()
			fmt.Fprintf(out, "number of os threads: %d\n", info.AvailableParallelism)

			rows := [][]string{
				{"GOOS", info.GOOS},
				{"GOARCH", info.GOARCH},
				{"NumCPU", strconv.Itoa(info.NumCPU)},
				{"GOMAXPROCS", strconv.Itoa(info.GOMAXPROCS)},
			}
			for _, f := range info.Features {
				rows = append(rows, []string{f.Name, strconv.FormatBool(f.Present)})
			}
			bench.RenderArgs(out, rows)
		},
	}
}
