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

package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-matbench/matmul"
	"github.com/ajroetker/go-matbench/workerpool"
)

var (
	printer    = message.NewPrinter(language.English)
	titleColor = color.New(color.FgGreen, color.Bold)
)

// PrintTitle writes title as a single centered, coloured table cell.
func PrintTitle(w io.Writer, title string) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.Append([]string{titleColor.Sprint(title)})
	table.Render()
}

// RenderArgs writes an Argument/Value table.
func RenderArgs(w io.Writer, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Argument", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// FormatMillis renders d as whole milliseconds with digit grouping.
func FormatMillis(d time.Duration) string {
	return printer.Sprintf("%d", d.Milliseconds())
}

// Render writes the results table: one row per algorithm in configuration
// order.
func (r *Report) Render(w io.Writer) {
	PrintTitle(w, "Benchmark Results")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Workers", "Average (ms)", "Failures"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	for _, res := range r.Results {
		table.Append([]string{res.Algorithm.String(), workers(res.Algorithm), FormatMillis(res.Average), strconv.Itoa(res.Failures)})
	}
	table.SetCaption(true, fmt.Sprintf("run %s, %d iterations, %dx%d", r.RunID, r.Config.Iterations, r.Config.Size, r.Config.Size))
	table.Render()
}

// workers is the number of pool workers the algorithm actually runs on, or
// "-" for the sequential ones.
func workers(alg matmul.Algorithm) string {
	if !alg.IsParallel() || alg.Threads < 1 {
		return "-"
	}
	return strconv.Itoa(workerpool.WorkersFor(alg.Threads))
}
