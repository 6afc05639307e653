// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// reporter renders the console report of one run: a header naming the
// module under test, one progress line per executed unit, the final
// tally and one detail block per failure.  Styling degrades to plain
// text if the report's writer is no terminal.
type reporter struct {
	out    io.Writer
	module string
	width  int
	ok     lipgloss.Style
	fail   lipgloss.Style
}

func newReporter(out io.Writer, module string, uu []Unit) *reporter {
	width := 0
	for _, u := range uu {
		if w := runewidth.StringWidth(u.Name); w > width {
			width = w
		}
	}
	r := lipgloss.NewRenderer(out)
	return &reporter{
		out:    out,
		module: module,
		width:  width,
		ok:     r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (p *reporter) header() {
	fmt.Fprintf(p.out, "testing %s:\n", p.module)
}

// running announces a started unit; the line is completed by outcome
// once the unit finished.
func (p *reporter) running(u Unit) {
	fmt.Fprintf(p.out, "  running %s", u.Name)
}

// outcome completes a unit's progress line with dots padding all
// status tokens of a run to the same column.
func (p *reporter) outcome(r Result) {
	pad := strings.Repeat(".", p.dots(r.Name))
	if r.Failed() {
		fmt.Fprintf(p.out, "%s......%s\n", pad, p.fail.Render("FAIL"))
		return
	}
	fmt.Fprintf(p.out, "%s...%s\n", pad, p.ok.Render("success"))
}

// dots pads a unit's name to the longest name of the run; a difference
// of one dot is not padded.
func (p *reporter) dots(name string) int {
	n := p.width - runewidth.StringWidth(name)
	if n < 2 {
		return 0
	}
	return n
}

// summary prints the final tally followed by the detail blocks of all
// failures in the order they occurred.
func (p *reporter) summary(s *Summary) {
	fmt.Fprintf(p.out, "\nTesting complete. Out of %d tests:\n", s.Total)
	fmt.Fprintf(p.out, "%s succeeded\n",
		p.ok.Render(fmt.Sprintf("%5d", s.Succeeded)))
	fmt.Fprintf(p.out, "%s failed\n",
		p.fail.Render(fmt.Sprintf("%5d", s.Failed)))
	for _, r := range s.Results {
		if !r.Failed() {
			continue
		}
		p.failure(r)
	}
}

// failure prints a failed result's detail block: the unit's name, a
// traceback-like frame listing with the source line of each call if
// obtainable, the panic's kind and message and -- only if non-empty --
// the output captured while the unit ran.
func (p *reporter) failure(r Result) {
	fmt.Fprintf(p.out, "\n%s: %s\n", p.fail.Render("FAILED TEST"), r.Name)
	ff := r.Failure.Frames
	if len(ff) == 0 {
		ff = []Frame{{Func: r.Name, File: r.File, Line: r.Line}}
	}
	for _, f := range ff {
		fmt.Fprintf(p.out, "  File %q, line %d, in %s\n",
			f.File, f.Line, f.Func)
		if src, ok := sourceLine(f.File, f.Line); ok {
			fmt.Fprintf(p.out, "    %s\n", src)
		}
	}
	fmt.Fprintf(p.out, "  %s: %s\n", r.Failure.Kind, r.Failure.Message)
	if r.Output == "" {
		return
	}
	fmt.Fprintf(p.out, "  Captured stdout calls:\n%s", r.Output)
	if !strings.HasSuffix(r.Output, "\n") {
		fmt.Fprintln(p.out)
	}
}
