// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Frame locates one call of a failing test's stack.
type Frame struct {
	Func string
	File string
	Line int
}

// Failure holds the diagnostics of one escaped test panic.
type Failure struct {

	// Value is the recovered panic value.
	Value interface{}

	// Kind classifies the panic value, e.g. "assertion failed" or the
	// value's type.
	Kind string

	// Message is the panic value's string representation.
	Message string

	// Frames are the calls between the panic site and the test's
	// invocation boundary, outermost first.
	Frames []Frame
}

// failureOf converts a recovered panic value and the frames collected
// at recovery time into a Failure.
func failureOf(v interface{}, frames []Frame) *Failure {
	var kind, msg string
	switch e := v.(type) {
	case *FailError:
		kind, msg = "assertion failed", e.Error()
	case error:
		kind, msg = fmt.Sprintf("%T", e), e.Error()
	default:
		kind, msg = fmt.Sprintf("%T", v), fmt.Sprintf("%v", v)
	}
	return &Failure{Value: v, Kind: kind, Message: msg, Frames: frames}
}

// Result is the outcome of running one unit.  Results are created by
// the runner right after a unit finished and never mutated afterwards.
type Result struct {
	Name string
	Kind UnitKind

	// File and Line locate the unit's definition.
	File string
	Line int

	// Failure is nil iff the unit returned normally.
	Failure *Failure

	// Output is the standard output captured while the unit ran; it is
	// retained for failed units only.
	Output string

	Elapsed time.Duration
}

// Failed returns true iff the result reports an escaped panic.
func (r Result) Failed() bool { return r.Failure != nil }

// Summary aggregates the results of one run in execution order.  It is
// scoped to a single run, i.e. there is no cross-run state.
type Summary struct {
	Results   []Result
	Total     int
	Succeeded int
	Failed    int
}

// Passed returns true iff no result of the run failed.
func (s *Summary) Passed() bool { return s.Failed == 0 }

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	s.Total++
	if r.Failed() {
		s.Failed++
		return
	}
	s.Succeeded++
}

// pkg is the fully qualified name prefix of this package's functions
// in runtime stack traces.
const pkg = "github.com/modrun/modrun."

// boundary is the runner function delimiting a test's call stack; all
// frames from it outwards belong to the runner, not to the test.
const boundary = pkg + "runUnit"

// panicFrames collects the stack frames between the site of a
// recovered panic and the runner's invocation boundary leaving out
// runtime internals and this package's own machinery.  Frames are
// returned outermost first to render traceback-like failure reports.
// It must be called from a deferred function which recovered a panic.
func panicFrames() []Frame {
	pc := make([]uintptr, 64)
	n := runtime.Callers(1, pc)
	it := runtime.CallersFrames(pc[:n])
	var ff []Frame
	for {
		f, more := it.Next()
		if f.Function == boundary {
			break
		}
		if skipFrame(f.Function) {
			if !more {
				break
			}
			continue
		}
		ff = append(ff, Frame{
			Func: funcName(f.Function), File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	for i, j := 0, len(ff)-1; i < j; i, j = i+1, j-1 {
		ff[i], ff[j] = ff[j], ff[i]
	}
	return ff
}

func skipFrame(fn string) bool {
	return fn == "" ||
		strings.HasPrefix(fn, "runtime.") ||
		strings.HasPrefix(fn, pkg)
}
