// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"io"
	"os"
	"time"
)

// defaultRegistry backs the package-level Register/Run convenience
// functions.
var defaultRegistry = &Registry{}

// Register adds given test functions and suite instances to the
// default registry.  It is meant to be called from the module under
// test after all its tests are defined, e.g.:
//
//	func TestParse() { modrun.Eq(42, parse("42")) }
//
//	type TestSeries struct{ N int }
//
//	func (s *TestSeries) TestNext() { /* ... */ }
//
//	func main() {
//	    modrun.Register(TestParse, &TestSeries{})
//	    modrun.Run(false)
//	}
func Register(vv ...interface{}) { defaultRegistry.add(2, vv...) }

// Run executes the tests of the default registry sequentially in the
// order of their definition, reporting progress, a final tally and the
// diagnostics of each failure to standard output.  Are names given
// only units with a matching name are run; names matching no unit are
// ignored.  A panic escaping a test fails the test and the run
// continues -- unless raiseOnErr is set in which case the panic is
// re-raised after all results gathered so far were reported.  Run
// errors iff no valid unit set can be established from the registered
// values.
func Run(raiseOnErr bool, names ...string) error {
	_, err := (&Runner{RaiseOnErr: raiseOnErr}).Run(names...)
	return err
}

// Runner executes the units of a registry.  Its zero value runs the
// default registry reporting to standard output.
type Runner struct {

	// Registry provides the units to run; defaults to the package's
	// default registry.
	Registry *Registry

	// Out receives the report; defaults to standard output.  Note Out
	// is resolved before a test's capture scope opens, i.e. reporting
	// to standard output is not swallowed by the capture.
	Out io.Writer

	// RaiseOnErr disables failure containment: the first panic
	// escaping a test aborts the run by re-raising the panic after
	// reporting.  Good for running under a debugger.
	RaiseOnErr bool
}

// Run discovers, filters, executes and reports the runner's units
// returning the aggregated results.  Tests run one at a time; capture
// state never leaks from one unit into the next.
func (r *Runner) Run(names ...string) (*Summary, error) {
	reg := r.Registry
	if reg == nil {
		reg = defaultRegistry
	}
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	uu, err := reg.units()
	if err != nil {
		return nil, err
	}
	uu = selectUnits(uu, names)

	rpt := newReporter(out, reg.module(), uu)
	sum := &Summary{}
	rpt.header()
	for _, u := range uu {
		rpt.running(u)
		res, err := runUnit(u)
		if err != nil {
			return nil, err
		}
		sum.add(res)
		rpt.outcome(res)
		if res.Failed() && r.RaiseOnErr {
			rpt.summary(sum)
			panic(res.Failure.Value)
		}
	}
	rpt.summary(sum)
	return sum, nil
}

// runUnit invokes given unit's callable under an open capture scope
// converting an escaping panic into a failure result.  The capture is
// released on every exit path before the result is returned or a
// re-raised panic leaves the runner.
func runUnit(u Unit) (res Result, err error) {
	res = Result{Name: u.Name, Kind: u.Kind, File: u.File, Line: u.Line}
	c, err := openCapture()
	if err != nil {
		return res, err
	}
	start := time.Now()
	defer func() {
		output := c.release()
		res.Elapsed = time.Since(start)
		if v := recover(); v != nil {
			res.Failure = failureOf(v, panicFrames())
			res.Output = output
		}
	}()
	u.call()
	return res, nil
}
