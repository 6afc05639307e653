// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package modrun runs the tests of a module when the module is
// executed directly, i.e. without going through an external test
// runner.  Its purpose is easy debugging: set your breakpoints and run
// the test module itself under the debugger -- no framework process in
// between, no test collection, just plain function calls.
//
// Tests are registered explicitly which is the portable substitute for
// symbol table introspection.  A test is either a function or a method
// of a suite struct; function names, suite type names and method names
// must start with "Test", everything else is treated as non-test code:
//
//	func TestParse() {
//	    modrun.Eq(42, parse("42"))
//	}
//
//	type TestSeries struct{ acc []int }
//
//	func (s *TestSeries) TestNext() {
//	    s.acc = append(s.acc, next(s.acc))
//	    modrun.True(len(s.acc) == 1)
//	}
//
//	func main() {
//	    modrun.Register(TestParse, &TestSeries{})
//
//	    // run everything
//	    modrun.Run(false)
//
//	    // or just run select tests and stop at the first failure
//	    modrun.Run(true, "TestParse", "TestNext")
//	}
//
// Units run one at a time in the order of their definition.  While a
// unit runs the process's standard output is redirected into a buffer;
// a passing unit's output is discarded while a failing unit's output
// becomes part of its failure report.  A panic escaping a unit --
// assertion failures included -- fails the unit and the run continues
// with the next one.  Passing raiseOnErr re-raises such a panic
// instead, aborting the run after everything gathered so far was
// reported; that is the mode to use under a debugger since it stops
// the world at the failure.
//
// The report is plain console text: a header naming the module under
// test, one progress line per unit, a tally and one block per failure
// with file, line, source text and captured output.  Styling is
// applied only if the report goes to a terminal.
//
// Assertions are ordinary function calls which panic on failure, see
// [True], [Eq], [Contains], [Matched], [ErrIs], [NoErr] and [Panics].
// Any other panicking assertion library works just as well.
package modrun
