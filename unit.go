// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/exp/slices"
)

// Prefix is the naming convention consumed by the runner: functions,
// suite types and suite methods whose name starts with Prefix are
// tests; everything else is treated as non-test code.
const Prefix = "Test"

// ErrNotRunnable is wrapped by discovery errors reported for
// registered values which can neither be run as a test function nor
// hold test methods.  Such a value makes it impossible to establish a
// valid unit set, hence it always aborts a run.
var ErrNotRunnable = errors.New("modrun: not a runnable test value")

// UnitKind discriminates where a unit's callable is defined.
type UnitKind int

const (
	// KindFunc flags a unit backed by a registered test function.
	KindFunc UnitKind = iota

	// KindMethod flags a unit backed by a test method of a registered
	// suite value.
	KindMethod
)

// Unit is one discovered, independently runnable test.  Units are
// created by discovery, immutable afterwards and owned by the runner
// for the duration of one run.
type Unit struct {

	// Name identifies the unit within a run; method units are named
	// Suite.Method.
	Name string

	// Kind reports if the unit is a function or a suite method.
	Kind UnitKind

	// File and Line locate the unit's definition for failure reports.
	File string
	Line int

	call func()
}

// methodName returns the bare method name of a suite unit and the
// unit's name otherwise.
func (u Unit) methodName() string {
	if i := strings.LastIndex(u.Name, "."); i >= 0 {
		return u.Name[i+1:]
	}
	return u.Name
}

// Registry collects the test values of the module under test.  Its
// zero value is ready to use.  A Registry must not be used
// concurrently.
type Registry struct {
	values []interface{}
	file   string
}

// Add registers given values for the next run.  Accepted are functions
// and (pointers to) suite struct instances.  Anything else is reported
// by the run as a discovery error.  The file of the first Add-caller
// names the module under test in the report.
func (r *Registry) Add(vv ...interface{}) { r.add(2, vv...) }

func (r *Registry) add(skip int, vv ...interface{}) {
	if r.file == "" {
		if _, f, _, ok := runtime.Caller(skip); ok {
			r.file = f
		}
	}
	r.values = append(r.values, vv...)
}

// module derives the name of the module under test from the file which
// registered first.
func (r *Registry) module() string {
	if r.file == "" {
		return "main"
	}
	return strings.TrimSuffix(filepath.Base(r.file), ".go")
}

// units discovers the runnable test units of all registered values
// ordered by their position of definition, i.e. file and line of the
// backing function or method declaration.
func (r *Registry) units() ([]Unit, error) {
	var uu []Unit
	for _, v := range r.values {
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Func:
			u, ok := funcUnit(rv)
			if ok {
				uu = append(uu, u)
			}
		case reflect.Ptr:
			if rv.Type().Elem().Kind() != reflect.Struct {
				return nil, fmt.Errorf("%w: %T", ErrNotRunnable, v)
			}
			uu = append(uu, suiteUnits(rv)...)
		case reflect.Struct:
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			uu = append(uu, suiteUnits(ptr)...)
		default:
			return nil, fmt.Errorf("%w: %T", ErrNotRunnable, v)
		}
	}
	slices.SortStableFunc(uu, func(a, b Unit) bool {
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return uu, nil
}

// funcUnit converts given function value into a unit.  Functions whose
// name doesn't match the test convention or which aren't callable
// without arguments are no tests, i.e. silently excluded.
func funcUnit(rv reflect.Value) (Unit, bool) {
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return Unit{}, false
	}
	name := funcName(fn.Name())
	if !strings.HasPrefix(name, Prefix) {
		return Unit{}, false
	}
	call, ok := rv.Interface().(func())
	if !ok {
		return Unit{}, false
	}
	file, line := fn.FileLine(fn.Entry())
	return Unit{
		Name: name,
		Kind: KindFunc,
		File: file,
		Line: line,
		call: call,
	}, true
}

// suiteUnits reflects over given suite pointer collecting its test
// methods.  A registered typed nil pointer is replaced by a zero value
// instance.  A suite whose type name doesn't match the test convention
// or which has no test methods contributes zero units.
func suiteUnits(rv reflect.Value) []Unit {
	if rv.IsNil() {
		rv = reflect.New(rv.Type().Elem())
	}
	rt := rv.Type()
	suite := rt.Elem().Name()
	if !strings.HasPrefix(suite, Prefix) {
		return nil
	}
	var uu []Unit
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !strings.HasPrefix(m.Name, Prefix) {
			continue
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 0 {
			continue
		}
		call := rv.Method(i).Interface().(func())
		fn := runtime.FuncForPC(m.Func.Pointer())
		file, line := fn.FileLine(fn.Entry())
		uu = append(uu, Unit{
			Name: suite + "." + m.Name,
			Kind: KindMethod,
			File: file,
			Line: line,
			call: call,
		})
	}
	return uu
}

// funcName strips the package path and package name from a runtime
// function name, e.g. "github.com/foo/bar.TestX" becomes "TestX".
func funcName(qualified string) string {
	name := qualified
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// selectUnits restricts given units to the ones requested by name
// keeping the discovery order.  A zero selection selects all units;
// requested names matching no unit are silently ignored.  Suite units
// may be requested by their full or their bare method name.
func selectUnits(uu []Unit, names []string) []Unit {
	if len(names) == 0 {
		return uu
	}
	requested := map[string]bool{}
	for _, n := range names {
		requested[n] = true
	}
	var selected []Unit
	for _, u := range uu {
		if !requested[u.Name] && !requested[u.methodName()] {
			continue
		}
		selected = append(selected, u)
	}
	return selected
}
