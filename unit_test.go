// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modrun/modrun"
	"github.com/modrun/modrun/testdata/fx"
)

func unitNames(uu []modrun.Unit) []string {
	nn := []string{}
	for _, u := range uu {
		nn = append(nn, u.Name)
	}
	return nn
}

func mustUnits(t *testing.T, reg *modrun.Registry) []modrun.Unit {
	t.Helper()
	uu, err := reg.Units()
	if err != nil {
		t.Fatalf("expected discovery to succeed; got: %v", err)
	}
	return uu
}

func Test_discovery_orders_units_by_definition(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestC, &fx.TestSeries{}, fx.TestA)
	exp := []string{
		"TestA", "TestC", "TestSeries.TestZero", "TestSeries.TestIncr"}
	if diff := cmp.Diff(exp, unitNames(mustUnits(t, reg))); diff != "" {
		t.Errorf("unexpected units (-want +got):\n%s", diff)
	}
}

func Test_discovery_excludes_non_test_names(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.Build, fx.TestA, &fx.Series{}, &fx.TestEmpty{})
	if diff := cmp.Diff(
		[]string{"TestA"}, unitNames(mustUnits(t, reg)),
	); diff != "" {
		t.Errorf("unexpected units (-want +got):\n%s", diff)
	}
}

func Test_discovery_excludes_methods_off_the_convention(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(&fx.TestSeries{})
	exp := []string{"TestSeries.TestZero", "TestSeries.TestIncr"}
	if diff := cmp.Diff(exp, unitNames(mustUnits(t, reg))); diff != "" {
		t.Errorf("unexpected units (-want +got):\n%s", diff)
	}
}

func Test_discovery_accepts_suite_values(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestSeries{})
	if len(mustUnits(t, reg)) != 2 {
		t.Errorf("expected a suite value to provide its test methods")
	}
}

func Test_discovery_instantiates_nil_suite_pointers(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add((*fx.TestNilable)(nil))
	uu := mustUnits(t, reg)
	if len(uu) != 1 || uu[0].Name != "TestNilable.TestZeroValue" {
		t.Errorf("expected the zero value suite's unit; got: %v",
			unitNames(uu))
	}
}

func Test_discovery_errors_on_not_runnable_values(t *testing.T) {
	t.Parallel()
	for _, v := range []interface{}{42, "TestX", new(int)} {
		reg := &modrun.Registry{}
		reg.Add(v)
		if _, err := reg.Units(); !errors.Is(err, modrun.ErrNotRunnable) {
			t.Errorf("expected ErrNotRunnable for %T; got: %v", v, err)
		}
	}
}

func Test_units_are_located_in_their_defining_file(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestA, &fx.TestSeries{})
	for _, u := range mustUnits(t, reg) {
		if !strings.HasSuffix(u.File, "testdata/fx/fx.go") {
			t.Errorf("expected %s in fixture file; got: %s",
				u.Name, u.File)
		}
		if u.Line <= 0 {
			t.Errorf("expected %s to have a line; got: %d",
				u.Name, u.Line)
		}
	}
}

func Test_module_name_derives_from_the_registering_file(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestA)
	if reg.Module() != "unit_test" {
		t.Errorf("expected module 'unit_test'; got: %s", reg.Module())
	}
}

func Test_func_name_strips_qualification(t *testing.T) {
	t.Parallel()
	for qualified, exp := range map[string]string{
		"github.com/foo/bar.TestX":      "TestX",
		"main.TestX":                    "TestX",
		"github.com/foo/bar.(*S).TestM": "(*S).TestM",
		"github.com/foo/bar.TestX-fm":   "TestX",
	} {
		if got := modrun.FuncName(qualified); got != exp {
			t.Errorf("expected %s for %s; got: %s", exp, qualified, got)
		}
	}
}

func Test_filtering_preserves_discovery_order(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestA, fx.TestB, fx.TestC)
	uu := modrun.SelectUnits(
		mustUnits(t, reg), []string{"TestC", "TestA"})
	if diff := cmp.Diff(
		[]string{"TestA", "TestC"}, unitNames(uu),
	); diff != "" {
		t.Errorf("unexpected selection (-want +got):\n%s", diff)
	}
}

func Test_filtering_ignores_unknown_names(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestA)
	uu := modrun.SelectUnits(
		mustUnits(t, reg), []string{"TestA", "TestNope"})
	if len(uu) != 1 || uu[0].Name != "TestA" {
		t.Errorf("expected unknown names to be ignored; got: %v",
			unitNames(uu))
	}
}

func Test_filtering_selects_suite_units_by_method_name(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(&fx.TestSeries{})
	uu := modrun.SelectUnits(mustUnits(t, reg), []string{"TestIncr"})
	if len(uu) != 1 || uu[0].Name != "TestSeries.TestIncr" {
		t.Errorf("expected bare method name selection; got: %v",
			unitNames(uu))
	}
}

func Test_zero_selection_selects_all_units(t *testing.T) {
	t.Parallel()
	reg := &modrun.Registry{}
	reg.Add(fx.TestA, fx.TestB)
	uu := modrun.SelectUnits(mustUnits(t, reg), nil)
	if len(uu) != 2 {
		t.Errorf("expected all units; got: %v", unitNames(uu))
	}
}
