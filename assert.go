// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// FailError is the panic value of a failed assertion.  The runner
// classifies a test panicking with a FailError as an assertion
// failure; any other panic value fails a test all the same.
type FailError struct{ msg string }

func (e *FailError) Error() string { return e.msg }

// assertErr is the format-string for assertion failures.
const assertErr = "assert %s:\n%v"

// fail panics with a FailError carrying given assertion's message.
func fail(assertion string, msg interface{}) {
	panic(&FailError{msg: fmt.Sprintf(assertErr, assertion, msg)})
}

// trueErr default message for failed 'true'-assertion.
const trueErr = "expected given value to be true"

// True fails the calling test iff given value is not true.
func True(value bool) {
	if !value {
		fail("true", trueErr)
	}
}

const eqTypeErr = "types mismatch %v != %v"

// Eq fails the calling test with a corresponding diff if possible iff
// given values are not considered equal.  a and b are considered equal
// if they are of the same type or one of them is string while the
// other one is a Stringer implementation and
//   - a == b in case of two pointers
//   - a == b in case of two strings
//   - a.String() == b.String() in case of Stringer implementations
//   - a == b.String() or a.String() == b in case of string and
//     Stringer implementation.
//   - fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b) in other cases
func Eq(a, b interface{}) {
	if assertion, msg, failed := eqFailure(a, b); failed {
		fail(assertion, msg)
	}
}

// notEqErr default message for failed 'not-equal'-assertion.
const notEqErr = "expected given values to differ"

// Neq passes iff the Eq assertion with given arguments would fail.
func Neq(a, b interface{}) {
	if _, _, failed := eqFailure(a, b); !failed {
		fail("not-equal", notEqErr)
	}
}

func eqFailure(a, b interface{}) (assertion, msg string, failed bool) {
	differentTypes := fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b)
	if differentTypes && !isStringers(a, b) {
		return "equal: types", fmt.Sprintf(
			eqTypeErr, fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)), true
	}
	if reflect.ValueOf(a).Kind() == reflect.Ptr {
		if a != b {
			return "equal: pointer", fmt.Sprintf("%p != %p", a, b), true
		}
		return "", "", false
	}
	if d := diff(a, b, differentTypes); d != "" {
		return "equal: string-representations", d, true
	}
	return "", "", false
}

func isStringers(a, b interface{}) bool {
	_, okA := a.(fmt.Stringer)
	_, okB := b.(fmt.Stringer)
	if !okA && !okB {
		return false
	}
	if okA && okB {
		return true
	}
	if okA {
		_, ok := b.(string)
		return ok
	}
	_, ok := a.(string)
	return ok
}

func diff(a, b interface{}, differentTypes bool) string {
	if differentTypes {
		if _a, ok := a.(fmt.Stringer); ok {
			a = _a.String()
		}
		if _b, ok := b.(fmt.Stringer); ok {
			b = _b.String()
		}
	}
	diff := ""
	switch a := a.(type) {
	case string:
		if a != b.(string) {
			diff = cmp.Diff(a, b.(string))
		}
	case fmt.Stringer:
		if a.String() != b.(fmt.Stringer).String() {
			diff = cmp.Diff(a.String(), b.(fmt.Stringer).String())
		}
	default:
		if fmt.Sprintf("%v", a) != fmt.Sprintf("%v", b) {
			diff = cmp.Diff(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
		}
	}
	return diff
}

// containsErr default message for failed 'Contains'-assertion.
const containsErr = "%s doesn't contain %s"

// StringRepresentation documents what a string representation of any
// type is:
//   - the string if it is of type string,
//   - the return value of String if the Stringer interface is
//     implemented,
//   - fmt.Sprintf("%v", value) in all other cases.
type StringRepresentation interface{}

// Contains fails the calling test iff given value's string
// representation doesn't contain given sub-string.
func Contains(value StringRepresentation, sub string) {
	str := toString(value)
	if strings.Contains(str, sub) {
		return
	}
	if !strings.HasSuffix(str, "\n") {
		str += "\n"
	}
	if !strings.HasPrefix(sub, "\n") {
		sub = "\n" + sub
	}
	fail("contains", fmt.Sprintf(containsErr, str, sub))
}

func toString(value interface{}) string {
	switch value := value.(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// matchedErr default message for failed 'Matched'-assertion.
const matchedErr = "Regexp\n'%s'\ndoesn't match\n'%s'"

// Matched fails the calling test iff given value's string
// representation isn't matched by given regex.
func Matched(value StringRepresentation, regex string) {
	str := toString(value)
	re := regexp.MustCompile(regex)
	if !re.MatchString(str) {
		fail("matched", fmt.Sprintf(matchedErr, re.String(), str))
	}
}

// errIsErr default message for failed "ErrIs"-assertion.
const errIsErr = "given error doesn't wrap target-error"

// ErrIs fails the calling test iff given err doesn't wrap given
// target.
func ErrIs(err, target error) {
	if errors.Is(err, target) {
		return
	}
	fail("error is", fmt.Sprintf("%s: %+v\n%+v", errIsErr, err, target))
}

// NoErr fails the calling test iff given error is not nil.
func NoErr(err error) {
	if err != nil {
		fail("no error", err)
	}
}

// panicsErr default message for failed "Panics"-assertion.
const panicsErr = "given function doesn't panic"

// Panics fails the calling test iff given function doesn't panic.  A
// panic of f is swallowed by the assertion, i.e. it never escapes to
// the runner; only the absence of a panic fails the test.
func Panics(f func()) {
	defer func() {
		if r := recover(); r == nil {
			fail("panics", panicsErr)
		}
	}()
	f()
}
