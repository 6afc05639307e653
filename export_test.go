// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

// exports for the black-box test package.

var (
	FuncName    = funcName
	SelectUnits = selectUnits
	SourceLine  = sourceLine
)

// Units exposes a registry's discovery to tests.
func (r *Registry) Units() ([]Unit, error) { return r.units() }

// Module exposes a registry's module name derivation to tests.
func (r *Registry) Module() string { return r.module() }

// Capture runs f under an open capture scope returning everything f
// wrote to standard output.
func Capture(f func()) (out string, err error) {
	c, err := openCapture()
	if err != nil {
		return "", err
	}
	defer func() { out = c.release() }()
	f()
	return out, nil
}
