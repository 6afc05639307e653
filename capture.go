// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modrun

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// capture redirects the process's standard output into an in-memory
// buffer for the duration of exactly one test invocation.  Writes go
// through a pipe drained by a background goroutine so a test may print
// more than a pipe buffers.  Capture scopes are never nested.
type capture struct {
	saved *os.File
	w     *os.File
	buf   bytes.Buffer
	done  chan struct{}
}

// openCapture acquires the standard output stream.  Every successfully
// opened capture must be released exactly once.
func openCapture() (*capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("modrun: capture stdout: %w", err)
	}
	c := &capture{saved: os.Stdout, w: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		io.Copy(&c.buf, r)
		r.Close()
	}()
	os.Stdout = w
	return c, nil
}

// release restores the original standard output stream and returns
// everything written while the capture was open.
func (c *capture) release() string {
	os.Stdout = c.saved
	c.w.Close()
	<-c.done
	return c.buf.String()
}
