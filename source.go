// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// source.go provides the sourceCache-type whose only task it is to
// retrieve the text of single source lines for failure reports.

package modrun

import (
	"os"
	"strings"
	"sync"
)

var source = &sourceCache{}

// sourceCache caches the lines of already read source files.  Reads
// are concurrency save although the runner itself is strictly
// sequential; the cache is process-wide and may be shared by
// consecutive runs.  An unreadable file degrades to reporting no
// source line, never to an error.
type sourceCache struct {
	mutex sync.Mutex
	files map[string][]string
}

// sourceLine returns the trimmed text of given file's line.
func sourceLine(file string, line int) (string, bool) {
	return source.line(file, line)
}

func (s *sourceCache) line(file string, line int) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ll, ok := s.files[file]
	if !ok {
		ll = s.read(file)
	}
	if line < 1 || line > len(ll) {
		return "", false
	}
	return strings.TrimSpace(ll[line-1]), true
}

func (s *sourceCache) read(file string) []string {
	if s.files == nil {
		s.files = map[string][]string{}
	}
	bb, err := os.ReadFile(file)
	if err != nil {
		s.files[file] = nil
		return nil
	}
	ll := strings.Split(string(bb), "\n")
	s.files[file] = ll
	return ll
}
