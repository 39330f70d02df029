// Package source supplies filterlog lines to the parser one at a time.
package source

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single log line; filterlog lines are short, but
// the TCP options trailer is unbounded in principle.
const maxLineSize = 1024 * 1024

// LineFunc receives one non-empty line with its trailing newline
// stripped. Returning an error stops the source.
type LineFunc func(line string) error

// ReadLines feeds every non-empty line of r to fn until EOF or until fn
// returns an error.
func ReadLines(r io.Reader, fn LineFunc) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
