package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/radovskyb/watcher"
)

// FileSource reads filterlog lines from a file. With Follow set it
// keeps watching the file and feeds lines appended after the initial
// read, surviving truncation (log rotation copytruncate style).
type FileSource struct {
	Path         string
	Follow       bool
	PollInterval time.Duration
}

// Lines feeds every line of the file to fn. In follow mode it blocks
// until ctx is cancelled or fn returns an error.
func (s *FileSource) Lines(ctx context.Context, fn LineFunc) error {
	if !s.Follow {
		f, err := os.Open(s.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return ReadLines(f, fn)
	}
	return s.follow(ctx, fn)
}

func (s *FileSource) follow(ctx context.Context, fn LineFunc) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	offset, err := drainLines(f, 0, fn)
	if err != nil {
		return err
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write)
	if err := w.Add(s.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	watchErr := make(chan error, 1)
	go func() {
		if err := w.Start(interval); err != nil {
			watchErr <- err
		}
	}()
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watchErr:
			return fmt.Errorf("failed to start watching %s: %w", s.Path, err)
		case err := <-w.Error:
			return err
		case <-w.Closed:
			return nil
		case <-w.Event:
			fi, err := os.Stat(s.Path)
			if err != nil {
				return err
			}
			if fi.Size() < offset {
				// Truncated underneath us; start over.
				offset = 0
			}
			offset, err = drainLines(f, offset, fn)
			if err != nil {
				return err
			}
		}
	}
}

// drainLines reads complete lines starting at offset and returns the
// new offset. A trailing fragment without a newline stays unconsumed
// until the writer finishes the line.
func drainLines(f *os.File, offset int64, fn LineFunc) (int64, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}
	r := bufio.NewReader(f)
	for {
		raw, err := r.ReadString('\n')
		if err == io.EOF {
			return offset, nil
		}
		if err != nil {
			return offset, err
		}
		offset += int64(len(raw))
		line := strings.TrimRight(raw, "\r\n")
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return offset, err
		}
	}
}
