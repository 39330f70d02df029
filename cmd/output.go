package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pfwatch/pfwatch/pkg/filterlog"
)

// emitter writes parsed records to a stream in the configured format.
type emitter struct {
	w      io.Writer
	format string
}

func newEmitter(w io.Writer, format string) (*emitter, error) {
	switch format {
	case "json", "yaml":
		return &emitter{w: w, format: format}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// emit writes one record. JSON output is one object per line; YAML output
// is a stream of documents separated by the usual "---" marker.
func (e *emitter) emit(rec *filterlog.Record) error {
	switch e.format {
	case "json":
		enc := json.NewEncoder(e.w)
		return enc.Encode(rec)
	case "yaml":
		if _, err := fmt.Fprintln(e.w, "---"); err != nil {
			return err
		}
		out, err := yaml.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = e.w.Write(out)
		return err
	}
	return fmt.Errorf("unknown output format %q", e.format)
}
