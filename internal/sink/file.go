// Package sink persists processed pair results.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"naturaledit/internal/summary"
)

// FileSink writes the full result sequence to a JSON document. Writes go
// through a temp file and rename, so readers never observe a partial file.
type FileSink struct {
	Path string
}

// Write replaces the output file with the given results.
func (s *FileSink) Write(results []summary.PairResult) error {
	return writeJSON(s.Path, results)
}

// Checkpoint writes the results accumulated so far to <path>.temp.
func (s *FileSink) Checkpoint(results []summary.PairResult) error {
	return writeJSON(s.Path+".temp", results)
}

func writeJSON(path string, results []summary.PairResult) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("sink: encode results: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
