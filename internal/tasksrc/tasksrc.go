// Package tasksrc reads code-pair tasks from a tabular file.
package tasksrc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Task is one (old code, new code) pair to process.
type Task struct {
	ID          string
	OldCode     string
	NewCode     string
	FileContext string
}

// Load reads tasks from a CSV file. The header must contain old_code and
// new_code columns; file_context (or file_path) and id are optional. Rows
// with an empty code side are skipped; a missing id defaults to pair_<n>
// counted from 1.
func Load(path string) ([]Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV task rows from r.
func Read(r io.Reader) ([]Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("tasksrc: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	oldIdx, okOld := col["old_code"]
	newIdx, okNew := col["new_code"]
	if !okOld || !okNew {
		return nil, fmt.Errorf("tasksrc: CSV must contain 'old_code' and 'new_code' columns")
	}
	ctxIdx, okCtx := col["file_context"]
	if !okCtx {
		ctxIdx, okCtx = col["file_path"]
	}
	idIdx, okID := col["id"]

	field := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var tasks []Task
	for n := 1; ; n++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tasksrc: row %d: %w", n, err)
		}
		t := Task{
			OldCode: field(row, oldIdx),
			NewCode: field(row, newIdx),
		}
		if okCtx {
			t.FileContext = field(row, ctxIdx)
		}
		if okID {
			t.ID = field(row, idIdx)
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("pair_%d", n)
		}
		if t.OldCode == "" || t.NewCode == "" {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
