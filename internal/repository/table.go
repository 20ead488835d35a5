package repository

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// row is one CSV record addressed by column name.
type row map[string]string

// Table is a single CSV file. Reads parse the whole file; writes
// rewrite the whole file. mu serializes read-modify-write cycles made
// through this Table value; writers in other processes are not
// coordinated with and the last full rewrite wins.
type Table struct {
	schema Schema
	path   string
	mu     sync.Mutex
}

// NewTable binds schema s to its file under dir.
func NewTable(dir string, s Schema) *Table {
	return &Table{schema: s, path: filepath.Join(dir, s.File)}
}

func (t *Table) Name() string { return t.schema.Name }

func (t *Table) Path() string { return t.path }

// Rows reads the table and returns its header and rows, in file order.
// Rows are safe to index by any schema column.
func (t *Table) Rows() ([]string, []map[string]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	header, rows, err := t.read()
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return header, out, err
}

// read returns the header and every row. A missing or zero-length file
// yields the schema header and no rows.
func (t *Table) read() ([]string, []row, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t.schema.Columns, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(newCRKeeper(f))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return t.schema.Columns, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = unescapeCell(header[i])
	}
	header = mergeHeader(header, t.schema.Columns)

	var rows []row
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rw := make(row, len(header))
		for i, col := range header {
			if i < len(rec) {
				rw[col] = normalize(unescapeCell(rec[i]))
			} else {
				rw[col] = ""
			}
		}
		rows = append(rows, rw)
	}
	return header, rows, nil
}

// write replaces the file with header and rows. The new content goes to
// a temp file in the same directory first, so readers never see a
// half-written table.
func (t *Table) write(header []string, rows []row) error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), "."+t.schema.Name+"-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return err
	}
	rec := make([]string, len(header))
	for _, rw := range rows {
		for i, col := range header {
			rec[i] = rw[col]
		}
		if err := w.Write(rec); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return err
	}
	// CreateTemp uses 0600; keep the mode Init gives the tables.
	if err := tmp.Chmod(tableFileMode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}

// appendRow assigns id = row count + 1, builds the row with mk, appends
// it and rewrites the table. When keepLast > 0 only the last keepLast
// rows (physical order) are kept.
func (t *Table) appendRow(mk func(id int) row, keepLast int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	header, rows, err := t.read()
	if err != nil {
		return 0, err
	}
	id := len(rows) + 1
	rows = append(rows, mk(id))
	if keepLast > 0 && len(rows) > keepLast {
		rows = rows[len(rows)-keepLast:]
	}
	if err := t.write(header, rows); err != nil {
		return 0, err
	}
	return id, nil
}

// update rewrites the table after fn edits rows in place. When fn
// reports false nothing is written.
func (t *Table) update(fn func(rows []row) bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	header, rows, err := t.read()
	if err != nil {
		return false, err
	}
	if !fn(rows) {
		return false, nil
	}
	if err := t.write(header, rows); err != nil {
		return false, err
	}
	return true, nil
}

// mergeHeader keeps the file's column order and appends schema columns
// the file does not have yet.
func mergeHeader(file, schema []string) []string {
	seen := make(map[string]bool, len(file))
	out := make([]string, 0, len(file)+len(schema))
	for _, c := range file {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		seen[c] = true
		out = append(out, c)
	}
	for _, c := range schema {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// normalize maps the null markers older tooling wrote for empty cells to "".
func normalize(v string) string {
	switch v {
	case "nan", "NaN", "<NA>":
		return ""
	}
	return v
}

// atoi reads an integer column. Float renderings such as "3.0" are
// accepted; anything else is 0.
func atoi(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func itoa(n int) string { return strconv.Itoa(n) }
