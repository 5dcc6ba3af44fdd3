package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/harthaxer/GsmLabManager/internal/config"
)

// Table identifies a flat CSV table by file name and column header.
type Table struct {
	Name   string
	Header []string
}

var (
	Sales = Table{
		Name:   "sales",
		Header: []string{"id", "date", "customer_name", "phone", "item", "price", "payment_method"},
	}
	Repairs = Table{
		Name: "repairs",
		Header: []string{
			"id", "date", "customer_name", "phone", "device", "category", "issue",
			"status", "estimated_cost", "completion_date", "photo_path",
		},
	}
	Inventory = Table{
		Name:   "inventory",
		Header: []string{"id", "item_name", "quantity", "price", "threshold"},
	}
)

var tables = []Table{Sales, Repairs, Inventory}

// ErrRowOutOfRange is returned when a positional index no longer exists.
var ErrRowOutOfRange = errors.New("row index out of range")

// Store reads and writes whole CSV tables under a data directory.
// Every mutation reads the full table, applies the change in memory and
// rewrites the file through a temp-file rename. A per-table mutex keeps
// in-process read-modify-write cycles from interleaving.
type Store struct {
	dir string
	mu  map[string]*sync.Mutex
}

// New prepares the data directory and creates missing table files with
// their header row.
func New(cfg config.Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir: cfg.DataDir,
		mu:  make(map[string]*sync.Mutex, len(tables)),
	}
	for _, t := range tables {
		s.mu[t.Name] = &sync.Mutex{}
		if _, err := os.Stat(s.path(t)); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("stat table %s: %w", t.Name, err)
			}
			if err := s.writeAll(t, nil); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Store) path(t Table) string {
	return filepath.Join(s.dir, t.Name+".csv")
}

func (s *Store) lock(t Table) *sync.Mutex {
	if m, ok := s.mu[t.Name]; ok {
		return m
	}
	// Unknown tables share a nop lock; only the fixed set is ever used.
	return &sync.Mutex{}
}

// Read returns all data rows of a table in file order, without the header.
func (s *Store) Read(t Table) ([][]string, error) {
	m := s.lock(t)
	m.Lock()
	defer m.Unlock()
	return s.readAll(t)
}

// Append adds one row at the end of the table and rewrites the file.
func (s *Store) Append(t Table, row []string) error {
	m := s.lock(t)
	m.Lock()
	defer m.Unlock()

	rows, err := s.readAll(t)
	if err != nil {
		return err
	}
	rows = append(rows, normalize(row, len(t.Header)))
	return s.writeAll(t, rows)
}

// ReplaceAll overwrites the table with the given rows verbatim.
func (s *Store) ReplaceAll(t Table, rows [][]string) error {
	m := s.lock(t)
	m.Lock()
	defer m.Unlock()

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalize(row, len(t.Header)))
	}
	return s.writeAll(t, out)
}

// UpdateField sets one column of the row at index and rewrites the table.
// Returns ErrRowOutOfRange if the index no longer addresses a row.
func (s *Store) UpdateField(t Table, index int, column, value string) error {
	col := -1
	for i, name := range t.Header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("table %s has no column %q", t.Name, column)
	}

	m := s.lock(t)
	m.Lock()
	defer m.Unlock()

	rows, err := s.readAll(t)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("table %s row %d: %w", t.Name, index, ErrRowOutOfRange)
	}
	rows[index][col] = value
	return s.writeAll(t, rows)
}

// Health checks that the data directory is reachable.
func (s *Store) Health(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) readAll(t Table) ([][]string, error) {
	f, err := os.Open(s.path(t))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Recreate a table deleted out from under us.
			if werr := s.writeAll(t, nil); werr != nil {
				return nil, werr
			}
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("open table %s: %w", t.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", t.Name, err)
	}
	if len(records) <= 1 {
		return [][]string{}, nil
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, normalize(rec, len(t.Header)))
	}
	return rows, nil
}

func (s *Store) writeAll(t Table, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, t.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for table %s: %w", t.Name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write table %s: %w", t.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write table %s: %w", t.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close table %s: %w", t.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(t)); err != nil {
		return fmt.Errorf("replace table %s: %w", t.Name, err)
	}
	return nil
}

// normalize pads or trims a row to the table width so older files with
// fewer columns keep parsing.
func normalize(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
