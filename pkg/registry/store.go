package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// The first column of a header row. Anything else in the first column is
// taken to be a serial.
const headerSentinel = "serial"

// Vendor serials are expected to be 8-32 characters once normalized;
// anything else is logged but tolerated.
const (
	serialMinLen = 8
	serialMaxLen = 32
)

// WarnFunc receives non-fatal registry warnings.
type WarnFunc func(format string, args ...any)

// Store is an append-only, insertion-ordered registry of device entries.
// It is not safe for concurrent use; a single interactive session is
// assumed to own the registry for the duration of a discovery workflow.
type Store struct {
	entries []Entry
	warn    WarnFunc
}

// NewStore returns an empty store. A nil warn discards warnings.
func NewStore(warn WarnFunc) *Store {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Store{warn: warn}
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// All returns a copy of the entries in insertion order.
func (s *Store) All() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Append normalizes and validates the entry, then appends it. A duplicate
// serial is allowed (hardware replacement) and only warned about; the store
// never deduplicates or overwrites. A duplicate name within the same
// (role, type) is rejected, because both devices would resolve to the same
// calibration file and symlink target.
func (s *Store) Append(e Entry) error {
	role, err := ParseRole(string(e.Role))
	if err != nil {
		return err
	}
	e.Role = role
	e.Serial = NormalizeSerial(e.Serial)
	e.Name = NormalizeName(e.Name)
	e.Type = NormalizeName(e.Type)

	if e.Serial == "" {
		return fmt.Errorf("entry %q has an empty serial", e.Name)
	}
	if e.Name == "" {
		return fmt.Errorf("entry with serial %s has an empty name", e.Serial)
	}
	if e.Type == "" {
		return fmt.Errorf("entry %q (serial %s) has an empty type", e.Name, e.Serial)
	}
	if n := len(e.Serial); n < serialMinLen || n > serialMaxLen {
		s.warn("serial %s has unusual length %d, expected %d-%d characters", e.Serial, n, serialMinLen, serialMaxLen)
	}

	for _, prev := range s.entries {
		if prev.Name == e.Name && prev.Role == e.Role && prev.Type == e.Type {
			return &DuplicateNameError{Name: e.Name, Role: e.Role, Type: e.Type}
		}
	}
	for _, prev := range s.entries {
		if prev.Serial == e.Serial {
			s.warn("serial %s is already registered as %s %s %q, keeping both entries", e.Serial, prev.Type, prev.Role, prev.Name)
			break
		}
	}

	s.entries = append(s.entries, e)
	return nil
}

// RowError describes one registry row that failed to load.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Load reads a registry file. Bad rows are skipped and reported through the
// returned RowError slice; the rest of the file still loads.
func Load(path string, warn WarnFunc) (*Store, []*RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open registry %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	store := NewStore(warn)
	var bad []*RowError
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A syntax error poisons only its own row; the reader recovers
			// on the next record.
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			bad = append(bad, &RowError{Line: line, Err: err})
			continue
		}
		if len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), headerSentinel) {
			continue
		}
		if len(rec) != 4 {
			bad = append(bad, &RowError{Line: line, Err: fmt.Errorf("expected 4 columns, got %d", len(rec))})
			continue
		}
		err = store.Append(Entry{
			Serial: rec[0],
			Name:   rec[1],
			Role:   Role(rec[2]),
			Type:   rec[3],
		})
		if err != nil {
			bad = append(bad, &RowError{Line: line, Err: err})
		}
	}
	return store, bad, nil
}

// Persist writes the registry atomically: the full contents go to a
// temporary file in the target's directory, which is then renamed over the
// target, so an interrupted write never leaves a corrupt registry behind.
func (s *Store) Persist(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	rows := [][]string{{headerSentinel, "name", "role", "type"}}
	for _, e := range s.entries {
		rows = append(rows, []string{e.Serial, e.Name, string(e.Role), e.Type})
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace registry %s: %w", path, err)
	}
	return nil
}
