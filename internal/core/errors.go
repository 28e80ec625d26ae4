package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a render cycle.
// Use errors.Is to test for them; the concrete types carry the details.
var (
	// ErrDataUnavailable means the dataset could not be read. Fatal to the render.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrSchemaMismatch means expected columns were not found. Fatal to the render.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEmptySelection means a filter matched no records. Recoverable:
	// the affected section shows an empty state and the rest still renders.
	ErrEmptySelection = errors.New("no records match the selection")
)

// DataUnavailableError wraps a failure to read a dataset source.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable: %s: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Is reports a match against ErrDataUnavailable.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// NewDataUnavailable wraps err, returning nil when err is nil.
// An error that is already a DataUnavailableError is returned unchanged.
func NewDataUnavailable(source string, err error) error {
	if err == nil {
		return nil
	}
	var due *DataUnavailableError
	if errors.As(err, &due) {
		return err
	}
	return &DataUnavailableError{Source: source, Err: err}
}

// MissingColumn describes one expected column a strategy could not find.
type MissingColumn struct {
	Strategy string // Strategy that needed the column
	Role     string // What the column is for ("group dimension")
	Name     string // Expected name or keyword list
}

func (m MissingColumn) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Role)
}

// SchemaMismatchError lists the expected columns that no strategy could locate.
type SchemaMismatchError struct {
	Columns []string // Columns actually present
	Missing []MissingColumn
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) == 0 {
		return "schema mismatch: column not found"
	}

	byStrategy := make(map[string][]string)
	var order []string
	for _, m := range e.Missing {
		if _, seen := byStrategy[m.Strategy]; !seen {
			order = append(order, m.Strategy)
		}
		byStrategy[m.Strategy] = append(byStrategy[m.Strategy], m.String())
	}

	parts := make([]string, 0, len(order))
	for _, s := range order {
		parts = append(parts, fmt.Sprintf("%s layout: %s", s, strings.Join(byStrategy[s], ", ")))
	}
	return "schema mismatch: column not found: " + strings.Join(parts, "; ")
}

// Is reports a match against ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Primary returns the first missing column, the one the preferred layout needed.
func (e *SchemaMismatchError) Primary() (MissingColumn, bool) {
	if len(e.Missing) == 0 {
		return MissingColumn{}, false
	}
	return e.Missing[0], true
}

// IsFatal reports whether err must stop the current render cycle.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDataUnavailable) || errors.Is(err, ErrSchemaMismatch)
}
