package dataset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownColumn signals a lookup for a column the frame never declared.
	ErrUnknownColumn = errors.New("dataset: unknown column")
)

// Row is one record keyed by column name. Missing keys read as nil.
type Row = map[string]any

// Frame is an ordered collection of rows over a declared column set.
type Frame struct {
	cols []string
	rows []Row
}

// New returns an empty frame over the given columns.
func New(cols ...string) *Frame {
	return &Frame{cols: append([]string(nil), cols...)}
}

// Columns returns the column names in declaration order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.cols {
		if c == name {
			return true
		}
	}
	return false
}

// AddRow appends a row. Keys not yet declared become new columns, appended in
// sorted order so frame shape stays deterministic.
func (f *Frame) AddRow(row Row) *Frame {
	var fresh []string
	for k := range row {
		if !f.HasColumn(k) {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	f.cols = append(f.cols, fresh...)
	f.rows = append(f.rows, row)
	return f
}

// Len returns the row count.
func (f *Frame) Len() int { return len(f.rows) }

// Rows returns the backing row slice. Callers treat it as read-only.
func (f *Frame) Rows() []Row { return f.rows }

// Column returns all values of the named column, nil-filling missing cells.
func (f *Frame) Column(name string) ([]any, error) {
	if !f.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[name]
	}
	return out, nil
}

// Distinct returns the column's distinct non-nil values in encounter order.
// Unknown columns yield an empty result.
func (f *Frame) Distinct(name string) []any {
	seen := map[string]bool{}
	var out []any
	for _, row := range f.rows {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		k := fmt.Sprint(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// Filter returns a new frame over the same columns holding the rows keep
// accepts. Rows are shared, not copied.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := New(f.cols...)
	for _, row := range f.rows {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Sort stably sorts rows ascending by the given columns. Numeric values order
// numerically; everything else falls back to string order. Nil sorts first.
func (f *Frame) Sort(cols ...string) *Frame {
	sort.SliceStable(f.rows, func(i, j int) bool {
		for _, c := range cols {
			if cmp := compareCell(f.rows[i][c], f.rows[j][c]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return f
}

func compareCell(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aok := AsFloat(a)
	bf, bok := AsFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// AsFloat coerces the numeric cell representations a frame may hold.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
