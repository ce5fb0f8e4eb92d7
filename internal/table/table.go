package table

import "fmt"

// Row holds one record, positionally aligned with Table.Headers.
type Row []Value

// Table is the in-memory {headers, rows} model shared by every component.
// Operations in this module never mutate a Table they receive; they build
// a new one, so callers can keep whole-table snapshots for undo.
type Table struct {
	Headers []string
	Rows    []Row
}

// New builds a table, padding or truncating each row to the header width.
func New(headers []string, rows []Row) Table {
	h := append([]string(nil), headers...)
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = fit(r, len(h))
	}
	return Table{Headers: h, Rows: out}
}

func fit(r Row, width int) Row {
	out := make(Row, width)
	for i := 0; i < width; i++ {
		if i < len(r) {
			out[i] = r[i]
		} else {
			out[i] = String("")
		}
	}
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Index returns the position of the first header named col, or -1.
func (t Table) Index(col string) int {
	for i, h := range t.Headers {
		if h == col {
			return i
		}
	}
	return -1
}

// Has reports whether a header named col exists.
func (t Table) Has(col string) bool { return t.Index(col) >= 0 }

// MustIndex returns the header index or a ColumnNotFoundError.
func (t Table) MustIndex(col string) (int, error) {
	i := t.Index(col)
	if i < 0 {
		return -1, &ColumnNotFoundError{Column: col}
	}
	return i, nil
}

// Column returns a copy of every cell in the named column.
func (t Table) Column(col string) ([]Value, error) {
	idx, err := t.MustIndex(col)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Get returns the cell at row i in column col. Unknown columns read as Empty.
func (t Table) Get(i int, col string) Value {
	idx := t.Index(col)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return Empty()
	}
	return t.Rows[i][idx]
}

// Clone deep-copies headers and rows.
func (t Table) Clone() Table {
	h := append([]string(nil), t.Headers...)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append(Row(nil), r...)
	}
	return Table{Headers: h, Rows: rows}
}

// WithRows returns a table sharing t's headers (copied) with the given rows.
func (t Table) WithRows(rows []Row) Table {
	return Table{Headers: append([]string(nil), t.Headers...), Rows: rows}
}

// MapCells applies fn to every cell and returns the resulting table.
func (t Table) MapCells(fn func(Value) Value) Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for j, v := range r {
			nr[j] = fn(v)
		}
		rows[i] = nr
	}
	return t.WithRows(rows)
}

// WithColumn appends a new column. values must have one entry per row.
// It does not check for name collisions; transform does.
func (t Table) WithColumn(name string, values []Value) (Table, error) {
	if len(values) != len(t.Rows) {
		return Table{}, fmt.Errorf("column %q: got %d values for %d rows", name, len(values), len(t.Rows))
	}
	h := append(append([]string(nil), t.Headers...), name)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, 0, len(r)+1)
		nr = append(nr, r...)
		rows[i] = append(nr, values[i])
	}
	return Table{Headers: h, Rows: rows}, nil
}

// Equal compares headers and rows cell by cell, including value kinds.
func (t Table) Equal(o Table) bool {
	if len(t.Headers) != len(o.Headers) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Headers {
		if t.Headers[i] != o.Headers[i] {
			return false
		}
	}
	for i := range t.Rows {
		if !RowsEqual(t.Rows[i], o.Rows[i]) {
			return false
		}
	}
	return true
}

// RowsEqual reports structural equality of two rows.
func RowsEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Records converts rows to header-keyed maps. Later duplicate headers win.
func (t Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		m := make(map[string]any, len(t.Headers))
		for j, h := range t.Headers {
			m[h] = r[j].Any()
		}
		out[i] = m
	}
	return out
}

// VisibleHeaders returns headers that are not blank, for display layers.
func (t Table) VisibleHeaders() []string {
	out := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
