package entity

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedTable     = errors.New("columns have different lengths")
	ErrMixedColumn     = errors.New("column holds cells of more than one kind")
)

type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

func (c Column) Len() int {
	return len(c.Values)
}

// Clone returns a deep copy so snapshots do not alias the table.
func (c Column) Clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// Table is an ordered set of named, equal-length columns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable validates that names are unique, lengths match and every cell is
// either missing or of its column's kind.
func NewTable(columns []Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		t.index[col.Name] = i

		if i == 0 {
			t.rows = len(col.Values)
		} else if len(col.Values) != t.rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrRaggedTable, col.Name, len(col.Values), t.rows)
		}

		for r, v := range col.Values {
			if !v.IsMissing() && v.Kind() != col.Kind {
				return nil, fmt.Errorf("%w: %q row %d is %s, column is %s", ErrMixedColumn, col.Name, r, v.Kind(), col.Kind)
			}
		}
	}

	return t, nil
}

func (t *Table) Rows() int {
	return t.rows
}

func (t *Table) Columns() []Column {
	return t.columns
}

func (t *Table) Headers() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Records returns up to limit rows starting at offset, keyed by column name.
func (t *Table) Records(offset, limit int) []map[string]any {
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if limit < 0 || end > t.rows {
		end = t.rows
	}
	if offset >= end {
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, end-offset)
	for r := offset; r < end; r++ {
		rec := make(map[string]any, len(t.columns))
		for _, col := range t.columns {
			rec[col.Name] = col.Values[r].Interface()
		}
		out = append(out, rec)
	}
	return out
}

// Cells returns rows [offset, offset+limit) as display strings in column order.
func (t *Table) Cells(offset, limit int) [][]string {
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if limit < 0 || end > t.rows {
		end = t.rows
	}
	if offset >= end {
		return [][]string{}
	}

	out := make([][]string, 0, end-offset)
	for r := offset; r < end; r++ {
		row := make([]string, len(t.columns))
		for c, col := range t.columns {
			row[c] = col.Values[r].String()
		}
		out = append(out, row)
	}
	return out
}
