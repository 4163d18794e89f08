// Package dataset loads CRM contact exports into tables, maps their column
// vocabulary onto semantic field names and writes segmented results back out.
package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

// ErrMissingIDColumn is returned when a table has no contact identifier.
var ErrMissingIDColumn = errors.New("missing Record ID column")

// Table is a rectangular string table with named columns. Every row has
// exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a table, padding short rows and truncating long ones.
// A repeated column name resolves to its first occurrence.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("new table: no columns")
	}
	t := &Table{Columns: columns, Rows: make([][]string, len(rows)), index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for i, r := range rows {
		row := make([]string, len(columns))
		copy(row, r)
		t.Rows[i] = row
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Index returns the position of a column.
func (t *Table) Index(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// Value returns the cell at row and column.
func (t *Table) Value(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row][i], true
}

// Subset returns a table holding only the given rows, in order.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{Columns: t.Columns, Rows: make([][]string, 0, len(rows)), index: t.index}
	for _, r := range rows {
		if r >= 0 && r < len(t.Rows) {
			out.Rows = append(out.Rows, t.Rows[r])
		}
	}
	return out
}

// Hash returns a sha256 content hash over column names and every cell.
// Cells are length-prefixed so no two distinct tables share an encoding.
func (t *Table) Hash() string {
	h := sha256.New()
	t.WriteHash(h)
	return hex.EncodeToString(h.Sum(nil))
}

// WriteHash feeds the table's canonical encoding into h.
func (t *Table) WriteHash(h hash.Hash) {
	writeField := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeField(fmt.Sprintf("cols:%d", len(t.Columns)))
	for _, c := range t.Columns {
		writeField(c)
	}
	writeField(fmt.Sprintf("rows:%d", len(t.Rows)))
	for _, r := range t.Rows {
		for _, cell := range r {
			writeField(cell)
		}
	}
}
