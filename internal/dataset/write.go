package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Exportable is a segmented row that can be appended to its source row.
type Exportable interface {
	SourceRow() int
	Values() []string
}

// WriteCSV writes every original column of t followed by the derived
// columns, one line per exported row.
func WriteCSV[E Exportable](w io.Writer, t *Table, derived []string, rows []E) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(t.Columns)+len(derived))
	header = append(header, t.Columns...)
	header = append(header, derived...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: header: %w", err)
	}
	for _, r := range rows {
		idx := r.SourceRow()
		if idx < 0 || idx >= len(t.Rows) {
			return fmt.Errorf("write csv: source row %d out of range", idx)
		}
		line := make([]string, 0, len(header))
		line = append(line, t.Rows[idx]...)
		line = append(line, r.Values()...)
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv: row %d: %w", idx, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
