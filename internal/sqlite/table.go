package sqlite

import "fmt"

// Table is a fully loaded snapshot of a query result. Rows are addressed
// with SelectRow before reading fields:
//
//	for row := 0; row < t.RowCount(); row++ {
//		if err := t.SelectRow(row); err != nil {
//			...
//		}
//		name, err := t.NamedStringOr("name", "NULL")
//		...
//	}
//
// A Table holds no engine resources; Finalize only drops the loaded rows.
type Table struct {
	fields

	rows      [][]Value
	selected  int
	finalized bool
}

// loadTable drains cur into a new Table and finalizes it. When the engine
// fails halfway no table is returned.
func loadTable(cur *Cursor) (*Table, error) {
	defer func() {
		_ = cur.Finalize()
	}()

	var rows [][]Value
	for !cur.AtEnd() {
		rows = append(rows, cur.row)
		if err := cur.Next(); err != nil {
			return nil, fmt.Errorf("failed to load table: %w", err)
		}
	}

	t := &Table{
		rows:     rows,
		selected: -1,
	}
	t.fields = fields{
		cols:    cur.cols,
		current: t.currentRow,
	}
	return t, nil
}

func (t *Table) currentRow() ([]Value, error) {
	if t.finalized {
		return nil, ErrFinalized
	}
	if t.selected < 0 {
		return nil, ErrNoRowSelected
	}
	return t.rows[t.selected], nil
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// SelectRow makes the row at the given zero-based index the current one.
func (t *Table) SelectRow(row int) error {
	if t.finalized {
		return ErrFinalized
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("%w: row %d, table has %d rows", ErrOutOfRange, row, len(t.rows))
	}
	t.selected = row
	return nil
}

// Row returns the index of the current row, or -1 if none was selected.
func (t *Table) Row() int {
	return t.selected
}

// Finalize drops the loaded rows. It is safe to call more than once; every
// field read after it returns ErrFinalized.
func (t *Table) Finalize() error {
	t.finalized = true
	t.rows = nil
	t.selected = -1
	return nil
}
