package sqlite

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Cursor is a forward-only view over the rows of a query.
//
// A freshly created cursor is already positioned on the first row, or is at
// the end when the query returned nothing:
//
//	for !cur.AtEnd() {
//		name, err := cur.NamedString("name")
//		...
//		if err := cur.Next(); err != nil {
//			...
//		}
//	}
//
// The cursor owns the engine statement until Finalize is called or the last
// row has been read. It is not safe for concurrent use.
type Cursor struct {
	fields

	rows       driver.Rows
	rowsClosed bool
	dest       []driver.Value
	row        []Value
	atEnd      bool
	finalized  bool
	onFinalize func()
}

// newCursor wraps rows and fetches the first row. onFinalize, if not nil, runs
// once when the cursor is finalized.
func newCursor(rows driver.Rows, onFinalize func()) (*Cursor, error) {
	names := rows.Columns()

	cur := &Cursor{
		rows:       rows,
		dest:       make([]driver.Value, len(names)),
		onFinalize: onFinalize,
	}
	cur.fields = fields{
		cols:    newColumnSet(names, declTypes(rows, len(names))),
		current: cur.currentRow,
	}

	if err := cur.fetch(); err != nil {
		_ = cur.Finalize()
		return nil, err
	}

	return cur, nil
}

// convertedDeclTypes are the declared types go-sqlite3 decodes into bool or
// time.Time while stepping.
var convertedDeclTypes = []string{"boolean", "date", "datetime", "timestamp"}

// declTypes returns the declared column types of rows in lower case.
//
// go-sqlite3 returns the very slice it consults on every Next, so the
// converted types are blanked in it after taking a copy. The rows then hand
// back each cell in the storage class the engine picked for it.
func declTypes(rows driver.Rows, count int) []string {
	if dt, ok := rows.(interface{ DeclTypes() []string }); ok {
		driverTypes := dt.DeclTypes()
		types := slices.Clone(driverTypes)
		for i, t := range driverTypes {
			if slices.Contains(convertedDeclTypes, t) {
				driverTypes[i] = ""
			}
		}
		return types
	}

	types := make([]string, count)
	if ct, ok := rows.(driver.RowsColumnTypeDatabaseTypeName); ok {
		for i := range types {
			types[i] = strings.ToLower(ct.ColumnTypeDatabaseTypeName(i))
		}
	}
	return types
}

// fetch steps the statement once. At the end of the results, or on an
// engine error, the statement is released right away so it does not keep
// holding locks until Finalize.
func (cur *Cursor) fetch() error {
	err := cur.rows.Next(cur.dest)
	if err == nil {
		row := make([]Value, len(cur.dest))
		for i, v := range cur.dest {
			cur.dest[i] = nil
			if row[i], err = fromDriverValue(v); err != nil {
				break
			}
		}
		if err == nil {
			cur.row = row
			return nil
		}

		cur.row = nil
		cur.atEnd = true
		return errors.Join(fmt.Errorf("failed to read column: %w", err), cur.closeRows())
	}

	cur.row = nil
	cur.atEnd = true
	closeErr := cur.closeRows()

	if errors.Is(err, io.EOF) {
		return closeErr
	}
	return fmt.Errorf("failed to step statement: %w", newExecError(err))
}

func (cur *Cursor) closeRows() error {
	if cur.rowsClosed {
		return nil
	}
	cur.rowsClosed = true

	if err := cur.rows.Close(); err != nil {
		return fmt.Errorf("failed to close statement: %w", newExecError(err))
	}
	return nil
}

func (cur *Cursor) currentRow() ([]Value, error) {
	if cur.finalized {
		return nil, ErrFinalized
	}
	if cur.atEnd {
		return nil, ErrNoCurrentRow
	}
	return cur.row, nil
}

// AtEnd reports whether the cursor moved past the last row. A finalized
// cursor is always at the end.
func (cur *Cursor) AtEnd() bool {
	return cur.atEnd || cur.finalized
}

// Next advances the cursor to the next row. Calling it on a finalized cursor
// or one that is already at the end returns ErrCursorFinalized.
//
// Engine failures while stepping are returned as *ExecError and leave the
// cursor at the end.
func (cur *Cursor) Next() error {
	if cur.finalized || cur.atEnd {
		return ErrCursorFinalized
	}
	return cur.fetch()
}

// Finalize releases the engine statement. It is safe to call more than
// once; every field read after it returns ErrFinalized.
//
// https://www.sqlite.org/c3ref/finalize.html
func (cur *Cursor) Finalize() error {
	if cur.finalized {
		return nil
	}
	cur.finalized = true
	cur.row = nil

	err := cur.closeRows()
	if cur.onFinalize != nil {
		cur.onFinalize()
		cur.onFinalize = nil
	}
	return err
}
