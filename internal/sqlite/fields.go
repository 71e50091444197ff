package sqlite

import "fmt"

// fields implements the typed field API shared by Cursor and Table.
//
// Every getter addresses a column either by zero-based index or, in the
// Named* variants, by exact column name. Reads go against the row returned
// by current, which reports the lifecycle errors of the owning accessor.
type fields struct {
	cols    *columnSet
	current func() ([]Value, error)
}

// ColumnCount returns the number of columns in the result.
func (f *fields) ColumnCount() int {
	return f.cols.count()
}

// Columns returns a copy of the column descriptions of the result.
func (f *fields) Columns() []Column {
	columns := make([]Column, len(f.cols.columns))
	copy(columns, f.cols.columns)
	return columns
}

// ColumnName returns the name of the column at the given index.
func (f *fields) ColumnName(index int) (string, error) {
	col, err := f.cols.column(index)
	if err != nil {
		return "", err
	}
	return col.Name, nil
}

// ColumnDeclType returns the declared type of the column at the given index.
//
// https://www.sqlite.org/c3ref/column_decltype.html
func (f *fields) ColumnDeclType(index int) (string, error) {
	col, err := f.cols.column(index)
	if err != nil {
		return "", err
	}
	return col.DeclType, nil
}

// ColumnIndex returns the index of the first column with the given name.
func (f *fields) ColumnIndex(name string) (int, error) {
	return f.cols.index(name)
}

// ColumnType returns the dynamic type of the cell at the given index in the
// current row.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (f *fields) ColumnType(index int) (ValueType, error) {
	v, err := f.Value(index)
	if err != nil {
		return ValueType{}, err
	}
	return v.Type(), nil
}

// Value returns the cell at the given index in the current row.
func (f *fields) Value(index int) (Value, error) {
	row, err := f.current()
	if err != nil {
		return Value{}, err
	}
	if index < 0 || index >= len(row) {
		return Value{}, fmt.Errorf("%w: column %d, result has %d columns", ErrOutOfRange, index, len(row))
	}
	return row[index], nil
}

// NamedValue returns the cell of the named column in the current row.
func (f *fields) NamedValue(name string) (Value, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return Value{}, err
	}
	return f.Value(index)
}

// IsNull reports whether the cell at the given index is NULL.
func (f *fields) IsNull(index int) (bool, error) {
	v, err := f.Value(index)
	if err != nil {
		return false, err
	}
	return v.IsNull(), nil
}

// NamedIsNull reports whether the cell of the named column is NULL.
func (f *fields) NamedIsNull(name string) (bool, error) {
	v, err := f.NamedValue(name)
	if err != nil {
		return false, err
	}
	return v.IsNull(), nil
}

// Int returns the cell at the given index as int64. A NULL cell returns
// ErrNullValue.
func (f *fields) Int(index int) (int64, error) {
	v, err := f.Value(index)
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", index, err)
	}
	return n, nil
}

// IntOr is like Int but returns def when the cell is NULL.
func (f *fields) IntOr(index int, def int64) (int64, error) {
	v, err := f.Value(index)
	if err != nil {
		return 0, err
	}
	if v.IsNull() {
		return def, nil
	}
	return f.Int(index)
}

// NamedInt is Int addressed by column name.
func (f *fields) NamedInt(name string) (int64, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return 0, err
	}
	return f.Int(index)
}

// NamedIntOr is IntOr addressed by column name.
func (f *fields) NamedIntOr(name string, def int64) (int64, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return 0, err
	}
	return f.IntOr(index, def)
}

// Float returns the cell at the given index as float64. A NULL cell returns
// ErrNullValue.
func (f *fields) Float(index int) (float64, error) {
	v, err := f.Value(index)
	if err != nil {
		return 0, err
	}
	n, err := v.Float()
	if err != nil {
		return 0, fmt.Errorf("column %d: %w", index, err)
	}
	return n, nil
}

// FloatOr is like Float but returns def when the cell is NULL.
func (f *fields) FloatOr(index int, def float64) (float64, error) {
	v, err := f.Value(index)
	if err != nil {
		return 0, err
	}
	if v.IsNull() {
		return def, nil
	}
	return f.Float(index)
}

// NamedFloat is Float addressed by column name.
func (f *fields) NamedFloat(name string) (float64, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return 0, err
	}
	return f.Float(index)
}

// NamedFloatOr is FloatOr addressed by column name.
func (f *fields) NamedFloatOr(name string, def float64) (float64, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return 0, err
	}
	return f.FloatOr(index, def)
}

// String returns the cell at the given index as text. A NULL cell returns
// ErrNullValue.
func (f *fields) String(index int) (string, error) {
	v, err := f.Value(index)
	if err != nil {
		return "", err
	}
	s, err := v.String()
	if err != nil {
		return "", fmt.Errorf("column %d: %w", index, err)
	}
	return s, nil
}

// StringOr is like String but returns def when the cell is NULL.
func (f *fields) StringOr(index int, def string) (string, error) {
	v, err := f.Value(index)
	if err != nil {
		return "", err
	}
	if v.IsNull() {
		return def, nil
	}
	return f.String(index)
}

// NamedString is String addressed by column name.
func (f *fields) NamedString(name string) (string, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return "", err
	}
	return f.String(index)
}

// NamedStringOr is StringOr addressed by column name.
func (f *fields) NamedStringOr(name string, def string) (string, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return "", err
	}
	return f.StringOr(index, def)
}

// Blob returns a copy of the bytes of the cell at the given index. The copy
// belongs to the caller and stays valid after the accessor moves on. A NULL
// cell returns nil.
func (f *fields) Blob(index int) ([]byte, error) {
	v, err := f.Value(index)
	if err != nil {
		return nil, err
	}
	return v.Blob(), nil
}

// NamedBlob is Blob addressed by column name.
func (f *fields) NamedBlob(name string) ([]byte, error) {
	index, err := f.cols.index(name)
	if err != nil {
		return nil, err
	}
	return f.Blob(index)
}

// Text returns the display text of the cell at the given index. Unlike
// String it never fails on the cell type: NULL is "" and blobs are returned
// as raw bytes.
func (f *fields) Text(index int) (string, error) {
	v, err := f.Value(index)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

// NamedText is Text addressed by column name.
func (f *fields) NamedText(name string) (string, error) {
	v, err := f.NamedValue(name)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}
