package sqlite

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Stmt is a compiled statement that can be bound and run many times:
//
//	stmt, err := conn.Prepare("INSERT INTO emp VALUES (?, ?)")
//	...
//	for i := range 1000 {
//		_ = stmt.BindInt(1, int64(i))
//		_ = stmt.BindText(2, fmt.Sprintf("EmpName%06d", i))
//		if _, err := stmt.Exec(); err != nil {
//			...
//		}
//	}
//
// Parameters are numbered from 1. Bindings stay in place across runs until
// they are overwritten or ClearBindings is called; unbound parameters are
// NULL.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn      *Conn
	query     string
	stmt      *sqlite3.SQLiteStmt
	params    []driver.Value
	cursor    *Cursor
	finalized bool
}

// Prepare compiles the first statement of query.
//
// https://www.sqlite.org/c3ref/prepare.html
func (c *Conn) Prepare(query string) (*Stmt, error) {
	if c.closed {
		return nil, ErrConnClosed
	}

	driverStmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", newExecError(err))
	}

	stmt, ok := driverStmt.(*sqlite3.SQLiteStmt)
	if !ok {
		_ = driverStmt.Close()
		return nil, fmt.Errorf("failed to prepare statement: unexpected driver statement %T", driverStmt)
	}

	return &Stmt{
		conn:   c,
		query:  query,
		stmt:   stmt,
		params: make([]driver.Value, stmt.NumInput()),
	}, nil
}

// SQL returns the text the statement was prepared from.
func (s *Stmt) SQL() string {
	return s.query
}

// ParamCount returns the number of parameters of the statement.
//
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (s *Stmt) ParamCount() int {
	return len(s.params)
}

// ReadOnly returns true if the statement does not write to the database.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (s *Stmt) ReadOnly() bool {
	if s.finalized {
		return false
	}
	return s.stmt.Readonly()
}

// Bind binds value to the parameter at the given 1-based position.
//
// Accepted types are the Go integer and float types, bool, string, []byte,
// time.Time, Value and nil. A nil []byte binds NULL.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (s *Stmt) Bind(position int, value any) error {
	if s.finalized {
		return ErrFinalized
	}
	if position < 1 || position > len(s.params) {
		return fmt.Errorf("%w: parameter %d, statement has %d parameters", ErrOutOfRange, position, len(s.params))
	}

	v, err := toDriverValue(value)
	if err != nil {
		return fmt.Errorf("failed to bind parameter %d: %w", position, err)
	}

	s.params[position-1] = v
	return nil
}

// BindInt binds an integer at the given position.
func (s *Stmt) BindInt(position int, value int64) error {
	return s.Bind(position, value)
}

// BindFloat binds a float at the given position.
func (s *Stmt) BindFloat(position int, value float64) error {
	return s.Bind(position, value)
}

// BindText binds a string at the given position.
func (s *Stmt) BindText(position int, value string) error {
	return s.Bind(position, value)
}

// BindBlob binds a copy of data at the given position. Unlike the engine, an
// empty non-nil slice binds an empty blob, not NULL.
func (s *Stmt) BindBlob(position int, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	return s.Bind(position, data)
}

// BindNull binds NULL at the given position.
func (s *Stmt) BindNull(position int) error {
	return s.Bind(position, nil)
}

// ClearBindings sets every parameter back to NULL.
//
// https://www.sqlite.org/c3ref/clear_bindings.html
func (s *Stmt) ClearBindings() {
	for i := range s.params {
		s.params[i] = nil
	}
}

// Exec runs the statement with the current bindings and returns the number of
// rows it changed. A cursor still open on this statement is finalized first.
func (s *Stmt) Exec() (int64, error) {
	if err := s.Reset(); err != nil {
		return 0, err
	}

	res, err := s.stmt.Exec(s.params)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", newExecError(err))
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Query runs the statement with the current bindings and returns a cursor
// over its rows. A cursor still open on this statement is finalized first.
func (s *Stmt) Query() (*Cursor, error) {
	if err := s.Reset(); err != nil {
		return nil, err
	}

	rows, err := s.stmt.Query(s.params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", newExecError(err))
	}

	cur, err := newCursor(rows, func() { s.cursor = nil })
	if err != nil {
		return nil, err
	}
	s.cursor = cur
	return cur, nil
}

// Reset makes the statement ready to run again, finalizing any cursor still
// reading from it. Bindings are kept.
//
// https://www.sqlite.org/c3ref/reset.html
func (s *Stmt) Reset() error {
	if s.finalized {
		return ErrFinalized
	}
	if s.cursor != nil {
		return s.cursor.Finalize()
	}
	return nil
}

// Finalize releases the statement. It is safe to call more than once.
//
// https://www.sqlite.org/c3ref/finalize.html
func (s *Stmt) Finalize() error {
	if s.finalized {
		return nil
	}

	var cursorErr error
	if s.cursor != nil {
		cursorErr = s.cursor.Finalize()
	}
	s.finalized = true

	if err := s.stmt.Close(); err != nil {
		return errors.Join(cursorErr, fmt.Errorf("failed to finalize statement: %w", newExecError(err)))
	}
	return cursorErr
}

// toDriverValue normalises a bind value to one of the types go-sqlite3
// binds natively.
func toDriverValue(value any) (driver.Value, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Value:
		if v.Type() == TypeBlob {
			return v.Blob(), nil
		}
		return v.Any(), nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		return v, nil
	case []byte:
		if v == nil {
			return nil, nil
		}
		b := make([]byte, len(v))
		copy(b, v)
		return b, nil
	case time.Time:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", value)
}
