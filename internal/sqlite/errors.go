package sqlite

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrOutOfRange is returned when a column, row or parameter index is
	// outside its valid bounds.
	ErrOutOfRange = errors.New("index out of range")
	// ErrUnknownColumn is returned when a column name does not match any
	// column of the result.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNullValue is returned when a typed read without a default hits a
	// NULL cell.
	ErrNullValue = errors.New("cannot retrieve null value")
	// ErrTypeMismatch is returned when the stored value cannot be coerced to
	// the requested type, e.g. reading a blob as a number.
	ErrTypeMismatch = errors.New("value cannot be converted to the requested type")
	// ErrInvalidState is the parent of every lifecycle error below.
	ErrInvalidState = errors.New("invalid accessor state")

	ErrNoCurrentRow    = fmt.Errorf("%w: no current row", ErrInvalidState)
	ErrNoRowSelected   = fmt.Errorf("%w: no row selected", ErrInvalidState)
	ErrFinalized       = fmt.Errorf("%w: accessor finalized", ErrInvalidState)
	ErrCursorFinalized = fmt.Errorf("%w: cursor already finalized", ErrInvalidState)
	ErrConnClosed      = fmt.Errorf("%w: connection closed", ErrInvalidState)
)

// ExecError is an error reported by the engine while compiling or running a
// statement, e.g. malformed SQL, a constraint violation or an I/O error.
//
// https://www.sqlite.org/rescode.html
type ExecError struct {
	Code         sqlite3.ErrNo
	ExtendedCode sqlite3.ErrNoExtended
	Message      string
	err          error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execution error: %s (%d): %s", e.Code.Error(), int(e.Code), e.Message)
}

func (e *ExecError) Unwrap() error {
	return e.err
}

// newExecError converts an engine error into an *ExecError. Errors that do
// not come from the engine are returned as they are.
func newExecError(err error) error {
	if err == nil {
		return nil
	}

	var engineErr sqlite3.Error
	if !errors.As(err, &engineErr) {
		return err
	}

	return &ExecError{
		Code:         engineErr.Code,
		ExtendedCode: engineErr.ExtendedCode,
		Message:      engineErr.Error(),
		err:          engineErr,
	}
}
