package sqlite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmt(t *testing.T) {
	t.Run("BindAndExec", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE emp(empno int, empname char(20))")
		require.NoError(t, err)

		stmt, err := conn.Prepare("INSERT INTO emp VALUES(?, ?)")
		require.NoError(t, err)
		defer stmt.Finalize()

		assert.Equal(t, 2, stmt.ParamCount())
		assert.False(t, stmt.ReadOnly())
		assert.Equal(t, "INSERT INTO emp VALUES(?, ?)", stmt.SQL())

		err = conn.Transaction(func() error {
			for i := 0; i < 100; i++ {
				if err := stmt.BindInt(1, int64(i)); err != nil {
					return err
				}
				if err := stmt.BindText(2, fmt.Sprintf("EmpName%06d", i)); err != nil {
					return err
				}
				if _, err := stmt.Exec(); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)

		count, err := conn.Scalar("SELECT count(*) FROM emp")
		assert.NoError(t, err)
		assert.Equal(t, int64(100), count)

		name, err := conn.QueryTable("SELECT empname FROM emp WHERE empno = 42")
		require.NoError(t, err)
		defer name.Finalize()
		require.NoError(t, name.SelectRow(0))
		got, err := name.String(0)
		assert.NoError(t, err)
		assert.Equal(t, "EmpName000042", got)
	})

	t.Run("BindOutOfRange", func(t *testing.T) {
		conn := openTestConn(t)

		stmt, err := conn.Prepare("SELECT ?, ?")
		require.NoError(t, err)
		defer stmt.Finalize()

		assert.ErrorIs(t, stmt.BindInt(0, 1), ErrOutOfRange)
		assert.ErrorIs(t, stmt.BindInt(3, 1), ErrOutOfRange)
		assert.Error(t, stmt.Bind(1, struct{}{}))
	})

	t.Run("BindTypes", func(t *testing.T) {
		conn := openTestConn(t)

		stmt, err := conn.Prepare("SELECT ?, ?, ?, ?, ?, ?, ?")
		require.NoError(t, err)
		defer stmt.Finalize()

		require.NoError(t, stmt.Bind(1, 7))
		require.NoError(t, stmt.Bind(2, float32(0.5)))
		require.NoError(t, stmt.Bind(3, true))
		require.NoError(t, stmt.Bind(4, "text"))
		require.NoError(t, stmt.BindBlob(5, nil))
		require.NoError(t, stmt.BindNull(6))
		require.NoError(t, stmt.Bind(7, TextValue("value")))

		assert.True(t, stmt.ReadOnly())

		cur, err := stmt.Query()
		require.NoError(t, err)
		defer cur.Finalize()

		want := []ValueType{TypeInteger, TypeFloat, TypeInteger, TypeText, TypeBlob, TypeNull, TypeText}
		for i, typ := range want {
			got, err := cur.ColumnType(i)
			require.NoError(t, err)
			assert.Equal(t, typ, got, "column %d", i)
		}

		flag, err := cur.Int(2)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), flag)

		blob, err := cur.Blob(4)
		assert.NoError(t, err)
		assert.Empty(t, blob)
	})

	t.Run("BlobRoundTrip", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE bin(data blob)")
		require.NoError(t, err)

		stmt, err := conn.Prepare("INSERT INTO bin VALUES(?)")
		require.NoError(t, err)
		defer stmt.Finalize()

		require.NoError(t, stmt.BindBlob(1, allBytes()))
		_, err = stmt.Exec()
		require.NoError(t, err)

		cur, err := conn.Query("SELECT data, length(data) FROM bin")
		require.NoError(t, err)
		defer cur.Finalize()

		data, err := cur.Blob(0)
		assert.NoError(t, err)
		assert.Equal(t, allBytes(), data)

		length, err := cur.Int(1)
		assert.NoError(t, err)
		assert.Equal(t, int64(256), length)
	})

	t.Run("BindingsPersistUntilCleared", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE emp(empno int, empname char(20))")
		require.NoError(t, err)

		stmt, err := conn.Prepare("INSERT INTO emp VALUES(?, ?)")
		require.NoError(t, err)
		defer stmt.Finalize()

		require.NoError(t, stmt.BindInt(1, 1))
		require.NoError(t, stmt.BindText(2, "same"))
		_, err = stmt.Exec()
		require.NoError(t, err)

		require.NoError(t, stmt.BindInt(1, 2))
		_, err = stmt.Exec()
		require.NoError(t, err)

		stmt.ClearBindings()
		_, err = stmt.Exec()
		require.NoError(t, err)

		count, err := conn.Scalar("SELECT count(*) FROM emp WHERE empname = 'same'")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = conn.Scalar("SELECT count(*) FROM emp WHERE empno IS NULL AND empname IS NULL")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("QueryResetsCursor", func(t *testing.T) {
		conn := openTestConn(t)
		createParts(t, conn)

		stmt, err := conn.Prepare("SELECT name FROM parts WHERE no >= ? ORDER BY no")
		require.NoError(t, err)
		defer stmt.Finalize()

		require.NoError(t, stmt.BindInt(1, 3))
		first, err := stmt.Query()
		require.NoError(t, err)

		name, err := first.String(0)
		assert.NoError(t, err)
		assert.Equal(t, "part3", name)

		require.NoError(t, stmt.BindInt(1, 4))
		second, err := stmt.Query()
		require.NoError(t, err)
		defer second.Finalize()

		_, err = first.String(0)
		assert.ErrorIs(t, err, ErrFinalized)

		name, err = second.String(0)
		assert.NoError(t, err)
		assert.Equal(t, "part4", name)

		require.NoError(t, second.Next())
		assert.True(t, second.AtEnd())
	})

	t.Run("ExecError", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE emp(empno int NOT NULL)")
		require.NoError(t, err)

		stmt, err := conn.Prepare("INSERT INTO emp VALUES(?)")
		require.NoError(t, err)
		defer stmt.Finalize()

		_, err = stmt.Exec()
		var execErr *ExecError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, sqlite3.ErrConstraint, execErr.Code)

		// The statement stays usable after a failed run.
		require.NoError(t, stmt.BindInt(1, 1))
		affected, err := stmt.Exec()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("PrepareError", func(t *testing.T) {
		conn := openTestConn(t)

		_, err := conn.Prepare("SELECT * FROM missing")
		var execErr *ExecError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, sqlite3.ErrError, execErr.Code)
	})

	t.Run("Finalize", func(t *testing.T) {
		conn := openTestConn(t)
		createParts(t, conn)

		stmt, err := conn.Prepare("SELECT * FROM parts")
		require.NoError(t, err)

		cur, err := stmt.Query()
		require.NoError(t, err)

		assert.NoError(t, stmt.Finalize())
		assert.NoError(t, stmt.Finalize())
		assert.False(t, stmt.ReadOnly())

		_, err = cur.Int(0)
		assert.ErrorIs(t, err, ErrFinalized)

		_, err = stmt.Exec()
		assert.ErrorIs(t, err, ErrFinalized)
		_, err = stmt.Query()
		assert.ErrorIs(t, err, ErrFinalized)
		assert.ErrorIs(t, stmt.BindInt(1, 1), ErrFinalized)
	})
}
