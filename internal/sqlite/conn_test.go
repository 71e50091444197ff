package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDSN(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "memory",
			config: Config{Path: MemoryPath},
			want:   "file::memory:?_busy_timeout=5000&_foreign_keys=true",
		},
		{
			name:   "file",
			config: Config{Path: "test.db", BusyTimeout: time.Second},
			want:   "file:test.db?_busy_timeout=1000&_foreign_keys=true&_journal_mode=WAL&_synchronous=NORMAL",
		},
		{
			name:   "read only",
			config: Config{Path: "test.db", ReadOnly: true},
			want:   "file:test.db?_busy_timeout=5000&_foreign_keys=true&_query_only=true&mode=ro",
		},
		{
			name:   "no optimizations",
			config: Config{Path: "test.db", DisableOptimizations: true},
			want:   "file:test.db?_busy_timeout=5000&_foreign_keys=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, createDSN(tt.config))
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("RequiresLogger", func(t *testing.T) {
		_, err := Open(Config{Path: MemoryPath})
		assert.Error(t, err)
	})

	t.Run("RequiresPath", func(t *testing.T) {
		_, err := Open(Config{Logger: log.NewDiscardLogger()})
		assert.Error(t, err)
	})

	t.Run("FileDatabase", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), uuid.NewString()+".db")

		conn, err := Open(Config{Logger: log.NewDiscardLogger(), Path: path})
		require.NoError(t, err)
		assert.Equal(t, path, conn.Path())

		_, err = conn.Exec("CREATE TABLE emp(empno int, empname char(20))")
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		conn, err = Open(Config{Logger: log.NewDiscardLogger(), Path: path})
		require.NoError(t, err)
		defer conn.Close()

		exists, err := conn.TableExists("emp")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ReadOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ro.db")

		conn, err := Open(Config{
			Logger:               log.NewDiscardLogger(),
			Path:                 path,
			DisableOptimizations: true,
		})
		require.NoError(t, err)
		_, err = conn.Exec("CREATE TABLE emp(empno int)")
		require.NoError(t, err)
		require.NoError(t, conn.Close())

		conn, err = Open(Config{Logger: log.NewDiscardLogger(), Path: path, ReadOnly: true})
		require.NoError(t, err)
		defer conn.Close()

		count, err := conn.Scalar("SELECT count(*) FROM emp")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)

		_, err = conn.Exec("INSERT INTO emp VALUES(1)")
		var execErr *ExecError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, sqlite3.ErrReadonly, execErr.Code)
	})
}

func TestConn(t *testing.T) {
	t.Run("ExecRowsAffected", func(t *testing.T) {
		conn := openTestConn(t)
		createParts(t, conn)

		affected, err := conn.Exec("UPDATE parts SET qty = 0 WHERE no > 1")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), affected)

		affected, err = conn.Exec("DELETE FROM parts WHERE no = 100")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})

	t.Run("MultiStatementExec", func(t *testing.T) {
		conn := openTestConn(t)

		_, err := conn.Exec(`
			CREATE TABLE emp(empno int, empname char(20));
			INSERT INTO emp VALUES(1, 'a');
			INSERT INTO emp VALUES(2, 'b');
		`)
		require.NoError(t, err)

		count, err := conn.Scalar("SELECT count(*) FROM emp")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("MultiStatementQuery", func(t *testing.T) {
		conn := openTestConn(t)

		_, err := conn.Exec("CREATE TABLE emp(empno int)")
		require.NoError(t, err)

		count, err := conn.Scalar("INSERT INTO emp VALUES(1); SELECT count(*) FROM emp")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		cur, err := conn.Query("INSERT INTO emp VALUES(2); INSERT INTO emp VALUES(3); SELECT empno FROM emp ORDER BY empno;")
		require.NoError(t, err)
		empnos := []int64{}
		for !cur.AtEnd() {
			empno, err := cur.Int(0)
			require.NoError(t, err)
			empnos = append(empnos, empno)
			require.NoError(t, cur.Next())
		}
		require.NoError(t, cur.Finalize())
		assert.Equal(t, []int64{1, 2, 3}, empnos)

		tbl, err := conn.QueryTable("SELECT 1; DELETE FROM emp WHERE empno = 3")
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.ColumnCount())
		count, err = conn.Scalar("SELECT count(*) FROM emp")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		// A failing leading statement stops the rest.
		_, err = conn.QueryTable("INSERT INTO missing VALUES(1); DELETE FROM emp")
		var execErr *ExecError
		require.ErrorAs(t, err, &execErr)
		assert.Contains(t, execErr.Message, "no such table")
		count, err = conn.Scalar("SELECT count(*) FROM emp")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("ExecError", func(t *testing.T) {
		conn := openTestConn(t)

		_, err := conn.Exec("CREATE TABLE emp(empno int PRIMARY KEY); INSERT INTO emp VALUES(1)")
		require.NoError(t, err)

		_, err = conn.Exec("INSERT INTO emp VALUES(1)")
		require.Error(t, err)

		var execErr *ExecError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, sqlite3.ErrConstraint, execErr.Code)
		assert.Equal(t, sqlite3.ErrConstraintPrimaryKey, execErr.ExtendedCode)

		var engineErr sqlite3.Error
		assert.True(t, errors.As(err, &engineErr))

		_, err = conn.Exec("DROP TABLE missing")
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, sqlite3.ErrError, execErr.Code)
		assert.Contains(t, execErr.Error(), "no such table")
	})

	t.Run("Scalar", func(t *testing.T) {
		conn := openTestConn(t)
		createParts(t, conn)

		sum, err := conn.Scalar("SELECT sum(qty) FROM parts")
		assert.NoError(t, err)
		assert.Equal(t, int64(700), sum)

		none, err := conn.Scalar("SELECT max(qty) FROM parts WHERE no > 100")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), none)

		_, err = conn.Scalar("SELECT qty FROM parts WHERE no > 100")
		assert.Error(t, err)
	})

	t.Run("LastInsertRowID", func(t *testing.T) {
		conn := openTestConn(t)

		_, err := conn.Exec("CREATE TABLE emp(id INTEGER PRIMARY KEY, name text)")
		require.NoError(t, err)
		_, err = conn.Exec("INSERT INTO emp(id, name) VALUES(41, 'a'); INSERT INTO emp(name) VALUES('b')")
		require.NoError(t, err)

		id, err := conn.LastInsertRowID()
		assert.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("TableExists", func(t *testing.T) {
		conn := openTestConn(t)
		createParts(t, conn)

		exists, err := conn.TableExists("parts")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = conn.TableExists("x'); DROP TABLE parts; --")
		assert.NoError(t, err)
		assert.False(t, exists)

		exists, err = conn.TableExists("parts")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("SetBusyTimeout", func(t *testing.T) {
		conn := openTestConn(t)

		require.NoError(t, conn.SetBusyTimeout(250*time.Millisecond))

		timeout, err := conn.Scalar("PRAGMA busy_timeout")
		assert.NoError(t, err)
		assert.Equal(t, int64(250), timeout)
	})

	t.Run("TransactionCommit", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE emp(empno int)")
		require.NoError(t, err)

		err = conn.Transaction(func() error {
			assert.True(t, conn.InTransaction())
			_, err := conn.Exec("INSERT INTO emp VALUES(1); INSERT INTO emp VALUES(2)")
			return err
		})
		require.NoError(t, err)
		assert.False(t, conn.InTransaction())

		count, err := conn.Scalar("SELECT count(*) FROM emp")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("TransactionRollback", func(t *testing.T) {
		conn := openTestConn(t)
		_, err := conn.Exec("CREATE TABLE emp(empno int)")
		require.NoError(t, err)

		errBoom := errors.New("boom")
		err = conn.Transaction(func() error {
			if _, err := conn.Exec("INSERT INTO emp VALUES(1)"); err != nil {
				return err
			}
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, conn.InTransaction())

		count, err := conn.Scalar("SELECT count(*) FROM emp")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Closed", func(t *testing.T) {
		conn, err := Open(Config{Logger: log.NewDiscardLogger(), Path: MemoryPath})
		require.NoError(t, err)

		assert.NoError(t, conn.Close())
		assert.NoError(t, conn.Close())
		assert.False(t, conn.InTransaction())

		_, err = conn.Exec("SELECT 1")
		assert.ErrorIs(t, err, ErrConnClosed)
		_, err = conn.Query("SELECT 1")
		assert.ErrorIs(t, err, ErrConnClosed)
		_, err = conn.QueryTable("SELECT 1")
		assert.ErrorIs(t, err, ErrInvalidState)
		_, err = conn.Prepare("SELECT 1")
		assert.ErrorIs(t, err, ErrConnClosed)
	})

	t.Run("Version", func(t *testing.T) {
		conn := openTestConn(t)

		cur, err := conn.Query("SELECT sqlite_version()")
		require.NoError(t, err)
		defer cur.Finalize()

		version, err := cur.String(0)
		assert.NoError(t, err)
		assert.Equal(t, version, Version())
	})
}
