package sqlite

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/nsqlite/litewrap/internal/log"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config represents the configuration for Open.
type Config struct {
	// Logger is the shared litewrap logger.
	Logger log.Logger
	// Path is the database file, or MemoryPath.
	Path string
	// ReadOnly opens the database without write access.
	ReadOnly bool
	// BusyTimeout is how long the engine retries when the database is
	// locked by another connection. Zero uses 5 seconds.
	BusyTimeout time.Duration
	// DisableOptimizations skips the WAL journal and relaxed synchronous
	// pragmas applied at open time.
	DisableOptimizations bool
}

// Conn is a connection to a SQLite database.
//
// A Conn wraps exactly one engine connection and is not safe for concurrent
// use. Open one Conn per goroutine to read in parallel.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	logger log.Logger
	path   string
	conn   *sqlite3.SQLiteConn
	closed bool
}

// Version returns the version of the linked SQLite engine, e.g. "3.46.1".
//
// https://www.sqlite.org/c3ref/libversion.html
func Version() string {
	version, _, _ := sqlite3.Version()
	return version
}

// createDSN builds the go-sqlite3 connection string for the given config.
func createDSN(config Config) string {
	busyTimeout := config.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", strconv.FormatInt(busyTimeout.Milliseconds(), 10))

	if config.ReadOnly {
		qp.Add("mode", "ro")
		qp.Add("_query_only", "true")
	}

	// A read-only connection cannot switch the journal mode.
	if !config.DisableOptimizations && !config.ReadOnly && config.Path != MemoryPath {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
	}

	return fmt.Sprintf("file:%s?%s", config.Path, qp.Encode())
}

// Open opens the database described by config, creating the file if it does
// not exist yet (unless ReadOnly is set).
//
// https://www.sqlite.org/c3ref/open.html
func Open(config Config) (*Conn, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Path == "" {
		return nil, errors.New("database path is required")
	}

	drv := &sqlite3.SQLiteDriver{}
	driverConn, err := drv.Open(createDSN(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", newExecError(err))
	}

	conn, ok := driverConn.(*sqlite3.SQLiteConn)
	if !ok {
		_ = driverConn.Close()
		return nil, fmt.Errorf("failed to open database: unexpected driver connection %T", driverConn)
	}

	config.Logger.DebugNs(log.NsDatabase, "database opened", log.KV{
		"path":     config.Path,
		"readOnly": config.ReadOnly,
	})

	return &Conn{
		logger: config.Logger,
		path:   config.Path,
		conn:   conn,
	}, nil
}

// Path returns the path the connection was opened with.
func (c *Conn) Path() string {
	return c.path
}

// Close closes the connection. Closing a closed connection is a no-op.
//
// https://www.sqlite.org/c3ref/close.html
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", newExecError(err))
	}

	c.logger.DebugNs(log.NsDatabase, "database closed", log.KV{"path": c.path})
	return nil
}

// Exec runs one or more statements that return no rows and reports the rows
// changed by the last of them.
//
// https://www.sqlite.org/c3ref/changes.html
func (c *Conn) Exec(query string) (int64, error) {
	if c.closed {
		return 0, ErrConnClosed
	}

	res, err := c.conn.Exec(query, nil)
	if err != nil {
		c.logger.DebugNs(log.NsDatabase, "statement failed", log.KV{
			"query": query,
			"error": err.Error(),
		})
		return 0, fmt.Errorf("failed to execute statement: %w", newExecError(err))
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Query runs the given query and returns a cursor positioned on its first
// row. The cursor must be finalized once no longer needed.
//
// When query holds several statements, all but the last are run through Exec
// first, stopping at the first error, and the cursor reads the last one.
func (c *Conn) Query(query string) (*Cursor, error) {
	if c.closed {
		return nil, ErrConnClosed
	}

	if stmts := SplitStatements(query); len(stmts) > 0 {
		for _, stmt := range stmts[:len(stmts)-1] {
			if _, err := c.Exec(stmt); err != nil {
				return nil, err
			}
		}
		query = stmts[len(stmts)-1]
	}

	rows, err := c.conn.Query(query, nil)
	if err != nil {
		c.logger.DebugNs(log.NsDatabase, "query failed", log.KV{
			"query": query,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to execute query: %w", newExecError(err))
	}

	return newCursor(rows, nil)
}

// QueryTable runs the given query and loads every row into a Table.
func (c *Conn) QueryTable(query string) (*Table, error) {
	cur, err := c.Query(query)
	if err != nil {
		return nil, err
	}
	return loadTable(cur)
}

// Scalar runs a query and returns the first column of its first row as an
// integer, e.g. for "SELECT count(*) FROM t". A NULL result reads as 0.
func (c *Conn) Scalar(query string) (int64, error) {
	cur, err := c.Query(query)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = cur.Finalize()
	}()

	if cur.AtEnd() || cur.ColumnCount() < 1 {
		return 0, fmt.Errorf("invalid scalar query: %q returned no value", query)
	}
	return cur.IntOr(0, 0)
}

// LastInsertRowID returns the rowid of the most recent successful INSERT on
// this connection.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (c *Conn) LastInsertRowID() (int64, error) {
	return c.Scalar("SELECT last_insert_rowid()")
}

// TableExists reports whether a table with the given name exists.
func (c *Conn) TableExists(name string) (bool, error) {
	stmt, err := c.Prepare("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?")
	if err != nil {
		return false, err
	}
	defer func() {
		_ = stmt.Finalize()
	}()

	if err := stmt.BindText(1, name); err != nil {
		return false, err
	}

	cur, err := stmt.Query()
	if err != nil {
		return false, err
	}
	defer func() {
		_ = cur.Finalize()
	}()

	count, err := cur.Int(0)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetBusyTimeout changes how long the engine retries when the database is
// locked.
//
// https://www.sqlite.org/c3ref/busy_timeout.html
func (c *Conn) SetBusyTimeout(timeout time.Duration) error {
	_, err := c.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", timeout.Milliseconds()))
	return err
}

// InTransaction reports whether an explicit transaction is open.
//
// https://www.sqlite.org/c3ref/get_autocommit.html
func (c *Conn) InTransaction() bool {
	if c.closed {
		return false
	}
	return !c.conn.AutoCommit()
}

// Transaction runs fn inside BEGIN/COMMIT. If fn returns an error the
// transaction is rolled back and the error is returned.
func (c *Conn) Transaction(fn func() error) error {
	if _, err := c.Exec("BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(); err != nil {
		if _, rbErr := c.Exec("ROLLBACK TRANSACTION"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}

	if _, err := c.Exec("COMMIT TRANSACTION"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
