package litebench

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
)

// createWrapperDriver opens a litewrap connection on path with a fresh schema.
func createWrapperDriver(logger log.Logger, path string) (*sqlite.Conn, error) {
	conn, err := sqlite.Open(sqlite.Config{Logger: logger, Path: path})
	if err != nil {
		return nil, err
	}

	err = recreateSchema(func(query string) error {
		_, err := conn.Exec(query)
		return err
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// createMattnDriver opens a database/sql handle on path with the same
// pragmas litewrap applies, and a fresh schema.
func createMattnDriver(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=true&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL",
		path,
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	err = recreateSchema(func(query string) error {
		_, err := db.Exec(query)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// seedWrapper inserts rows users through a prepared statement in a single
// transaction.
func seedWrapper(conn *sqlite.Conn, rows int) error {
	stmt, err := conn.Prepare(insertUserQuery)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Finalize()
	}()

	return conn.Transaction(func() error {
		for idx := range rows {
			if err := bindUser(stmt, idx); err != nil {
				return err
			}
			if _, err := stmt.Exec(); err != nil {
				return err
			}
		}
		return nil
	})
}

// seedMattn is seedWrapper for database/sql.
func seedMattn(db *sql.DB, rows int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(insertUserQuery)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for idx := range rows {
		if _, err := stmt.Exec(userArgs(idx)...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
