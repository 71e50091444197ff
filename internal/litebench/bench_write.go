package litebench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nsqlite/litewrap/internal/sqlite"
)

func userArgs(idx int) []any {
	return []any{time.Now().Unix(), userEmail(idx), 1}
}

func bindUser(stmt *sqlite.Stmt, idx int) error {
	if err := stmt.BindInt(1, time.Now().Unix()); err != nil {
		return err
	}
	if err := stmt.BindText(2, userEmail(idx)); err != nil {
		return err
	}
	return stmt.BindInt(3, 1)
}

// runBenchmarkExec inserts X users one complete statement at a time inside a
// single transaction.
func runBenchmarkExec(ctx context.Context, e *env) ([]benchmarkResult, error) {
	rows := e.profile.Exec.Rows

	conn, err := createWrapperDriver(e.logger, e.dbPath("exec", driverWrapper))
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	wrapper, err := measure("exec", driverWrapper, func() (counts, error) {
		bar := e.newBar(fmt.Sprintf("Inserting %d users with Exec", rows), rows)
		defer bar.Finish()

		var c counts
		err := conn.Transaction(func() error {
			for idx := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				affected, err := conn.Exec(insertUserSQL(idx))
				if err != nil {
					return err
				}
				c.writes += uint64(affected)
				bar.Inc()
			}
			return nil
		})
		return c, err
	})
	if err != nil {
		return nil, err
	}

	db, err := createMattnDriver(e.dbPath("exec", driverMattn))
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	mattn, err := measure("exec", driverMattn, func() (counts, error) {
		bar := e.newBar(fmt.Sprintf("Inserting %d users with tx.Exec", rows), rows)
		defer bar.Finish()

		return inTx(ctx, db, func(tx *sql.Tx) (counts, error) {
			var c counts
			for idx := range rows {
				res, err := tx.ExecContext(ctx, insertUserSQL(idx))
				if err != nil {
					return c, err
				}
				affected, err := res.RowsAffected()
				if err != nil {
					return c, err
				}
				c.writes += uint64(affected)
				bar.Inc()
			}
			return c, nil
		})
	})
	if err != nil {
		return nil, err
	}

	return []benchmarkResult{wrapper, mattn}, nil
}

// runBenchmarkPrepared inserts X users by rebinding one prepared statement
// inside a single transaction.
func runBenchmarkPrepared(ctx context.Context, e *env) ([]benchmarkResult, error) {
	rows := e.profile.Prepared.Rows

	conn, err := createWrapperDriver(e.logger, e.dbPath("prepared", driverWrapper))
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	wrapper, err := measure("prepared", driverWrapper, func() (counts, error) {
		bar := e.newBar(fmt.Sprintf("Inserting %d users with a bound statement", rows), rows)
		defer bar.Finish()

		stmt, err := conn.Prepare(insertUserQuery)
		if err != nil {
			return counts{}, err
		}
		defer func() { _ = stmt.Finalize() }()

		var c counts
		err = conn.Transaction(func() error {
			for idx := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := bindUser(stmt, idx); err != nil {
					return err
				}
				affected, err := stmt.Exec()
				if err != nil {
					return err
				}
				c.writes += uint64(affected)
				bar.Inc()
			}
			return nil
		})
		return c, err
	})
	if err != nil {
		return nil, err
	}

	db, err := createMattnDriver(e.dbPath("prepared", driverMattn))
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	mattn, err := measure("prepared", driverMattn, func() (counts, error) {
		bar := e.newBar(fmt.Sprintf("Inserting %d users with tx.Prepare", rows), rows)
		defer bar.Finish()

		return inTx(ctx, db, func(tx *sql.Tx) (counts, error) {
			stmt, err := tx.PrepareContext(ctx, insertUserQuery)
			if err != nil {
				return counts{}, err
			}
			defer func() { _ = stmt.Close() }()

			var c counts
			for idx := range rows {
				res, err := stmt.ExecContext(ctx, userArgs(idx)...)
				if err != nil {
					return c, err
				}
				affected, err := res.RowsAffected()
				if err != nil {
					return c, err
				}
				c.writes += uint64(affected)
				bar.Inc()
			}
			return c, nil
		})
	})
	if err != nil {
		return nil, err
	}

	return []benchmarkResult{wrapper, mattn}, nil
}

// inTx runs fn in a database/sql transaction, committing when it succeeds.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (counts, error)) (counts, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return counts{}, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := fn(tx)
	if err != nil {
		return counts{}, err
	}
	return c, tx.Commit()
}
