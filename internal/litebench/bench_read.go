package litebench

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
)

// readSetup seeds X users for both drivers and hands the open handles to the
// measured bodies.
func readSetup(
	e *env, name string, rows int,
	wrapperFn func(conn *sqlite.Conn) (benchmarkResult, error),
	mattnFn func(db *sql.DB) (benchmarkResult, error),
) ([]benchmarkResult, error) {
	conn, err := createWrapperDriver(e.logger, e.dbPath(name, driverWrapper))
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if err := seedWrapper(conn, rows); err != nil {
		return nil, fmt.Errorf("error when seeding: %w", err)
	}
	e.logger.DebugNs(log.NsBench, "seeded users", log.KV{"benchmark": name, "driver": driverWrapper, "rows": rows})

	wrapper, err := wrapperFn(conn)
	if err != nil {
		return nil, err
	}

	db, err := createMattnDriver(e.dbPath(name, driverMattn))
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if err := seedMattn(db, rows); err != nil {
		return nil, fmt.Errorf("error when seeding: %w", err)
	}
	e.logger.DebugNs(log.NsBench, "seeded users", log.KV{"benchmark": name, "driver": driverMattn, "rows": rows})

	mattn, err := mattnFn(db)
	if err != nil {
		return nil, err
	}

	return []benchmarkResult{wrapper, mattn}, nil
}

// runBenchmarkCursor streams all X users Y times through a cursor.
func runBenchmarkCursor(ctx context.Context, e *env) ([]benchmarkResult, error) {
	rows, passes := e.profile.Cursor.Rows, e.profile.Cursor.Passes
	desc := fmt.Sprintf("Streaming %d users %d times", rows, passes)

	return readSetup(e, "cursor", rows,
		func(conn *sqlite.Conn) (benchmarkResult, error) {
			return measure("cursor", driverWrapper, func() (counts, error) {
				bar := e.newBar(desc, passes)
				defer bar.Finish()

				var c counts
				for range passes {
					if err := ctx.Err(); err != nil {
						return c, err
					}
					n, err := streamWrapper(conn)
					if err != nil {
						return c, err
					}
					c.reads += n
					bar.Inc()
				}
				return c, nil
			})
		},
		func(db *sql.DB) (benchmarkResult, error) {
			return measure("cursor", driverMattn, func() (counts, error) {
				bar := e.newBar(desc, passes)
				defer bar.Finish()

				var c counts
				for range passes {
					users, err := scanMattn(ctx, db, nil)
					if err != nil {
						return c, err
					}
					c.reads += uint64(users)
					bar.Inc()
				}
				return c, nil
			})
		},
	)
}

// runBenchmarkTable loads all X users into memory Y times and then walks
// them.
func runBenchmarkTable(ctx context.Context, e *env) ([]benchmarkResult, error) {
	rows, passes := e.profile.Table.Rows, e.profile.Table.Passes
	desc := fmt.Sprintf("Materializing %d users %d times", rows, passes)

	return readSetup(e, "table", rows,
		func(conn *sqlite.Conn) (benchmarkResult, error) {
			return measure("table", driverWrapper, func() (counts, error) {
				bar := e.newBar(desc, passes)
				defer bar.Finish()

				var c counts
				for range passes {
					if err := ctx.Err(); err != nil {
						return c, err
					}
					n, err := materializeWrapper(conn)
					if err != nil {
						return c, err
					}
					c.reads += n
					bar.Inc()
				}
				return c, nil
			})
		},
		func(db *sql.DB) (benchmarkResult, error) {
			return measure("table", driverMattn, func() (counts, error) {
				bar := e.newBar(desc, passes)
				defer bar.Finish()

				var c counts
				for range passes {
					var users []user
					if _, err := scanMattn(ctx, db, &users); err != nil {
						return c, err
					}
					c.reads += uint64(len(users))
					bar.Inc()
				}
				return c, nil
			})
		},
	)
}

// streamWrapper reads every user through a cursor and returns how many rows
// it read.
func streamWrapper(conn *sqlite.Conn) (uint64, error) {
	cur, err := conn.Query(selectUsersQuery)
	if err != nil {
		return 0, fmt.Errorf("error when querying: %w", err)
	}
	defer func() { _ = cur.Finalize() }()

	var reads uint64
	for !cur.AtEnd() {
		if _, err := readUser(cur); err != nil {
			return reads, fmt.Errorf("error when reading: %w", err)
		}
		reads++

		if err := cur.Next(); err != nil {
			return reads, fmt.Errorf("error when reading: %w", err)
		}
	}
	return reads, nil
}

// materializeWrapper loads every user into a Table and reads each row back.
func materializeWrapper(conn *sqlite.Conn) (uint64, error) {
	tbl, err := conn.QueryTable(selectUsersQuery)
	if err != nil {
		return 0, fmt.Errorf("error when querying: %w", err)
	}
	defer func() { _ = tbl.Finalize() }()

	var reads uint64
	for row := range tbl.RowCount() {
		if err := tbl.SelectRow(row); err != nil {
			return reads, err
		}
		if _, err := readUser(tbl); err != nil {
			return reads, fmt.Errorf("error when reading: %w", err)
		}
		reads++
	}
	return reads, nil
}

// scanMattn scans every user with database/sql, appending them to dst when
// it is not nil, and returns how many rows it scanned.
func scanMattn(ctx context.Context, db *sql.DB, dst *[]user) (int, error) {
	rows, err := db.QueryContext(ctx, selectUsersQuery)
	if err != nil {
		return 0, fmt.Errorf("error when querying: %w", err)
	}
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		var u user
		if err := rows.Scan(&u.id, &u.created, &u.email, &u.active); err != nil {
			return n, fmt.Errorf("error when scanning: %w", err)
		}
		if dst != nil {
			*dst = append(*dst, u)
		}
		n++
	}
	return n, rows.Err()
}
