package litebench

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/pooler"
	"github.com/nsqlite/litewrap/internal/sqlite"
)

// runBenchmarkPool seeds X users and then runs Y full reads from Z goroutines
// sharing at most W connections. This simulates a read-heavy workload.
func runBenchmarkPool(ctx context.Context, e *env) ([]benchmarkResult, error) {
	conf := e.profile.Pool
	desc := fmt.Sprintf(
		"Querying %d users %d times from %d goroutines", conf.Rows, conf.Queries, conf.Readers,
	)

	return readSetup(e, "pool", conf.Rows,
		func(writer *sqlite.Conn) (benchmarkResult, error) {
			pool, err := pooler.NewPool(pooler.Config[*sqlite.Conn]{
				MaxItems: conf.MaxConns,
				MaxIdle:  conf.MaxConns,
				NewFunc: func() (*sqlite.Conn, error) {
					return sqlite.Open(sqlite.Config{
						Logger:   e.logger,
						Path:     writer.Path(),
						ReadOnly: true,
					})
				},
				CloseFunc: func(conn *sqlite.Conn) error {
					return conn.Close()
				},
			})
			if err != nil {
				return benchmarkResult{}, err
			}
			defer func() { _ = pool.Close() }()

			return measure("pool", driverWrapper, func() (counts, error) {
				bar := e.newBar(desc, conf.Queries)
				defer bar.Finish()

				var reads uint64
				err := fanOut(ctx, conf.Readers, conf.Queries, func() error {
					return pool.Do(func(conn *sqlite.Conn) error {
						n, err := streamWrapper(conn)
						atomic.AddUint64(&reads, n)
						if err == nil {
							bar.Inc()
						}
						return err
					})
				})

				stats := pool.Stats()
				e.logger.DebugNs(log.NsBench, "pool stats", log.KV{
					"created": stats.Created,
					"waits":   stats.Waits,
					"idle":    stats.Idle,
				})

				return counts{
					reads: atomic.LoadUint64(&reads),
					notes: fmt.Sprintf("%d conns, %d waits", stats.Created, stats.Waits),
				}, err
			})
		},
		func(db *sql.DB) (benchmarkResult, error) {
			db.SetMaxOpenConns(conf.MaxConns)
			db.SetMaxIdleConns(conf.MaxConns)

			return measure("pool", driverMattn, func() (counts, error) {
				bar := e.newBar(desc, conf.Queries)
				defer bar.Finish()

				var reads uint64
				err := fanOut(ctx, conf.Readers, conf.Queries, func() error {
					n, err := scanMattn(ctx, db, nil)
					atomic.AddUint64(&reads, uint64(n))
					if err == nil {
						bar.Inc()
					}
					return err
				})

				stats := db.Stats()
				return counts{
					reads: atomic.LoadUint64(&reads),
					notes: fmt.Sprintf("%d conns, %d waits", stats.OpenConnections, stats.WaitCount),
				}, err
			})
		},
	)
}

// fanOut calls fn jobs times from at most workers goroutines at once and
// returns the first error.
func fanOut(ctx context.Context, workers int, jobs int, fn func() error) error {
	wg := sync.WaitGroup{}
	wgch := make(chan bool, workers)
	errChan := make(chan error, jobs)

	for range jobs {
		if err := ctx.Err(); err != nil {
			errChan <- err
			break
		}

		wg.Add(1)
		wgch <- true

		go func() {
			defer func() {
				wg.Done()
				<-wgch
			}()

			if err := fn(); err != nil {
				errChan <- err
			}
		}()
	}

	wg.Wait()
	close(wgch)
	close(errChan)

	for e := range errChan {
		if e != nil {
			return fmt.Errorf("error when querying: %w", e)
		}
	}
	return nil
}
