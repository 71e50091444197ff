package litebench

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/nsqlite/litewrap/internal/litebench/benchbar"
	"github.com/nsqlite/litewrap/internal/litebench/config"
	"github.com/nsqlite/litewrap/internal/log"
)

// Drivers compared by every benchmark.
const (
	driverWrapper = "litewrap"
	driverMattn   = "database/sql"
)

// benchmarkResult stores the outcome of a benchmark.
type benchmarkResult struct {
	Name        string
	Driver      string
	Duration    time.Duration
	TotalReads  uint64
	TotalWrites uint64
	Notes       string
}

// env is shared by the benchmarks of one run.
type env struct {
	logger  log.Logger
	profile config.Profile
	dir     string
	runID   string
	// barOut receives the progress bars.
	barOut io.Writer
}

// dbPath returns a database file unique to the benchmark, driver and run.
func (e *env) dbPath(name, driver string) string {
	if driver == driverMattn {
		driver = "mattn"
	}
	return filepath.Join(e.dir, fmt.Sprintf("%s-%s-%s.db", name, driver, e.runID))
}

func (e *env) newBar(description string, maxItems int) *benchbar.ProgressBar {
	return benchbar.NewBar(e.barOut, description, maxItems)
}

type benchmark struct {
	name string
	run  func(ctx context.Context, e *env) ([]benchmarkResult, error)
}

var benchmarks = []benchmark{
	{name: "exec", run: runBenchmarkExec},
	{name: "prepared", run: runBenchmarkPrepared},
	{name: "cursor", run: runBenchmarkCursor},
	{name: "table", run: runBenchmarkTable},
	{name: "pool", run: runBenchmarkPool},
}

// counts is what a benchmark body reports back to measure.
type counts struct {
	reads  uint64
	writes uint64
	notes  string
}

// measure times fn and turns its counts into a result.
func measure(name, driver string, fn func() (counts, error)) (benchmarkResult, error) {
	start := time.Now()
	c, err := fn()
	if err != nil {
		return benchmarkResult{}, fmt.Errorf("%s benchmark with %s: %w", name, driver, err)
	}

	return benchmarkResult{
		Name:        name,
		Driver:      driver,
		Duration:    time.Since(start),
		TotalReads:  c.reads,
		TotalWrites: c.writes,
		Notes:       c.notes,
	}, nil
}
