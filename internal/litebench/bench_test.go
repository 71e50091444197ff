package litebench

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/nsqlite/litewrap/internal/litebench/config"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) *env {
	t.Helper()

	profile := config.DefaultProfile()
	profile.Exec.Rows = 50
	profile.Prepared.Rows = 50
	profile.Cursor.Rows = 40
	profile.Cursor.Passes = 3
	profile.Table.Rows = 40
	profile.Table.Passes = 2
	profile.Pool.Rows = 20
	profile.Pool.Readers = 4
	profile.Pool.Queries = 12
	profile.Pool.MaxConns = 2

	return &env{
		logger:  log.NewDiscardLogger(),
		profile: profile,
		dir:     t.TempDir(),
		runID:   uuid.NewString(),
		barOut:  io.Discard,
	}
}

func TestRunBenchmarks(t *testing.T) {
	e := newTestEnv(t)

	results, err := runBenchmarks(context.Background(), e, config.Config{})
	require.NoError(t, err)
	require.Len(t, results, 2*len(benchmarks))

	type totals struct {
		reads  uint64
		writes uint64
	}
	want := map[string]totals{
		"exec":     {writes: 50},
		"prepared": {writes: 50},
		"cursor":   {reads: 40 * 3},
		"table":    {reads: 40 * 2},
		"pool":     {reads: 20 * 12},
	}

	for i, r := range results {
		wantDriver := driverWrapper
		if i%2 == 1 {
			wantDriver = driverMattn
		}
		assert.Equal(t, wantDriver, r.Driver)
		assert.Equal(t, benchmarks[i/2].name, r.Name)

		w := want[r.Name]
		assert.Equal(t, w.reads, r.TotalReads, "%s reads with %s", r.Name, r.Driver)
		assert.Equal(t, w.writes, r.TotalWrites, "%s writes with %s", r.Name, r.Driver)
		assert.Positive(t, r.Duration)
	}

	pool := results[len(results)-2]
	assert.Contains(t, pool.Notes, "conns")
}

func TestRunBenchmarksOnly(t *testing.T) {
	e := newTestEnv(t)

	results, err := runBenchmarks(context.Background(), e, config.Config{Only: []string{"cursor"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cursor", results[0].Name)
	assert.Equal(t, "cursor", results[1].Name)
}

func TestRunBenchmarksCanceled(t *testing.T) {
	e := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runBenchmarks(ctx, e, config.Config{Only: []string{"exec"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintResults(t *testing.T) {
	out := &bytes.Buffer{}
	printResults(out, []benchmarkResult{
		{Name: "exec", Driver: driverWrapper, TotalWrites: 12345},
		{Name: "exec", Driver: driverMattn, TotalWrites: 12345},
		{Name: "pool", Driver: driverWrapper, TotalReads: 1000, Notes: "2 conns, 5 waits"},
	})

	got := out.String()
	assert.Contains(t, got, "Driver")
	assert.Contains(t, got, "12,345")
	assert.Contains(t, got, "database/sql")
	assert.Contains(t, got, "2 conns, 5 waits")
}

func TestFanOut(t *testing.T) {
	var calls int64
	err := fanOut(context.Background(), 3, 10, func() error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, atomic.LoadInt64(&calls))

	err = fanOut(context.Background(), 2, 4, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
