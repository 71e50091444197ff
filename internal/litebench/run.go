package litebench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/litewrap/internal/litebench/config"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/styled"
	"github.com/nsqlite/litewrap/internal/util/numutil"
	"github.com/nsqlite/litewrap/internal/version"
)

// Run runs every selected benchmark against litewrap and database/sql and
// prints the results.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.BenchVersion(sqlite.Version()))

	profile, err := config.LoadProfile(conf.Profile)
	if err != nil {
		return err
	}

	dir := conf.Dir
	if dir == "" {
		tmpDir, err := os.MkdirTemp("", "litebench_*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)
		dir = tmpDir
	}
	fmt.Println("Benchmark databases directory:", dir)

	e := &env{
		logger:  log.NewLogger(os.Stderr, conf.Debug),
		profile: profile,
		dir:     dir,
		runID:   uuid.NewString(),
		barOut:  os.Stderr,
	}

	results, err := runBenchmarks(ctx, e, conf)
	if err != nil {
		return err
	}

	printResults(os.Stdout, results)
	return nil
}

// runBenchmarks executes the selected benchmarks in order, and returns
// results.
func runBenchmarks(ctx context.Context, e *env, conf config.Config) ([]benchmarkResult, error) {
	var results []benchmarkResult

	for _, bench := range benchmarks {
		if !conf.Selected(bench.name) {
			continue
		}

		e.logger.InfoNs(log.NsBench, "running benchmark", log.KV{"name": bench.name, "run": e.runID})
		res, err := bench.run(ctx, e)
		if err != nil {
			return nil, err
		}
		results = append(results, res...)
	}

	return results, nil
}

func printResults(w io.Writer, results []benchmarkResult) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Name", "Driver", "Reads", "Writes", "Duration", "Notes"})

	for i, r := range results {
		if i > 0 && results[i-1].Name != r.Name {
			tw.AppendSeparator()
		}
		tw.AppendRow(table.Row{
			r.Name,
			r.Driver,
			numutil.IntWithCommas(r.TotalReads),
			numutil.IntWithCommas(r.TotalWrites),
			r.Duration,
			r.Notes,
		})
	}

	fmt.Fprintln(w, tw.Render())
}
