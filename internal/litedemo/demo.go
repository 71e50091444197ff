package litedemo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/styled"
)

// Options represents the options for New.
type Options struct {
	Logger log.Logger
	// Out receives the demo output.
	Out io.Writer
	// Path is the database file, removed before each scenario.
	Path string
	// Rows is the number of rows inserted by the transaction tests.
	Rows int
}

// Demo walks through the wrapper API against a scratch database and writes
// what it does to Out.
type Demo struct {
	logger log.Logger
	out    io.Writer
	path   string
	rows   int
	conn   *sqlite.Conn
}

type step struct {
	title string
	run   func() error
}

type scenario struct {
	name  string
	steps func() []step
}

// New returns a new Demo.
func New(opts Options) (*Demo, error) {
	if !opts.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if opts.Out == nil {
		return nil, errors.New("output writer is required")
	}
	if opts.Path == "" || opts.Path == sqlite.MemoryPath {
		return nil, errors.New("a database file is required")
	}
	if opts.Rows <= 0 {
		return nil, errors.New("rows must be greater than zero")
	}

	return &Demo{
		logger: opts.Logger,
		out:    opts.Out,
		path:   opts.Path,
		rows:   opts.Rows,
	}, nil
}

// Run runs every scenario in order, each one on a fresh database file.
func (d *Demo) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "SQLite Version: %s\n", sqlite.Version())

	scenarios := []scenario{
		{name: "employees", steps: d.employeeSteps},
		{name: "parts", steps: d.partSteps},
	}

	for _, sc := range scenarios {
		if err := d.runScenario(ctx, sc); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.name, err)
		}
	}

	d.heading("End of tests")
	return nil
}

func (d *Demo) runScenario(ctx context.Context, sc scenario) error {
	if err := d.open(); err != nil {
		return err
	}
	defer d.close()

	for _, s := range sc.steps() {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.logger.DebugNs(log.NsDemo, "running step", log.KV{
			"scenario": sc.name,
			"step":     s.title,
		})

		d.heading(s.title)
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.title, err)
		}
	}

	return nil
}

// open removes the database file with its journals and opens it again.
func (d *Demo) open() error {
	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(d.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove database file: %w", err)
		}
	}

	conn, err := sqlite.Open(sqlite.Config{
		Logger: d.logger,
		Path:   d.path,
	})
	if err != nil {
		return err
	}

	d.conn = conn
	return nil
}

func (d *Demo) close() {
	if d.conn == nil {
		return
	}
	if err := d.conn.Close(); err != nil {
		d.logger.ErrorNs(log.NsDemo, "failed to close database", log.KV{"error": err.Error()})
	}
	d.conn = nil
}

func (d *Demo) heading(title string) {
	styled.HeadingColor().Fprintf(d.out, "\n%s\n", title)
}

func (d *Demo) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

// exec runs a statement and reports how many rows it touched with verb,
// e.g. "1 rows inserted".
func (d *Demo) exec(query string, verb string) error {
	affected, err := d.conn.Exec(query)
	if err != nil {
		return err
	}
	d.printf("%d rows %s\n", affected, verb)
	return nil
}
