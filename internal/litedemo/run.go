package litedemo

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqlite/litewrap/internal/litedemo/config"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/version"
)

// Run runs the litedemo CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.DemoVersion(sqlite.Version()))

	demo, err := New(Options{
		Logger: log.NewLogger(os.Stderr, conf.Debug),
		Out:    os.Stdout,
		Path:   conf.Database,
		Rows:   conf.Rows,
	})
	if err != nil {
		return err
	}

	return demo.Run(ctx)
}
