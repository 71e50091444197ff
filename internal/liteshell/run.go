package liteshell

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqlite/litewrap/internal/liteshell/config"
	"github.com/nsqlite/litewrap/internal/log"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/version"
)

// Run runs the liteshell CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.ShellVersion(sqlite.Version()))

	logger := log.NewLogger(os.Stderr, conf.Debug)
	conn, err := sqlite.Open(sqlite.Config{
		Logger:      logger,
		Path:        conf.Database,
		ReadOnly:    conf.ReadOnly,
		BusyTimeout: conf.BusyTimeout,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	rp, err := NewRepl(ctx, stop, conf, conn, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer rp.Shutdown()

	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
