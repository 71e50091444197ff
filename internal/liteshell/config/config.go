package config

import (
	"fmt"
	"log"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/version"
)

// Config represents the configuration for liteshell.
type Config struct {
	Database    string        `arg:"positional" help:"Path of the SQLite database file (default to an in-memory database)" default:":memory:"`
	ReadOnly    bool          `arg:"--read-only,env:LITESHELL_READ_ONLY" help:"Open the database without write access" default:"false"`
	Mode        string        `arg:"--mode,env:LITESHELL_MODE" help:"Output mode for query results (table, line, list)" default:"table"`
	BusyTimeout time.Duration `arg:"--busy-timeout,env:LITESHELL_BUSY_TIMEOUT" help:"How long to wait for a locked database. Valid time units are ms, s, m" default:"5s"`
	Debug       bool          `arg:"--debug,env:LITESHELL_DEBUG" help:"Write debug logs to stderr" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.ShellVersion(sqlite.Version()))
}

// Parse parses and validates the configuration from the command line
// arguments, without the program name.
func Parse(args []string) (Config, error) {
	cfg := Config{}

	parser, err := arg.NewParser(arg.Config{}, &cfg)
	if err != nil {
		return Config{}, err
	}
	if err := parser.Parse(args); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(arg.Config{}, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validate(cfg); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func validate(cfg Config) error {
	if _, err := ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.BusyTimeout < 0 {
		return fmt.Errorf("invalid busy timeout, must not be negative")
	}
	return nil
}
