package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/version"
)

// Config represents the configuration for litedemo.
type Config struct {
	Database string `arg:"-d,--database,env:LITEDEMO_DATABASE" help:"Database file used by the demo; it is removed before each scenario" default:"test.db"`
	Rows     int    `arg:"-r,--rows,env:LITEDEMO_ROWS" help:"Number of rows inserted by the transaction tests" default:"1000"`
	Debug    bool   `arg:"--debug,env:LITEDEMO_DEBUG" help:"Write debug logs to stderr" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.DemoVersion(sqlite.Version()))
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

	if err := validateDatabase(cfg.Database); err != nil {
		return Config{}, err
	}
	if err := validateRows(cfg.Rows); err != nil {
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

	if err := validateDatabase(cfg.Database); err != nil {
		log.Fatal(err)
	}
	if err := validateRows(cfg.Rows); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validateDatabase rejects the in-memory path, the demo reopens the file
// between scenarios.
func validateDatabase(path string) error {
	if path == "" {
		return errors.New("invalid database, path is required")
	}
	if path == sqlite.MemoryPath {
		return errors.New("invalid database, the demo needs a file")
	}
	return nil
}

// validateRows validates if rows is greater than zero.
func validateRows(rows int) error {
	if rows <= 0 {
		return errors.New("invalid rows, must be greater than zero")
	}
	return nil
}
