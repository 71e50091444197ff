package config

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nsqlite/litewrap/internal/sqlite"
	"github.com/nsqlite/litewrap/internal/version"
)

// BenchmarkNames lists every benchmark in the order they run.
var BenchmarkNames = []string{"exec", "prepared", "cursor", "table", "pool"}

// Config represents the configuration for litebench.
type Config struct {
	Profile string   `arg:"--profile,env:LITEBENCH_PROFILE" help:"YAML file overriding the benchmark sizes"`
	Dir     string   `arg:"--dir,env:LITEBENCH_DIR" help:"Directory for the benchmark databases (default to a new temporary directory)"`
	Only    []string `arg:"--only,separate" help:"Run only the named benchmark (exec, prepared, cursor, table, pool), can be repeated"`
	Debug   bool     `arg:"--debug,env:LITEBENCH_DEBUG" help:"Write debug logs to stderr" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.BenchVersion(sqlite.Version()))
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

	if err := validateOnly(cfg.Only); err != nil {
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

	if err := validateOnly(cfg.Only); err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Selected reports whether the named benchmark should run.
func (c Config) Selected(name string) bool {
	return len(c.Only) == 0 || slices.Contains(c.Only, name)
}

// validateOnly validates if every name is a known benchmark.
func validateOnly(names []string) error {
	for _, name := range names {
		if !slices.Contains(BenchmarkNames, name) {
			return fmt.Errorf(
				"invalid benchmark %q, valid values are: %s",
				name, strings.Join(BenchmarkNames, ", "),
			)
		}
	}
	return nil
}
