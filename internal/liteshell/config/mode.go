package config

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Mode is the way liteshell prints query results.
type Mode enum.Member[string]

var (
	// ModeTable draws a bordered table.
	ModeTable = Mode{Value: "table"}
	// ModeLine prints one "column = value" line per cell.
	ModeLine = Mode{Value: "line"}
	// ModeList prints one row per line with cells separated by "|".
	ModeList = Mode{Value: "list"}

	modes = enum.New(ModeTable, ModeLine, ModeList)
)

// ParseMode returns the Mode with the given name.
func ParseMode(name string) (Mode, error) {
	m := modes.Parse(strings.ToLower(strings.TrimSpace(name)))
	if m == nil {
		return Mode{}, fmt.Errorf("invalid mode %q, valid values are: %s", name, strings.Join(ModeNames(), ", "))
	}
	return *m, nil
}

// ModeNames returns the names of every mode.
func ModeNames() []string {
	names := []string{}
	for _, m := range modes.Members() {
		names = append(names, m.Value)
	}
	return names
}

func (m Mode) String() string {
	return m.Value
}
