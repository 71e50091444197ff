package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Profile holds the sizes of every benchmark.
//
// A profile file only needs the keys it overrides:
//
//	cursor:
//	  rows: 5000
//	pool:
//	  readers: 16
type Profile struct {
	Exec struct {
		Rows int `mapstructure:"rows"`
	} `mapstructure:"exec"`

	Prepared struct {
		Rows int `mapstructure:"rows"`
	} `mapstructure:"prepared"`

	Cursor struct {
		Rows   int `mapstructure:"rows"`
		Passes int `mapstructure:"passes"`
	} `mapstructure:"cursor"`

	Table struct {
		Rows   int `mapstructure:"rows"`
		Passes int `mapstructure:"passes"`
	} `mapstructure:"table"`

	Pool struct {
		Rows     int `mapstructure:"rows"`
		Readers  int `mapstructure:"readers"`
		Queries  int `mapstructure:"queries"`
		MaxConns int `mapstructure:"max_conns"`
	} `mapstructure:"pool"`
}

func setProfileDefaults(v *viper.Viper) {
	v.SetDefault("exec.rows", 100_000)
	v.SetDefault("prepared.rows", 100_000)
	v.SetDefault("cursor.rows", 100_000)
	v.SetDefault("cursor.passes", 10)
	v.SetDefault("table.rows", 100_000)
	v.SetDefault("table.passes", 10)
	v.SetDefault("pool.rows", 10_000)
	v.SetDefault("pool.readers", 8)
	v.SetDefault("pool.queries", 1_000)
	v.SetDefault("pool.max_conns", 4)
}

// DefaultProfile returns the built-in benchmark sizes.
func DefaultProfile() Profile {
	profile, err := LoadProfile("")
	if err != nil {
		// The defaults are constants, they always decode.
		panic(err)
	}
	return profile
}

// LoadProfile reads the YAML profile at path on top of the defaults. An empty
// path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	v := viper.New()
	setProfileDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Profile{}, fmt.Errorf("read profile: %w", err)
		}
	}

	var profile Profile
	if err := v.Unmarshal(&profile); err != nil {
		return Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}

	if err := profile.validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p Profile) validate() error {
	sizes := []struct {
		key   string
		value int
	}{
		{"exec.rows", p.Exec.Rows},
		{"prepared.rows", p.Prepared.Rows},
		{"cursor.rows", p.Cursor.Rows},
		{"cursor.passes", p.Cursor.Passes},
		{"table.rows", p.Table.Rows},
		{"table.passes", p.Table.Passes},
		{"pool.rows", p.Pool.Rows},
		{"pool.readers", p.Pool.Readers},
		{"pool.queries", p.Pool.Queries},
		{"pool.max_conns", p.Pool.MaxConns},
	}

	var errs []error
	for _, s := range sizes {
		if s.value <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s, must be greater than zero", s.key))
		}
	}
	return errors.Join(errs...)
}
