package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Parse([]string{})
		require.NoError(t, err)
		assert.Equal(t, ":memory:", cfg.Database)
		assert.Equal(t, "table", cfg.Mode)
		assert.Equal(t, 5*time.Second, cfg.BusyTimeout)
		assert.False(t, cfg.ReadOnly)
	})

	t.Run("Positional", func(t *testing.T) {
		cfg, err := Parse([]string{"emp.db", "--read-only", "--mode", "list"})
		require.NoError(t, err)
		assert.Equal(t, "emp.db", cfg.Database)
		assert.True(t, cfg.ReadOnly)
		assert.Equal(t, "list", cfg.Mode)
	})

	t.Run("InvalidMode", func(t *testing.T) {
		_, err := Parse([]string{"--mode", "csv"})
		assert.Error(t, err)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{
			name:  "table",
			input: "table",
			want:  ModeTable,
		},
		{
			name:  "upper case with spaces",
			input: " LINE ",
			want:  ModeLine,
		},
		{
			name:  "list",
			input: "list",
			want:  ModeList,
		},
		{
			name:    "unknown",
			input:   "csv",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []string{"table", "line", "list"}, ModeNames())
}
