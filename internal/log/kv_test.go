package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKvToArgs(t *testing.T) {
	tests := []struct {
		name    string
		keyVals []KV
		want    []any
	}{
		{"NoArgs", nil, []any{}},
		{"EmptyKV", []KV{{}}, []any{}},
		{"OneArg", []KV{{"rows": 25}}, []any{"rows", 25}},
		{
			"SortedByKey",
			[]KV{{"query": "SELECT 1", "error": "no such table: emp", "driver": "litewrap"}},
			[]any{"driver", "litewrap", "error", "no such table: emp", "query", "SELECT 1"},
		},
		{
			"PickOnlyFirst",
			[]KV{{"benchmark": "pool"}, {"rows": 10}},
			[]any{"benchmark", "pool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kvToArgs(tt.keyVals...))
		})
	}
}

func TestKvToArgsNs(t *testing.T) {
	tests := []struct {
		namespace string
		keyVals   []KV
		want      []any
	}{
		{NsDatabase, []KV{{"query": "SELECT 1", "error": "boom"}}, []any{"ns", "database", "error", "boom", "query", "SELECT 1"}},
		{NsDemo, []KV{{"step": "Binary test"}}, []any{"ns", "demo", "step", "Binary test"}},
		{NsShell, nil, []any{"ns", "shell"}},
		{NsBench, []KV{{"rows": 20, "benchmark": "cursor"}, {"ignored": true}}, []any{"ns", "bench", "benchmark", "cursor", "rows", 20}},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.want, kvToArgsNs(tt.namespace, tt.keyVals...))
		})
	}
}

func TestNamespacesAreDistinct(t *testing.T) {
	namespaces := []string{NsDatabase, NsDemo, NsShell, NsBench}

	seen := map[string]bool{}
	for _, ns := range namespaces {
		assert.NotEmpty(t, ns)
		assert.False(t, seen[ns], "namespace %q used twice", ns)
		seen[ns] = true
	}
}
