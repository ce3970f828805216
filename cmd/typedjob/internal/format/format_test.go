// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := New(&stdout, &stderr, ModeTable, false, false)
	require.NotNil(t, f)
	require.False(t, f.IsStructured())
}

func TestPrintJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "simple object",
			data: map[string]string{
				"input":  "42",
				"output": "43",
			},
			expected: `{
  "input": "42",
  "output": "43"
}
`,
		},
		{
			name: "array",
			data: []string{"a", "b"},
			expected: `[
  "a",
  "b"
]
`,
		},
		{
			name:     "nil",
			data:     nil,
			expected: "null\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			f := New(&stdout, &stderr, ModeJSON, false, false)

			require.NoError(t, f.PrintJSON(tt.data))
			require.Equal(t, tt.expected, stdout.String())
			require.Empty(t, stderr.String())
		})
	}
}

func TestPrintYAML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	f := New(&stdout, &stderr, ModeYAML, false, false)

	require.NoError(t, f.PrintYAML(map[string]int{"workers": 4}))
	require.Equal(t, "workers: 4\n", stdout.String())
}

func TestPrintTable(t *testing.T) {
	headers := []string{"ID", "Output"}
	rows := [][]string{{"a", "1"}, {"b", "2"}}

	t.Run("table mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, false, false)

		require.NoError(t, f.PrintTable(headers, rows))
		require.Equal(t, "ID  Output\na   1\nb   2\n", stdout.String())
	})

	t.Run("json mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeJSON, false, false)

		require.NoError(t, f.PrintTable(headers, rows))
		var items []map[string]string
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &items))
		require.Len(t, items, 2)
		require.Equal(t, "2", items[1]["Output"])
	})

	t.Run("yaml mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeYAML, false, false)

		require.NoError(t, f.PrintTable(headers, rows))
		var items []map[string]string
		require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &items))
		require.Len(t, items, 2)
		require.Equal(t, "a", items[0]["ID"])
	})

	t.Run("empty rows in json mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeJSON, false, false)

		require.NoError(t, f.PrintTable(headers, nil))
		require.Equal(t, "[]\n", stdout.String())
	})
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name       string
		mode       OutputMode
		quiet      bool
		wantStdout bool
		wantStderr bool
	}{
		{name: "table mode", mode: ModeTable, wantStdout: true},
		{name: "json mode goes to stderr", mode: ModeJSON, wantStderr: true},
		{name: "yaml mode goes to stderr", mode: ModeYAML, wantStderr: true},
		{name: "quiet mode", mode: ModeTable, quiet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			f := New(&stdout, &stderr, tt.mode, tt.quiet, false)

			require.NoError(t, f.PrintSummary("3 jobs done"))
			require.Equal(t, tt.wantStdout, stdout.Len() > 0)
			require.Equal(t, tt.wantStderr, stderr.Len() > 0)
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, false, false)
		require.NoError(t, f.PrintError(nil))
		require.Empty(t, stdout.String())
		require.Empty(t, stderr.String())
	})

	t.Run("table mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, false, false)
		require.NoError(t, f.PrintError(errors.New("boom")))
		require.Equal(t, "Error: boom\n", stderr.String())
		require.Empty(t, stdout.String())
	})

	t.Run("json mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeJSON, false, false)
		require.NoError(t, f.PrintError(errors.New("boom")))

		var out map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
		require.Equal(t, false, out["success"])
		require.Equal(t, "boom", out["error"])
	})
}

func TestPrintRunSummary(t *testing.T) {
	summary := Summary{
		Operation: "square",
		Succeeded: 2,
		Failed:    1,
		Errors:    []ErrorDetail{{JobID: "abc", Error: "not a number"}},
	}

	t.Run("table mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, false, false)

		require.NoError(t, f.PrintRunSummary(summary))
		require.Contains(t, stdout.String(), "Succeeded: 2")
		require.Contains(t, stdout.String(), "Failed:    1")
		require.Contains(t, stdout.String(), "- abc: not a number")
	})

	t.Run("truncates errors", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, false, false)

		many := Summary{Failed: 7}
		for i := 0; i < 7; i++ {
			many.Errors = append(many.Errors, ErrorDetail{JobID: "j", Error: "e"})
		}
		require.NoError(t, f.PrintRunSummary(many))
		require.Contains(t, stdout.String(), "and 2 more")
	})

	t.Run("json mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeJSON, false, false)

		require.NoError(t, f.PrintRunSummary(summary))
		var out struct {
			Success bool    `json:"success"`
			Summary Summary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
		require.False(t, out.Success)
		require.Equal(t, summary, out.Summary)
	})

	t.Run("quiet mode", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		f := New(&stdout, &stderr, ModeTable, true, false)
		require.NoError(t, f.PrintRunSummary(summary))
		require.Empty(t, stdout.String())
	})
}

func TestParseMode(t *testing.T) {
	require.Equal(t, ModeJSON, ParseMode("JSON"))
	require.Equal(t, ModeYAML, ParseMode("yml"))
	require.Equal(t, ModeYAML, ParseMode("yaml"))
	require.Equal(t, ModeTable, ParseMode("table"))
	require.Equal(t, ModeTable, ParseMode("anything"))
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{"json", "yaml", "table", "YAML"} {
		require.NoError(t, ValidateMode(mode), mode)
	}
	require.Error(t, ValidateMode("xml"))
}
