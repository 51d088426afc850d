package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *Config
		err      string
	}{
		{
			name: "passes and parallelism",
			input: heredoc.Doc(`
				passes:
				  - skip_unreachable_node
				  - skip_redundant_nodes
				parallelism: 4
			`),
			expected: &Config{
				Passes:      []string{SkipUnreachableNode, SkipRedundantNodes},
				Parallelism: 4,
			},
		},
		{
			name: "unknown pass",
			input: heredoc.Doc(`
				passes:
				  - inline_fragments
			`),
			err: `unknown pass "inline_fragments"`,
		},
		{
			name: "unknown key",
			input: heredoc.Doc(`
				passes: []
				workers: 2
			`),
			err: "workers",
		},
		{
			name: "negative parallelism",
			input: heredoc.Doc(`
				parallelism: -1
			`),
			err: "parallelism must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.input))
			if tt.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "pipeline.yaml")

	b, err := DefaultConfig().Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, b, 0644))

	cfg, err := LoadConfig(filePath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPassNames(t *testing.T) {
	assert.Equal(t, []string{
		SkipRedundantNodes,
		SkipUnreachableNode,
		ValidateSelectionConflict,
	}, PassNames())
}
