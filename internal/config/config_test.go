package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.cqexpr.dev/pkg"
)

func TestFromYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{
			"empty yaml",
			"",
			Default(),
			false,
		},
		{
			"all keys",
			"max_depth: 12\nidentifier_policy: full-name\nlog_level: debug\n",
			Config{MaxDepth: 12, IdentifierPolicy: "full-name", LogLevel: "debug"},
			false,
		},
		{
			"partial",
			"identifier_policy: reject\n",
			Config{MaxDepth: cqexpr.DefaultMaxDepth, IdentifierPolicy: "reject", LogLevel: "info"},
			false,
		},
		{
			"invalid yaml",
			`invalid: yaml: content:`,
			Config{},
			true,
		},
		{
			"bad policy",
			"identifier_policy: first-char\n",
			Config{},
			true,
		},
		{
			"bad depth",
			"max_depth: 0\n",
			Config{},
			true,
		},
		{
			"bad level",
			"log_level: loud\n",
			Config{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromYAML([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "cqexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 4\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxDepth)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Config{MaxDepth: 2, IdentifierPolicy: "reject", LogLevel: "info"}
	c := cqexpr.NewCompiler(cfg.Options(nil)...)

	_, err := c.Eval("x")
	assert.ErrorIs(t, err, cqexpr.ErrBareIdentifier)

	_, err = c.Eval("((1))")
	assert.ErrorIs(t, err, cqexpr.ErrNestingTooDeep)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
