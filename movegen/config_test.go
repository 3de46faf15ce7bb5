package movegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movets/movets/movegen/sink"
	"github.com/movets/movets/movegen/typescript/flavor"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "movets.toml", `
idl = "build/coin.json"
out_dir = "src/generated"
target = "aptos"
field_case = "camel"
indent_style = "tab"
emit_comments = false
parallelism = 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "build/coin.json"), cfg.IDL)
	assert.Equal(t, filepath.Join(dir, "src/generated"), cfg.OutDir)
	assert.Equal(t, flavor.TargetAptos, cfg.Target)
	assert.Equal(t, "camel", cfg.FieldCase)
	assert.Equal(t, "tab", cfg.IndentStyle)
	require.NotNil(t, cfg.EmitComments)
	assert.False(t, *cfg.EmitComments)
	assert.Nil(t, cfg.TrailingNewline)
	assert.Equal(t, 2, cfg.Parallelism)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "movets.yaml", `
out_dir: /abs/out
target: sui
use_interface: true
prelude_import: "@acme/move-prelude"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/abs/out", cfg.OutDir)
	assert.Equal(t, flavor.TargetSui, cfg.Target)
	assert.True(t, cfg.UseInterface)
	assert.Equal(t, "@acme/move-prelude", cfg.PreludeImport)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "a.toml", "out_dir = \"x\"\nflavour = \"aptos\"\n"},
		{"unknown yaml key", "a.yaml", "out_dir: x\nflavour: aptos\n"},
		{"unknown target", "b.toml", "target = \"solana\"\n"},
		{"unsupported format", "movets.json", "{}"},
		{"malformed toml", "c.toml", "out_dir = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfig(dir))

	writeFile(t, dir, "movets.yaml", "out_dir: x\n")
	assert.Equal(t, filepath.Join(dir, "movets.yaml"), FindConfig(dir))

	writeFile(t, dir, "movets.toml", "out_dir = \"x\"\n")
	assert.Equal(t, filepath.Join(dir, "movets.toml"), FindConfig(dir), "toml takes precedence")
}

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{OutDir: "out", Target: flavor.TargetAptos, FieldCase: "camel"}

	err := cfg.ApplyOverrides([]string{
		"target=sui",
		"indent_size=4",
		"emit_comments=false",
		"frontmatter=/* eslint-disable */",
		"target=none",
	})
	require.NoError(t, err)

	assert.Equal(t, flavor.TargetNone, cfg.Target, "last value wins")
	assert.Equal(t, 4, cfg.IndentSize)
	require.NotNil(t, cfg.EmitComments)
	assert.False(t, *cfg.EmitComments)
	assert.Equal(t, "/* eslint-disable */", cfg.Frontmatter)
	assert.Equal(t, "out", cfg.OutDir, "untouched")
	assert.Equal(t, "camel", cfg.FieldCase, "untouched")
}

func TestApplyOverrides_Errors(t *testing.T) {
	for _, pairs := range [][]string{
		{"target"},
		{"=aptos"},
		{"no_such_key=1"},
		{"indent_size=two"},
		{"target=solana"},
	} {
		cfg := &Config{}
		assert.Error(t, cfg.ApplyOverrides(pairs), "%v", pairs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"minimal", Config{OutDir: "out"}, ""},
		{"sink instead of dir", Config{Sink: sink.NewMemorySink()}, ""},
		{"no destination", Config{}, "out_dir is required"},
		{"bad target", Config{OutDir: "out", Target: "solana"}, `target must be one of none aptos sui, got "solana"`},
		{"bad field case", Config{OutDir: "out", FieldCase: "kebab"}, "field_case must be one of"},
		{"bad indent", Config{OutDir: "out", IndentSize: 12}, "indent_size must be at most 8"},
		{"bad line ending", Config{OutDir: "out", LineEnding: "cr"}, "line_ending must be one of"},
		{"negative parallelism", Config{OutDir: "out", Parallelism: -1}, "parallelism must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := (&Config{OutDir: "out"}).withDefaults()
	gc := cfg.generatorConfig()

	assert.Equal(t, flavor.TargetNone, gc.Target)
	assert.Equal(t, "preserve", gc.FieldCase)
	assert.Equal(t, "space", gc.IndentStyle)
	assert.Equal(t, 2, gc.IndentSize)
	assert.Equal(t, "lf", gc.LineEnding)
	assert.True(t, gc.TrailingNewline)
	assert.True(t, gc.EmitComments)
	assert.Positive(t, cfg.Parallelism)
	assert.NotNil(t, cfg.Logger)

	original := &Config{OutDir: "out"}
	original.withDefaults()
	assert.Empty(t, original.FieldCase, "withDefaults must not modify its receiver")
}
