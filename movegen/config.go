package movegen

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/movets/movets/movegen/sink"
	"github.com/movets/movets/movegen/typescript"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// ConfigFileNames are the file names FindConfig looks for, in order.
var ConfigFileNames = []string{"movets.toml", "movets.yaml", "movets.yml"}

// Config holds the configuration for code generation.
//
// The same struct is read from movets.toml or movets.yaml and from
// --set key=value overrides; all three use the snake_case keys below.
type Config struct {
	// IDL is the path of the IDL JSON document. Only the CLI reads it.
	IDL string `toml:"idl" yaml:"idl" schema:"idl"`

	// OutDir is the directory where generated files will be written.
	// Required unless Sink is set.
	OutDir string `toml:"out_dir" yaml:"out_dir" schema:"out_dir"`

	// Target selects the SDK wrapper emitted into each module's client.ts.
	// Supported values: "none" (default), "aptos", "sui".
	Target flavor.Target `toml:"target" yaml:"target" schema:"target" validate:"omitempty,oneof=none aptos sui"`

	// FieldCase is applied to argument and struct field names.
	// Supported values: "preserve" (default), "camel", "pascal", "snake".
	FieldCase string `toml:"field_case" yaml:"field_case" schema:"field_case" validate:"omitempty,oneof=preserve camel pascal snake"`

	// IndentStyle is "space" (default) or "tab".
	IndentStyle string `toml:"indent_style" yaml:"indent_style" schema:"indent_style" validate:"omitempty,oneof=space tab"`

	// IndentSize is the number of spaces per level. Default: 2.
	IndentSize int `toml:"indent_size" yaml:"indent_size" schema:"indent_size" validate:"min=0,max=8"`

	// LineEnding is "lf" (default) or "crlf".
	LineEnding string `toml:"line_ending" yaml:"line_ending" schema:"line_ending" validate:"omitempty,oneof=lf crlf"`

	// TrailingNewline ends every file with a newline. Default: true.
	TrailingNewline *bool `toml:"trailing_newline" yaml:"trailing_newline" schema:"trailing_newline"`

	// EmitComments controls JSDoc output. Default: true.
	EmitComments *bool `toml:"emit_comments" yaml:"emit_comments" schema:"emit_comments"`

	// Frontmatter is content added to the top of each generated file,
	// e.g. "/* eslint-disable */".
	Frontmatter string `toml:"frontmatter" yaml:"frontmatter" schema:"frontmatter"`

	// UseInterface declares object types with 'interface' instead of 'type'.
	UseInterface bool `toml:"use_interface" yaml:"use_interface" schema:"use_interface"`

	// ReadonlyArrays types vector arguments as readonly arrays.
	ReadonlyArrays bool `toml:"readonly_arrays" yaml:"readonly_arrays" schema:"readonly_arrays"`

	// PreludeImport is the module specifier of an external prelude. When
	// set, prelude.ts is not generated.
	PreludeImport string `toml:"prelude_import" yaml:"prelude_import" schema:"prelude_import"`

	// Parallelism bounds how many modules render at once.
	// Default: GOMAXPROCS.
	Parallelism int `toml:"parallelism" yaml:"parallelism" schema:"parallelism" validate:"min=0"`

	// Sink receives the generated files. Default: a FilesystemSink at OutDir.
	Sink sink.OutputSink `toml:"-" yaml:"-" schema:"-" validate:"-"`

	// Logger receives progress and warnings. Default: no logging.
	Logger *zap.Logger `toml:"-" yaml:"-" schema:"-" validate:"-"`
}

// LoadConfig reads a movets.toml or movets.yaml file. Unknown keys are an
// error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.WithHint(
				errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", ")),
				"keys are snake_case, e.g. out_dir or field_case")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	default:
		return nil, errors.Newf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	// Relative paths in the file are relative to the file.
	dir := filepath.Dir(path)
	if cfg.IDL != "" && !filepath.IsAbs(cfg.IDL) {
		cfg.IDL = filepath.Join(dir, cfg.IDL)
	}
	if cfg.OutDir != "" && !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(dir, cfg.OutDir)
	}
	return cfg, nil
}

// FindConfig returns the first of ConfigFileNames present in dir, or "".
func FindConfig(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ApplyOverrides sets fields from key=value pairs, using the same keys as
// the config file. A key may be given more than once; the last value wins.
func (c *Config) ApplyOverrides(pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	values := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return errors.WithHint(errors.Newf("invalid override %q", pair), "overrides have the form key=value, e.g. target=aptos")
		}
		values[key] = []string{value}
	}

	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(false)
	if err := dec.Decode(c, values); err != nil {
		return errors.Wrap(err, "apply overrides")
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their config file key.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration. All problems are reported at once.
func (c *Config) Validate() error {
	var problems []string
	if c.OutDir == "" && c.Sink == nil {
		problems = append(problems, "out_dir is required")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(err, "validate config")
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Newf("invalid config: %s", strings.Join(problems, "; ")),
		"see movets.toml keys: target, field_case, indent_style, indent_size, line_ending, parallelism")
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param() + ", got " + quote(fe.Value())
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " failed " + fe.Tag()
	}
}

func quote(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return `"` + s.String() + `"`
	}
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	return "invalid value"
}

// withDefaults returns a copy of c with defaults applied.
func (c *Config) withDefaults() *Config {
	result := *c

	if result.Target == "" {
		result.Target = flavor.TargetNone
	}
	if result.FieldCase == "" {
		result.FieldCase = "preserve"
	}
	if result.IndentStyle == "" {
		result.IndentStyle = "space"
	}
	if result.IndentSize == 0 {
		result.IndentSize = 2
	}
	if result.LineEnding == "" {
		result.LineEnding = "lf"
	}
	if result.TrailingNewline == nil {
		result.TrailingNewline = ptr(true)
	}
	if result.EmitComments == nil {
		result.EmitComments = ptr(true)
	}
	if result.Parallelism == 0 {
		result.Parallelism = runtime.GOMAXPROCS(0)
	}
	if result.Logger == nil {
		result.Logger = zap.NewNop()
	}
	return &result
}

// generatorConfig maps a defaulted Config onto the TypeScript generator's.
func (c *Config) generatorConfig() typescript.GeneratorConfig {
	return typescript.GeneratorConfig{
		FieldCase:       c.FieldCase,
		IndentStyle:     c.IndentStyle,
		IndentSize:      c.IndentSize,
		LineEnding:      c.LineEnding,
		TrailingNewline: *c.TrailingNewline,
		EmitComments:    *c.EmitComments,
		Frontmatter:     c.Frontmatter,
		Target:          c.Target,
		TypeScript: typescript.TypeScriptConfig{
			UseInterface:      c.UseInterface,
			UseReadonlyArrays: c.ReadonlyArrays,
			PreludeImport:     c.PreludeImport,
		},
	}
}

func ptr[T any](v T) *T { return &v }
