package typescript

import (
	"context"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen/sink"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// Generator transforms an IDL package into target language source code.
type Generator interface {
	// Name returns the generator's identifier (e.g., "typescript").
	Name() string

	// Generate produces source code for every module of the package.
	Generate(ctx context.Context, pkg *idl.Package, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures generation behavior.
type GenerateOptions struct {
	// Sink receives generated output files.
	Sink sink.OutputSink

	// Config contains generator configuration.
	Config GeneratorConfig
}

// GenerateResult contains generation output metadata.
type GenerateResult struct {
	// Files lists all files that were written.
	Files []OutputFile

	// FunctionsGenerated is the count of script functions successfully generated.
	FunctionsGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []idl.Warning
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the relative path of the generated file.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// GeneratorConfig provides common configuration options.
type GeneratorConfig struct {
	// Naming
	FieldCase string // "preserve", "camel", "pascal", "snake"; applied to argument and field names

	// Formatting
	IndentStyle     string // "space" or "tab"
	IndentSize      int    // Spaces per indent level (when IndentStyle is "space")
	LineEnding      string // "lf" or "crlf"
	TrailingNewline bool   // Ensure files end with a newline

	// Features
	EmitComments bool // Include documentation comments in output

	// Frontmatter is written verbatim at the top of every file.
	Frontmatter string

	// Target selects the SDK wrapper emitted into client.ts.
	Target flavor.Target

	// TypeScript contains TypeScript-specific options.
	TypeScript TypeScriptConfig
}

// TypeScriptConfig contains TypeScript-specific options.
type TypeScriptConfig struct {
	// UseInterface prefers 'interface' over 'type' where possible.
	UseInterface bool

	// UseReadonlyArrays uses 'readonly T[]' instead of 'T[]' for vector arguments.
	UseReadonlyArrays bool

	// PreludeImport is the module specifier the generated files import the
	// runtime helpers from. When empty, prelude.ts is generated at the output
	// root and imported relatively.
	PreludeImport string
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		FieldCase:       "preserve",
		IndentStyle:     "space",
		IndentSize:      2,
		LineEnding:      "lf",
		TrailingNewline: true,
		EmitComments:    true,
		Target:          flavor.TargetNone,
	}
}
