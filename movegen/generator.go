package movegen

import (
	"context"

	"go.uber.org/zap"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen/sink"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// Generator provides a fluent API for code generation.
// Create with FromPackage() or FromFile() and configure with method chaining.
//
// Example:
//
//	movegen.FromFile("coin.json").
//	    WithTarget(flavor.TargetAptos).
//	    WithFieldCase("camel").
//	    ToDir("./src/generated")
type Generator struct {
	pkg     *idl.Package
	loadErr error
	cfg     Config
}

// FromPackage creates a Generator for an IDL package already in memory.
func FromPackage(pkg *idl.Package) *Generator {
	return &Generator{pkg: pkg}
}

// FromFile creates a Generator for an IDL JSON file. Load errors are
// reported by the terminal operation.
func FromFile(path string) *Generator {
	pkg, err := idl.Load(path)
	return &Generator{pkg: pkg, loadErr: err}
}

// WithConfig replaces the configuration. Options set afterwards still apply.
func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	return g
}

// WithTarget selects the SDK wrapper emitted into client.ts.
func (g *Generator) WithTarget(t flavor.Target) *Generator {
	g.cfg.Target = t
	return g
}

// WithFieldCase sets the case applied to argument and field names.
// Valid values: "preserve" (default), "camel", "pascal", "snake".
func (g *Generator) WithFieldCase(style string) *Generator {
	g.cfg.FieldCase = style
	return g
}

// WithoutComments disables JSDoc output.
func (g *Generator) WithoutComments() *Generator {
	g.cfg.EmitComments = ptr(false)
	return g
}

// Frontmatter adds content to the top of generated files.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// PreludeImport imports the runtime helpers from an external module
// instead of generating prelude.ts.
func (g *Generator) PreludeImport(specifier string) *Generator {
	g.cfg.PreludeImport = specifier
	return g
}

// Parallelism bounds how many modules render at once.
func (g *Generator) Parallelism(n int) *Generator {
	g.cfg.Parallelism = n
	return g
}

// WithLogger sets the logger that receives progress and warnings.
func (g *Generator) WithLogger(log *zap.Logger) *Generator {
	g.cfg.Logger = log
	return g
}

// ToDir generates files to the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	g.cfg.OutDir = dir
	g.cfg.Sink = nil
	return g.run(context.Background())
}

// ToSink generates files into s.
// This is a terminal operation.
func (g *Generator) ToSink(ctx context.Context, s sink.OutputSink) (*Result, error) {
	g.cfg.Sink = s
	return g.run(ctx)
}

func (g *Generator) run(ctx context.Context) (*Result, error) {
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	return Generate(ctx, g.pkg, &g.cfg)
}
