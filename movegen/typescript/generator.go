// Package typescript generates TypeScript payload builders, argument types
// and SDK wrappers from a Move IDL package.
package typescript

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/movets/movets/idl"
)

var _ Generator = (*TypeScriptGenerator)(nil)

// TypeScriptGenerator renders a package module by module and writes the
// result to a sink. It stops at the first failure; movegen.Generate is the
// entry point that isolates failures per module.
type TypeScriptGenerator struct{}

// Name returns "typescript".
func (g *TypeScriptGenerator) Name() string { return "typescript" }

// Generate renders every module of pkg, then the root files, and writes
// them to opts.Sink.
func (g *TypeScriptGenerator) Generate(ctx context.Context, pkg *idl.Package, opts GenerateOptions) (*GenerateResult, error) {
	if pkg == nil {
		return nil, errors.New("package is nil")
	}
	if opts.Sink == nil {
		return nil, errors.New("sink is required")
	}

	modules, err := RenderPackage(ctx, pkg, opts.Config)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{}
	var files []File
	for _, m := range modules {
		files = append(files, m.Files...)
		result.FunctionsGenerated += m.Functions
		result.Warnings = append(result.Warnings, m.Warnings...)
	}
	files = append(files, RenderRoot(opts.Config, modules)...)

	for _, f := range files {
		if err := opts.Sink.WriteFile(ctx, f.Path, f.Content); err != nil {
			return nil, errors.Wrapf(err, "write %s", f.Path)
		}
		result.Files = append(result.Files, OutputFile{Path: f.Path, Size: int64(len(f.Content))})
	}
	return result, nil
}

// RenderPackage renders the package's modules followed by its dependency
// modules, in IDL order.
func RenderPackage(ctx context.Context, pkg *idl.Package, cfg GeneratorConfig) ([]*ModuleOutput, error) {
	all := append(append([]idl.Module(nil), pkg.Modules...), pkg.Dependencies...)
	out := make([]*ModuleOutput, 0, len(all))
	for i := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := RenderModule(pkg, &all[i], cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", all[i].ID)
		}
		out = append(out, m)
	}
	return out, nil
}
