// Package movegen generates TypeScript clients from Move IDL packages.
//
// Generate is the entry point: it validates the package, renders every
// module in parallel and writes the result to a sink. A module that fails
// to render writes nothing; the others are still written.
package movegen

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen/sink"
	"github.com/movets/movets/movegen/typescript"
)

// Result describes a generation run.
type Result struct {
	// Files lists the files written, in write order.
	Files []typescript.OutputFile

	// Modules is the number of modules rendered successfully.
	Modules int

	// FunctionsGenerated counts script functions with a payload builder.
	FunctionsGenerated int

	// Warnings contains non-fatal issues encountered.
	Warnings []idl.Warning

	// Unchanged lists files left untouched because their content was
	// already up to date. Only a FilesystemSink reports them.
	Unchanged []string
}

// ErrDependencyFailed marks a module that rendered but was not written
// because a module it imports failed.
var ErrDependencyFailed = errors.New("dependency failed")

// ModuleError reports a module that failed to render.
type ModuleError struct {
	Module idl.ModuleID
	Err    error
}

func (e *ModuleError) Error() string {
	return "module " + e.Module.String() + ": " + e.Err.Error()
}

func (e *ModuleError) Unwrap() error { return e.Err }

// GenerateError collects the modules that failed in one run.
type GenerateError struct {
	Modules []*ModuleError
}

func (e *GenerateError) Error() string {
	if len(e.Modules) == 1 {
		return e.Modules[0].Error()
	}
	msgs := make([]string, len(e.Modules))
	for i, m := range e.Modules {
		msgs[i] = m.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e *GenerateError) Unwrap() []error {
	errs := make([]error, len(e.Modules))
	for i, m := range e.Modules {
		errs[i] = m
	}
	return errs
}

// InvalidPackageError reports an IDL package that failed validation.
// Nothing is generated for an invalid package.
type InvalidPackageError struct {
	Errors []error
}

func (e *InvalidPackageError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "invalid IDL package: " + strings.Join(msgs, "; ")
}

func (e *InvalidPackageError) Unwrap() []error { return e.Errors }

// Generate renders pkg and writes the files to cfg.Sink, or to a
// FilesystemSink at cfg.OutDir.
//
// Modules render concurrently, bounded by cfg.Parallelism. Output order and
// content do not depend on scheduling. When some modules fail, the others
// and the root files are still written and the returned error is a
// *GenerateError alongside a non-nil Result.
func Generate(ctx context.Context, pkg *idl.Package, cfg *Config) (*Result, error) {
	if pkg == nil {
		return nil, errors.New("package is nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	start := time.Now()

	if errs := idl.Validate(pkg); len(errs) > 0 {
		return nil, &InvalidPackageError{Errors: errs}
	}

	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}
	tsConfig := cfg.generatorConfig()

	all := append(append([]idl.Module(nil), pkg.Modules...), pkg.Dependencies...)
	outputs := make([]*typescript.ModuleOutput, len(all))
	failures := make([]*ModuleError, len(all))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i := range all {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := &all[i]
			began := time.Now()
			rendered, err := typescript.RenderModule(pkg, m, tsConfig)
			if err != nil {
				failures[i] = &ModuleError{Module: m.ID, Err: err}
				log.Error("module failed", zap.Stringer("module", m.ID), zap.Error(err))
				return nil
			}
			outputs[i] = rendered
			log.Debug("rendered module",
				zap.Stringer("module", m.ID),
				zap.Int("count", len(rendered.Files)),
				zap.Duration("duration", time.Since(began)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "render modules")
	}
	failDependents(all, outputs, failures, log)

	result := &Result{}
	var rendered []*typescript.ModuleOutput
	var files []typescript.File
	genErr := &GenerateError{}
	for i, m := range outputs {
		if failures[i] != nil {
			genErr.Modules = append(genErr.Modules, failures[i])
			continue
		}
		rendered = append(rendered, m)
		files = append(files, m.Files...)
		result.Modules++
		result.FunctionsGenerated += m.Functions
		result.Warnings = append(result.Warnings, m.Warnings...)
	}
	files = append(files, typescript.RenderRoot(tsConfig, rendered)...)

	for _, w := range result.Warnings {
		log.Warn(w.Message, zap.String("code", w.Code), zap.String("module", w.Module))
	}

	for _, f := range files {
		if err := out.WriteFile(ctx, f.Path, f.Content); err != nil {
			return result, errors.Wrapf(err, "write %s", f.Path)
		}
		log.Debug("wrote file", zap.String("file", f.Path))
		result.Files = append(result.Files, typescript.OutputFile{Path: f.Path, Size: int64(len(f.Content))})
	}
	if fs, ok := out.(*sink.FilesystemSink); ok {
		result.Unchanged = fs.Skipped()
	}

	log.Info("generated",
		zap.Int("count", len(result.Files)),
		zap.Int("modules", result.Modules),
		zap.Duration("duration", time.Since(start)))

	if len(genErr.Modules) > 0 {
		return result, genErr
	}
	return result, nil
}

// failDependents turns every rendered module that imports a failed module,
// directly or through other modules, into a failure of its own so that no
// written file imports a module that was not written.
func failDependents(all []idl.Module, outputs []*typescript.ModuleOutput, failures []*ModuleError, log *zap.Logger) {
	failed := make(map[idl.ModuleID]bool)
	for i, f := range failures {
		if f != nil {
			failed[all[i].ID] = true
		}
	}
	for changed := len(failed) > 0; changed; {
		changed = false
		for i, m := range outputs {
			if failures[i] != nil {
				continue
			}
			for _, dep := range m.Imports {
				if !failed[dep] {
					continue
				}
				err := errors.Mark(errors.Newf("depends on failed module %s", dep), ErrDependencyFailed)
				failures[i] = &ModuleError{Module: m.Module, Err: err}
				failed[m.Module] = true
				changed = true
				log.Error("module failed", zap.Stringer("module", m.Module), zap.Error(err))
				break
			}
		}
	}
}
