// Package gen implements "movets gen".
package gen

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/movets/movets/cmd/movets/internal/project"
	"github.com/movets/movets/movegen"
)

// debounce absorbs the burst of events an editor save produces.
const debounce = 100 * time.Millisecond

type Cmd struct {
	project.Options `embed:""`

	Watch bool `help:"Watch the IDL and config files and regenerate on change." short:"w"`
}

func (c *Cmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p, err := c.Load()
	if err != nil {
		return err
	}
	if !c.Watch {
		return generate(ctx, p)
	}
	if err := generate(ctx, p); err != nil {
		printError(err)
	}
	return c.watch(ctx, p)
}

func generate(ctx context.Context, p *project.Project) error {
	result, err := movegen.Generate(ctx, p.Package, p.Config)
	if result != nil {
		fmt.Printf("%s %d files in %s (%d unchanged), %d modules, %d functions\n",
			color.GreenString("✓"), len(result.Files), p.Config.OutDir,
			len(result.Unchanged), result.Modules, result.FunctionsGenerated)
		if n := len(result.Warnings); n > 0 {
			fmt.Printf("%s %d warnings\n", color.YellowString("!"), n)
		}
	}
	return err
}

// watch regenerates whenever the IDL file or config file changes. The
// directories are watched rather than the files so that editors which
// replace a file on save are still seen.
func (c *Cmd) watch(ctx context.Context, p *project.Project) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	watched := map[string]bool{}
	for _, path := range []string{p.Config.IDL, p.ConfigPath} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", path)
		}
		watched[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
		}
	}
	log := p.Config.Logger
	fmt.Println(color.CyanString("watching for changes, press Ctrl+C to stop"))

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				log.Debug("file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			next, err := c.Load()
			if err != nil {
				printError(err)
				continue
			}
			if err := generate(ctx, next); err != nil {
				printError(err)
			}
		}
	}
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("✗"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}
}
