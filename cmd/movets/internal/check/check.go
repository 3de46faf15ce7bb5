// Package check implements "movets check".
package check

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/movets/movets/cmd/movets/internal/project"
	"github.com/movets/movets/movegen"
	"github.com/movets/movets/movegen/sink"
)

type Cmd struct {
	project.Options `embed:""`
}

func (c *Cmd) Run() error {
	p, err := c.Load()
	if err != nil {
		return err
	}
	if p.Config.OutDir == "" {
		return errors.WithHint(errors.New("out_dir is required"),
			"pass --out or set out_dir in movets.toml")
	}

	cs := sink.NewCheckSink(p.Config.OutDir)
	p.Config.Sink = cs
	result, err := movegen.Generate(context.Background(), p.Package, p.Config)
	if err != nil {
		return err
	}

	stale := cs.Stale()
	if len(stale) == 0 {
		fmt.Printf("%s %d files up to date in %s\n", color.GreenString("✓"), len(result.Files), p.Config.OutDir)
		return nil
	}
	for _, path := range stale {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("stale"), path)
	}
	return errors.WithHint(
		errors.Newf("%d of %d generated files are out of date", len(stale), len(result.Files)),
		"run movets gen to regenerate")
}
