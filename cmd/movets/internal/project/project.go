// Package project resolves the configuration and IDL package a movets
// command operates on.
package project

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/movets/movets/idl"
	"github.com/movets/movets/movegen"
	"github.com/movets/movets/movegen/typescript/flavor"
)

// Options are the flags shared by gen and check.
//
// Precedence, lowest first: config file, --set overrides, dedicated flags.
type Options struct {
	IDL     string   `arg:"" optional:"" help:"IDL JSON file (default: idl from the config file)." type:"path"`
	Config  string   `help:"Config file (default: movets.toml, movets.yaml or movets.yml in the current directory)." short:"c" type:"path"`
	Out     string   `help:"Output directory (default: out_dir from the config file)." short:"o" type:"path"`
	Target  string   `help:"SDK wrapper to emit: none, aptos or sui." short:"t"`
	Set     []string `help:"Override a config key, e.g. --set field_case=camel. Repeatable." short:"s" sep:"none"`
	Verbose bool     `help:"Log every module and file." short:"v"`
}

// Project is a loaded configuration together with its IDL package.
type Project struct {
	// ConfigPath is the config file that was read, or "".
	ConfigPath string
	Config     *movegen.Config
	Package    *idl.Package
}

// Load resolves the configuration and reads the IDL document.
func (o *Options) Load() (*Project, error) {
	p := &Project{ConfigPath: o.Config}
	if p.ConfigPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
		p.ConfigPath = movegen.FindConfig(wd)
	}

	cfg := &movegen.Config{}
	if p.ConfigPath != "" {
		var err error
		if cfg, err = movegen.LoadConfig(p.ConfigPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyOverrides(o.Set); err != nil {
		return nil, err
	}
	if o.IDL != "" {
		cfg.IDL = o.IDL
	}
	if o.Out != "" {
		cfg.OutDir = o.Out
	}
	if o.Target != "" {
		t, err := flavor.ParseTarget(o.Target)
		if err != nil {
			return nil, err
		}
		cfg.Target = t
	}
	if cfg.IDL == "" {
		return nil, errors.WithHint(errors.New("no IDL file given"),
			"pass the IDL path as an argument or set idl in movets.toml")
	}

	pkg, err := idl.Load(cfg.IDL)
	if err != nil {
		return nil, err
	}
	cfg.Logger = NewLogger(o.Verbose)
	p.Config = cfg
	p.Package = pkg
	return p, nil
}

// NewLogger returns a console logger on stderr that shows warnings, or
// everything when verbose. Levels are colored when stderr is a terminal.
func NewLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !color.NoColor {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
