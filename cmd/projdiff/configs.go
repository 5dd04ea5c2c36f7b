package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/objid"
	"github.com/signadot/projdiff/render"
	"github.com/signadot/projdiff/revision"
	"github.com/signadot/projdiff/schema"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool   `cli:"name=color desc='output with color'"`
	Gops  bool   `cli:"name=gops desc='start a gops diagnostics agent'"`
	File  string `cli:"name=f aliases=file desc='project file for git revisions'"`
	Lax   bool   `cli:"name=lax desc='skip document fields unknown to the schema'"`
	Quiet bool   `cli:"name=q aliases=quiet desc='only log warnings and errors'"`

	Registry *schema.Registry

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) schemaOpt(_ *cli.Context, a string) (any, error) {
	r, err := schema.LoadFile(a)
	if err != nil {
		return nil, err
	}
	cfg.Registry = r
	return nil, nil
}

func (cfg *MainConfig) factory() doc.Factory {
	return &doc.Constructor{IDs: objid.NewGenerator(), Strict: !cfg.Lax}
}

func (cfg *MainConfig) loader() (*revision.Loader, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("%w: -schema is required", cli.ErrUsage)
	}
	return &revision.Loader{
		Source:   revision.NewGit(cfg.File),
		Registry: cfg.Registry,
		Factory:  cfg.factory(),
	}, nil
}

// colors returns the colors for output to w: always with -color, never
// with -color=false, otherwise when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *render.Colors {
	if cfg.Color {
		color.NoColor = false
		return render.NewColors()
	}
	colorsSet := false
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			colorsSet = opt.Value != nil
			break
		}
	}
	if colorsSet {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return render.NewColors()
	}
	return nil
}

type DiffConfig struct {
	*MainConfig
	Patch bool `cli:"name=patch desc='print the JSON merge patch reverting after to before'"`
	Paths bool `cli:"name=paths desc='show the path of element changes'"`
	Width int  `cli:"name=w aliases=width desc='truncate values to this many characters, negative for no limit'"`

	Diff *cli.Command
}

type ChangesConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='selection expression'"`

	Changes *cli.Command
}

type RevertConfig struct {
	*MainConfig
	Where   string `cli:"name=where desc='selection expression'"`
	Indexes string `cli:"name=n desc='comma separated indexes as listed by changes'"`
	Patch   string `cli:"name=patch desc='apply a merge patch written by diff -patch instead of diffing'"`

	Revert *cli.Command
}

type LogConfig struct {
	*MainConfig

	Log *cli.Command
}
