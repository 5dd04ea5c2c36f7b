package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "schema",
			Aliases:     []string{"s"},
			Description: "schema file describing the project classes",
			Type:        cli.NamedFuncOpt(cfg.schemaOpt, "(filepath)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "projdiff").
		WithSynopsis("projdiff [opts] command [opts]").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return projdiffMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			ChangesCommand(cfg),
			RevertCommand(cfg),
			LogCommand(cfg))
}

const mainDescription = `projdiff compares two revisions of a project document and reverts
selected changes in a live document.

Revisions

A revision argument is one of
  - a path to an existing file
  - "none", meaning no document (every property shows as added)
  - "unstaged", the working copy of the -f project file
  - "staged", the staged copy of the -f project file
  - a git revision of the -f project file, such as HEAD~1 or a hash

Documents are YAML or JSON and are constructed with the classes of the
-schema file.`

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [opts] before after").
		WithDescription("show the changes between two revisions").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ChangesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ChangesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Changes, "changes").
		WithAliases("c", "ch").
		WithSynopsis("changes [-where expr] before after").
		WithDescription(changesDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return listChanges(cfg, cc, args)
		})
}

const changesDescription = `list the change records between two revisions, one per line, with
the index used by 'revert -n'.

-where filters records with an expression over the fields index, path,
op, kind, prop, label, depth and revertable, and the function
under(path, prefix). For example

  changes -where 'op == "removed" && under(path, "pages")' HEAD unstaged`

func RevertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RevertConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Revert, "revert").
		WithAliases("r", "re").
		WithSynopsis("revert [-where expr] [-n i,j,...] before after live | revert -patch file live").
		WithDescription("revert the selected changes between before and after in the live document and write the result.\nWith -patch, apply a merge patch written by 'diff -patch' to the live document instead.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return revert(cfg, cc, args)
		})
}

func LogCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LogConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Log, "log").
		WithAliases("l").
		WithSynopsis("log [file]").
		WithDescription("list the revisions of a project file in a git work tree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return gitLog(cfg, cc, args)
		})
}
