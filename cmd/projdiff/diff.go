package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/projdiff/changes"
	"github.com/signadot/projdiff/render"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	ctx, cancel := signalContext()
	defer cancel()
	differs, err := diffRevisions(ctx, cfg, cc.Out, args[0], args[1])
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffRevisions(ctx context.Context, cfg *DiffConfig, w io.Writer, before, after string) (bool, error) {
	oc, err := cfg.diffArgs(ctx, before, after)
	if err != nil {
		return false, err
	}
	if cfg.Patch {
		return !oc.Empty(), writePatch(w, oc)
	}
	opts := &render.Options{
		Colors:   cfg.colors(w),
		MaxValue: cfg.Width,
		Paths:    cfg.Paths,
	}
	return !oc.Empty(), render.Text(w, oc, opts)
}

func writePatch(w io.Writer, oc *changes.ObjectChanges) error {
	patch, err := render.RevertPatch(oc.Before, oc.After)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", patch)
	return err
}
