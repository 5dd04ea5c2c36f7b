package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/scott-cotton/cli"
	"github.com/signadot/projdiff/changes"
)

func listChanges(cfg *ChangesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Changes.Parse(cc, args)
	if err != nil {
		cfg.Changes.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: changes requires 2 args, got %v", cli.ErrUsage, args)
	}
	ctx, cancel := signalContext()
	defer cancel()
	return listRevisionChanges(ctx, cfg, cc.Out, args[0], args[1])
}

func listRevisionChanges(ctx context.Context, cfg *ChangesConfig, w io.Writer, before, after string) error {
	oc, err := cfg.diffArgs(ctx, before, after)
	if err != nil {
		return err
	}
	entries, err := changes.Select(changes.Flatten(oc), cfg.Where)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return writeEntries(w, entries)
}

func writeEntries(w io.Writer, entries []changes.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i := range entries {
		e := &entries[i]
		fmt.Fprintf(tw, "%d\t%s%s\t%s\t%s", e.Index, strings.Repeat("  ", e.Depth), e.Op, e.Path, e.Label)
		if !e.Change.Revertable() {
			fmt.Fprint(tw, "\t(not revertable)")
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
