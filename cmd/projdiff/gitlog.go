package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/scott-cotton/cli"
	"github.com/signadot/projdiff/revision"
)

func gitLog(cfg *LogConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Log.Parse(cc, args)
	if err != nil {
		cfg.Log.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	file := cfg.File
	switch len(args) {
	case 0:
	case 1:
		file = args[0]
	default:
		return fmt.Errorf("%w: log takes at most 1 arg, got %v", cli.ErrUsage, args)
	}
	if file == "" {
		return fmt.Errorf("%w: log needs a project file", cli.ErrUsage)
	}
	ctx, cancel := signalContext()
	defer cancel()
	return writeLog(ctx, cc.Out, revision.NewGit(file))
}

func writeLog(ctx context.Context, w io.Writer, src revision.Source) error {
	s := &revision.State{}
	if err := s.Refresh(ctx, src); err != nil {
		theLog.Warn("listing revisions", "error", err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range s.Revisions {
		// there is no in-memory document outside an editor
		if r.Hash == revision.MemoryHash {
			continue
		}
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r, date, r.AuthorName, r.Message)
	}
	return tw.Flush()
}
