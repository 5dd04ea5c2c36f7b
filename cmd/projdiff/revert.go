package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/projdiff/changes"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/render"
)

func revert(cfg *RevertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Revert.Parse(cc, args)
	if err != nil {
		cfg.Revert.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	ctx, cancel := signalContext()
	defer cancel()
	if cfg.Patch != "" {
		if len(args) != 1 {
			return fmt.Errorf("%w: revert -patch requires 1 arg, got %v", cli.ErrUsage, args)
		}
		return applyPatchFile(ctx, cfg, cc.Out, cfg.Patch, args[0])
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: revert requires 3 args, got %v", cli.ErrUsage, args)
	}
	failed, err := revertRevisions(ctx, cfg, cc.Out, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// revertRevisions reverts the selected changes from before to after in
// live and writes live as YAML to w. It returns the number of entries
// that failed to revert.
func revertRevisions(ctx context.Context, cfg *RevertConfig, w io.Writer, before, after, live string) (int, error) {
	oc, err := cfg.diffArgs(ctx, before, after)
	if err != nil {
		return 0, err
	}
	entries, err := selectEntries(changes.Flatten(oc), cfg.Where, cfg.Indexes)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: no changes selected", changes.ErrNothingToRevert)
	}
	o, f, err := cfg.loadArg(ctx, live)
	if err != nil {
		return 0, err
	}
	results, _ := changes.RevertAll(entries, o, f)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			theLog.Warn("revert failed", "op", r.Entry.Op, "path", r.Entry.Path, "error", r.Err)
			continue
		}
		theLog.Info("reverted", "op", r.Entry.Op, "path", r.Entry.Path)
	}
	return failed, writeDoc(w, o)
}

// applyPatchFile applies the merge patch in file to live and writes the
// result as YAML to w.
func applyPatchFile(ctx context.Context, cfg *RevertConfig, w io.Writer, file, live string) error {
	patch, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	o, f, err := cfg.loadArg(ctx, live)
	if err != nil {
		return err
	}
	res, err := render.ApplyPatch(f, o, patch)
	if err != nil {
		return err
	}
	theLog.Info("applied patch", "patch", file)
	return writeDoc(w, res)
}

func writeDoc(w io.Writer, o *doc.Object) error {
	d, err := ir.ToYAML(doc.ToIR(o))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

// selectEntries applies the -where expression and the -n index list. With
// neither given it selects the top level entries, which revert
// everything.
func selectEntries(entries []changes.Entry, where, indexes string) ([]changes.Entry, error) {
	if where == "" && indexes == "" {
		where = "depth == 0"
	}
	sel, err := changes.Select(entries, where)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if indexes == "" {
		return sel, nil
	}
	want, err := parseIndexes(indexes, len(entries))
	if err != nil {
		return nil, err
	}
	var res []changes.Entry
	for _, e := range sel {
		if want[e.Index] {
			res = append(res, e)
		}
	}
	return res, nil
}

func parseIndexes(s string, n int) (map[int]bool, error) {
	res := map[int]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid index %q", cli.ErrUsage, f)
		}
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%w: index %d out of range [0, %d)", cli.ErrUsage, i, n)
		}
		res[i] = true
	}
	return res, nil
}
