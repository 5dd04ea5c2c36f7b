package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"github.com/signadot/projdiff/changes"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/revision"
)

func projdiffMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	if cfg.Quiet {
		logLevel.Set(slog.LevelWarn)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			theLog.Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// revisionArg returns the revision named by a command line argument, nil
// for "none".
func revisionArg(a string) *revision.Revision {
	h := revision.Parse(a)
	if h == "" {
		return nil
	}
	return &revision.Revision{Hash: h, Message: revision.Label(h)}
}

// diffArgs loads the before and after revisions and diffs them.
func (cfg *MainConfig) diffArgs(ctx context.Context, before, after string) (*changes.ObjectChanges, error) {
	l, err := cfg.loader()
	if err != nil {
		return nil, err
	}
	a := revisionArg(after)
	if a == nil {
		return nil, fmt.Errorf("%w: after revision must name a document", cli.ErrUsage)
	}
	b, o, err := revision.LoadPair(ctx, l, revisionArg(before), a)
	if err != nil {
		return nil, err
	}
	return changes.DiffObject(b, o)
}

func (cfg *MainConfig) loadArg(ctx context.Context, a string) (*doc.Object, doc.Factory, error) {
	l, err := cfg.loader()
	if err != nil {
		return nil, nil, err
	}
	r := revisionArg(a)
	if r == nil {
		return nil, nil, fmt.Errorf("%w: %q does not name a document", cli.ErrUsage, a)
	}
	o, err := l.Load(ctx, *r)
	if err != nil {
		return nil, nil, err
	}
	return o, l.Factory, nil
}
