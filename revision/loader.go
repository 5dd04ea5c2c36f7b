package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/signadot/projdiff/debug"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/schema"
	"golang.org/x/sync/errgroup"
)

var ErrNoMemory = errors.New("no in-memory document")

// Provider materializes the document of a revision.
type Provider interface {
	Load(ctx context.Context, rev Revision) (*doc.Object, error)
}

// Loader is the Provider reading revision content from a Source and
// constructing documents of the registry's root class.
type Loader struct {
	Source   Source
	Registry *schema.Registry
	Factory  doc.Factory
	// Memory is returned for the memory revision.
	Memory *doc.Object
}

func (l *Loader) Load(ctx context.Context, rev Revision) (*doc.Object, error) {
	if rev.Hash == MemoryHash {
		if l.Memory == nil {
			return nil, ErrNoMemory
		}
		return l.Memory, nil
	}
	root := l.Registry.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: schema has no root class", schema.ErrUnknownClass)
	}
	d, err := l.Source.Content(ctx, rev.Hash)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rev, err)
	}
	n, err := ir.FromYAML(d)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rev, err)
	}
	o, err := l.Factory.Construct(root, n)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rev, err)
	}
	if debug.Load() {
		debug.Logf("loaded %s: %s", rev, doc.Label(o))
	}
	return o, nil
}

// LoadPair loads the before and after documents concurrently. A nil
// before revision yields a nil before document, which diffs as if every
// property was added.
func LoadPair(ctx context.Context, p Provider, before, after *Revision) (b, a *doc.Object, err error) {
	if after == nil {
		return nil, nil, errors.New("no after revision")
	}
	g, ctx := errgroup.WithContext(ctx)
	if before != nil {
		g.Go(func() error {
			var err error
			b, err = p.Load(ctx, *before)
			return err
		})
	}
	g.Go(func() error {
		var err error
		a, err = p.Load(ctx, *after)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return b, a, nil
}
