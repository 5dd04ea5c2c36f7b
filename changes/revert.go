package changes

import (
	"fmt"

	"github.com/signadot/projdiff/debug"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/ir/kpath"
	"github.com/signadot/projdiff/schema"
)

// Revert applies the inverse of c to live, the root of a document with
// the shape of the after snapshot c was computed from. Values taken from
// the before snapshot are rebuilt by f and never shared with it.
//
// Nodes are located in live by the path they have in the after snapshot;
// a node found there must carry the same objIDs along its ancestry, else
// it is searched for by objID within the same arrays. If that fails too,
// Revert returns an error wrapping ErrPathResolution.
//
// On error live is not modified.
func Revert(c Change, live *doc.Object, f doc.Factory) error {
	if debug.Revert() {
		debug.Logf("revert %T at %q", c, c.Path())
	}
	if s, ok := c.(*ArrayShuffled); ok {
		return fmt.Errorf("%w: reordering of %q", ErrUnsupportedRevert, s.Path())
	}
	if !c.Revertable() {
		return fmt.Errorf("%w: %q", ErrNotRevertable, c.Path())
	}
	switch x := c.(type) {
	case *PropertyAdded:
		owner, err := locate(live, x.ObjectAfter)
		if err != nil {
			return err
		}
		owner.Clear(x.Prop.Name)
		return nil
	case *PropertyRemoved:
		return restore(&x.PropertyBase, live, f)
	case *PropertyUpdated:
		return restore(&x.PropertyBase, live, f)
	case *ObjectPropertyUpdated:
		return restore(&x.PropertyBase, live, f)
	case *ArrayPropertyUpdated:
		return restore(&x.PropertyBase, live, f)
	case *ArrayElementAdded:
		e, err := locate(live, x.After())
		if err != nil {
			return err
		}
		e.Parent.Array(e.ParentProp).Remove(e.ParentIndex)
		return nil
	case *ArrayElementRemoved:
		arr, err := locateArray(live, x.ArrayAfter)
		if err != nil {
			return err
		}
		old := x.Before()
		if arr.IndexOf(old.ID) != -1 {
			return fmt.Errorf("%w: %s is present in %q", ErrNothingToRevert, doc.Label(old), arr.Path())
		}
		e, err := doc.Clone(f, old)
		if err != nil {
			return fmt.Errorf("rebuilding %s: %w", doc.Label(old), err)
		}
		return arr.Insert(min(x.IndexBefore, arr.Len()), e)
	case *ArrayElementUpdated:
		le, err := locate(live, x.After())
		if err != nil {
			return err
		}
		e, err := doc.Clone(f, x.Before())
		if err != nil {
			return fmt.Errorf("rebuilding %s: %w", doc.Label(x.Before()), err)
		}
		return le.Parent.Array(le.ParentProp).Replace(le.ParentIndex, e)
	default:
		panic(fmt.Sprintf("changes: unknown change %T", c))
	}
}

// restore sets the property of b in live to a rebuilt copy of its before
// value, clearing it if that value was absent.
func restore(b *PropertyBase, live *doc.Object, f doc.Factory) error {
	owner, err := locate(live, b.ObjectAfter)
	if err != nil {
		return err
	}
	v, err := rebuild(f, b.Prop, b.Before())
	if err != nil {
		return fmt.Errorf("rebuilding %q: %w", b.Path(), err)
	}
	return owner.Set(b.Prop.Name, v)
}

func rebuild(f doc.Factory, p *schema.Prop, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *ir.Node:
		return x.Clone().Detach(), nil
	case *doc.Object:
		return doc.Clone(f, x)
	case *doc.Array:
		return doc.CloneArray(f, p.Class, x)
	}
	return nil, fmt.Errorf("unexpected value %T", v)
}

// locate finds the node of live corresponding to target, a node of the
// after snapshot.
func locate(live, target *doc.Object) (*doc.Object, error) {
	path := target.Path()
	if o, err := doc.ResolveObject(live, path); err == nil && sameIdentity(o, target) {
		return o, nil
	}
	o, err := locateByID(live, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPathResolution, path, err)
	}
	if debug.Revert() {
		debug.Logf("located %s at %q instead of %q", doc.Label(o), o.Path(), path)
	}
	return o, nil
}

func locateArray(live *doc.Object, a *doc.Array) (*doc.Array, error) {
	if a == nil || a.Owner == nil {
		return nil, fmt.Errorf("%w: array is not part of a document", ErrPathResolution)
	}
	owner, err := locate(live, a.Owner)
	if err != nil {
		return nil, err
	}
	res := owner.Array(a.Prop)
	if res == nil {
		return nil, fmt.Errorf("%w: %q: %w: array not set", ErrPathResolution, a.Path(), doc.ErrNotFound)
	}
	return res, nil
}

func sameIdentity(o, target *doc.Object) bool {
	for ; target != nil; o, target = o.Parent, target.Parent {
		if o == nil || o.Class != target.Class || o.ID != target.ID {
			return false
		}
	}
	return o == nil
}

func locateByID(live, target *doc.Object) (*doc.Object, error) {
	if target.Parent == nil {
		if target.ParentIndex >= 0 {
			return nil, fmt.Errorf("%s is not part of a document", doc.Label(target))
		}
		if live.Class != target.Class {
			return nil, fmt.Errorf("%w: root is a %s, want %s", doc.ErrNotFound, live.Class.Name, target.Class.Name)
		}
		return live, nil
	}
	parent, err := locateByID(live, target.Parent)
	if err != nil {
		return nil, err
	}
	if target.ParentIndex < 0 {
		o := parent.Object(target.ParentProp)
		if o == nil {
			return nil, fmt.Errorf("%w: %q is not set", doc.ErrNotFound, kpath.Field(parent.Path(), target.ParentProp))
		}
		return o, nil
	}
	o := parent.Array(target.ParentProp).ByID(target.ID)
	if o == nil {
		return nil, fmt.Errorf("%w: no %s with objID %q in %q", doc.ErrNotFound, target.Class.Name, target.ID, kpath.Field(parent.Path(), target.ParentProp))
	}
	return o, nil
}
