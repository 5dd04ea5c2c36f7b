package changes

import (
	"fmt"

	"github.com/signadot/projdiff/debug"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/schema"
)

// DiffObject compares before and after, which must be of the same class.
// A nil before stands for an absent object: every property set in after
// is reported as added. Computed and excluded properties are skipped.
func DiffObject(before, after *doc.Object) (*ObjectChanges, error) {
	if after == nil {
		return nil, fmt.Errorf("%w: no after object", ErrSchemaMismatch)
	}
	if before != nil && before.Class != after.Class {
		return nil, fmt.Errorf("%w: %s vs %s at %q", ErrSchemaMismatch, before.Class.Name, after.Class.Name, after.Path())
	}
	oc := &ObjectChanges{Before: before, After: after}
	for _, p := range after.Class.DiffProps() {
		c, err := diffProp(p, before, after)
		if err != nil {
			return nil, err
		}
		if c != nil {
			oc.Changes = append(oc.Changes, c)
		}
	}
	if debug.Diff() && !oc.Empty() {
		debug.Logf("diff %s at %q: %d changes", doc.Label(after), after.Path(), len(oc.Changes))
	}
	return oc, nil
}

func diffProp(p *schema.Prop, before, after *doc.Object) (PropertyChange, error) {
	base := PropertyBase{ObjectBefore: before, ObjectAfter: after, Prop: p, CanRevert: true}
	bv, av := base.Before(), base.After()
	switch {
	case bv == nil && av == nil:
		return nil, nil
	case bv == nil:
		base.CanRevert = !p.Mandatory
		return &PropertyAdded{base}, nil
	case av == nil:
		return &PropertyRemoved{base}, nil
	}
	switch p.Kind {
	case schema.Array:
		ac, err := DiffArray(p, bv.(*doc.Array), av.(*doc.Array))
		if err != nil {
			return nil, err
		}
		if ac.Empty() {
			return nil, nil
		}
		return &ArrayPropertyUpdated{PropertyBase: base, Changes: ac}, nil
	case schema.Object:
		oc, err := DiffObject(bv.(*doc.Object), av.(*doc.Object))
		if err != nil {
			return nil, err
		}
		if oc.Empty() {
			return nil, nil
		}
		return &ObjectPropertyUpdated{PropertyBase: base, Changes: oc}, nil
	default:
		if ir.Equal(bv.(*ir.Node), av.(*ir.Node)) {
			return nil, nil
		}
		if debug.Diff() {
			debug.Logf("diff %q: %v -> %v", base.Path(), bv, av)
		}
		return &PropertyUpdated{base}, nil
	}
}

// DiffArray compares the elements of before and after, matching them by
// objID. Added and updated elements are reported in after order, followed
// by removed elements in before order. A nil array is treated as empty.
func DiffArray(p *schema.Prop, before, after *doc.Array) (*ArrayChanges, error) {
	ac := &ArrayChanges{Prop: p, Before: before, After: after}
	matched := make([]bool, before.Len())
	moved, structural := false, false
	for ai := 0; ai < after.Len(); ai++ {
		ae := after.At(ai)
		bi := before.IndexOf(ae.ID)
		base := ElementBase{ArrayBefore: before, ArrayAfter: after, Prop: p, IndexBefore: bi, IndexAfter: ai, ElementAfter: ae}
		if bi == -1 {
			ac.Changes = append(ac.Changes, &ArrayElementAdded{base})
			structural = true
			continue
		}
		matched[bi] = true
		base.ElementBefore = before.At(bi)
		oc, err := DiffObject(base.ElementBefore, ae)
		if err != nil {
			return nil, err
		}
		if !oc.Empty() {
			ac.Changes = append(ac.Changes, &ArrayElementUpdated{ElementBase: base, Changes: oc})
		}
		if bi != ai {
			moved = true
		}
	}
	for bi, ok := range matched {
		if ok {
			continue
		}
		ac.Changes = append(ac.Changes, &ArrayElementRemoved{ElementBase{
			ArrayBefore:   before,
			ArrayAfter:    after,
			Prop:          p,
			IndexBefore:   bi,
			IndexAfter:    -1,
			ElementBefore: before.At(bi),
		}})
		structural = true
	}
	if moved && !structural {
		ac.Shuffled = &ArrayShuffled{ArrayBefore: before, ArrayAfter: after, Prop: p}
	}
	if debug.Diff() && !ac.Empty() {
		debug.Logf("diff array %q: %d changes, shuffled=%t", after.Path(), len(ac.Changes), ac.Shuffled != nil)
	}
	return ac, nil
}
