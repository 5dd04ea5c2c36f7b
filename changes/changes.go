// Package changes computes and reverts differences between two typed
// project documents.
//
// DiffObject compares two objects of the same class property by property
// and DiffArray compares arrays of elements matched by objID. The result
// is a tree of change records. Each record can be reverted against a third,
// live document, which is located by path from the after snapshot:
//
//	oc, err := changes.DiffObject(before, after)
//	...
//	for _, c := range oc.Changes {
//		if err := changes.Revert(c, live, factory); err != nil {
//			...
//		}
//	}
package changes

import (
	"errors"

	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir/kpath"
	"github.com/signadot/projdiff/schema"
)

var (
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrPathResolution    = errors.New("path resolution failure")
	ErrUnsupportedRevert = errors.New("unsupported revert")
	ErrNotRevertable     = errors.New("not revertable")
	ErrNothingToRevert   = errors.New("nothing to revert")
)

//go-sumtype:decl Change

// Change is a change record. It is one of
//
//   - *PropertyAdded, *PropertyRemoved, *PropertyUpdated
//   - *ObjectPropertyUpdated, *ArrayPropertyUpdated
//   - *ArrayElementAdded, *ArrayElementRemoved, *ArrayElementUpdated
//   - *ArrayShuffled
type Change interface {
	isChange()
	// Path is the kinded path of the changed node.
	Path() string
	Revertable() bool
}

// PropertyChange is a change of one property of an object.
type PropertyChange interface {
	Change
	Property() *PropertyBase
}

// ArrayChange is a change of one element of an array.
type ArrayChange interface {
	Change
	Element() *ElementBase
}

// ObjectChanges holds the differing properties of two objects, in
// schema order.
type ObjectChanges struct {
	Before  *doc.Object
	After   *doc.Object
	Changes []PropertyChange
}

func (oc *ObjectChanges) Empty() bool {
	return len(oc.Changes) == 0
}

// ArrayChanges holds the differing elements of two arrays. Shuffled is
// set only when no element was added or removed but some matched element
// changed position.
type ArrayChanges struct {
	Prop     *schema.Prop
	Before   *doc.Array
	After    *doc.Array
	Changes  []ArrayChange
	Shuffled *ArrayShuffled
}

func (ac *ArrayChanges) Empty() bool {
	return len(ac.Changes) == 0 && ac.Shuffled == nil
}

// PropertyBase is shared by property change records. ObjectBefore is nil
// when the whole before object was absent.
type PropertyBase struct {
	ObjectBefore *doc.Object
	ObjectAfter  *doc.Object
	Prop         *schema.Prop
	CanRevert    bool
}

func (b *PropertyBase) Property() *PropertyBase { return b }
func (b *PropertyBase) Revertable() bool        { return b.CanRevert }

func (b *PropertyBase) Path() string {
	return kpath.Field(b.ObjectAfter.Path(), b.Prop.Name)
}

// Before returns the property value in the before object, or nil.
func (b *PropertyBase) Before() any {
	if b.ObjectBefore == nil {
		return nil
	}
	return b.ObjectBefore.Get(b.Prop.Name)
}

// After returns the property value in the after object, or nil.
func (b *PropertyBase) After() any {
	return b.ObjectAfter.Get(b.Prop.Name)
}

type PropertyAdded struct {
	PropertyBase
}

type PropertyRemoved struct {
	PropertyBase
}

// PropertyUpdated is a changed scalar or reference value.
type PropertyUpdated struct {
	PropertyBase
}

type ObjectPropertyUpdated struct {
	PropertyBase
	Changes *ObjectChanges
}

type ArrayPropertyUpdated struct {
	PropertyBase
	Changes *ArrayChanges
}

// ElementBase is shared by array element change records. An index is -1
// and the element nil when the element does not exist on that side. The
// elements are those of the snapshots at diff time, so records stay
// usable when a revert edits the after snapshot itself.
type ElementBase struct {
	ArrayBefore   *doc.Array
	ArrayAfter    *doc.Array
	Prop          *schema.Prop
	IndexBefore   int
	IndexAfter    int
	ElementBefore *doc.Object
	ElementAfter  *doc.Object
}

func (b *ElementBase) Element() *ElementBase { return b }
func (b *ElementBase) Revertable() bool      { return true }

// Before returns the element in the before array, or nil.
func (b *ElementBase) Before() *doc.Object {
	return b.ElementBefore
}

// After returns the element in the after array, or nil.
func (b *ElementBase) After() *doc.Object {
	return b.ElementAfter
}

func (b *ElementBase) Path() string {
	if b.ElementAfter != nil {
		return b.ElementAfter.Path()
	}
	a := b.ArrayAfter
	if a == nil {
		a = b.ArrayBefore
	}
	return kpath.Index(a.Path(), b.IndexBefore)
}

type ArrayElementAdded struct {
	ElementBase
}

type ArrayElementRemoved struct {
	ElementBase
}

type ArrayElementUpdated struct {
	ElementBase
	Changes *ObjectChanges
}

// ArrayShuffled marks an array whose elements only changed position.
type ArrayShuffled struct {
	ArrayBefore *doc.Array
	ArrayAfter  *doc.Array
	Prop        *schema.Prop
}

func (s *ArrayShuffled) Path() string     { return s.ArrayAfter.Path() }
func (s *ArrayShuffled) Revertable() bool { return false }

func (*PropertyAdded) isChange()         {}
func (*PropertyRemoved) isChange()       {}
func (*PropertyUpdated) isChange()       {}
func (*ObjectPropertyUpdated) isChange() {}
func (*ArrayPropertyUpdated) isChange()  {}
func (*ArrayElementAdded) isChange()     {}
func (*ArrayElementRemoved) isChange()   {}
func (*ArrayElementUpdated) isChange()   {}
func (*ArrayShuffled) isChange()         {}
