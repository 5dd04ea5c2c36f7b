package doc

import (
	"fmt"

	"github.com/signadot/projdiff/schema"
)

// Array is the ordered value of an array property. Elements are matched
// across documents by their ID.
type Array struct {
	Owner    *Object
	Prop     string
	Elements []*Object
}

// NewArray returns an unattached array holding elems, which must not
// belong to another object.
func NewArray(elems ...*Object) (*Array, error) {
	for i, e := range elems {
		if e.Parent != nil {
			return nil, fmt.Errorf("%w: %s at %s", ErrAttached, Label(e), e.Path())
		}
		for _, x := range elems[:i] {
			if x == e {
				return nil, fmt.Errorf("%w: %s given twice", ErrAttached, Label(e))
			}
		}
	}
	a := &Array{Elements: elems}
	a.reindex(0)
	return a, nil
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Elements)
}

func (a *Array) At(i int) *Object {
	return a.Elements[i]
}

// IndexOf returns the index of the first element with identity id, or -1.
func (a *Array) IndexOf(id string) int {
	if a == nil {
		return -1
	}
	for i, e := range a.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ByID returns the first element with identity id, or nil.
func (a *Array) ByID(id string) *Object {
	i := a.IndexOf(id)
	if i == -1 {
		return nil
	}
	return a.Elements[i]
}

// ElementClass returns the class of elements of an attached array, or nil.
func (a *Array) ElementClass() *schema.Class {
	if a.Owner == nil {
		return nil
	}
	p := a.Owner.Class.Prop(a.Prop)
	if p == nil {
		return nil
	}
	return p.Class
}

// Insert inserts e before index i. i == Len() appends.
func (a *Array) Insert(i int, e *Object) error {
	if i < 0 || i > len(a.Elements) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(a.Elements))
	}
	if err := a.checkElement(e); err != nil {
		return err
	}
	if a.IndexOf(e.ID) != -1 {
		return fmt.Errorf("%w %q in %s", ErrDuplicateID, e.ID, a.Path())
	}
	a.Elements = append(a.Elements, nil)
	copy(a.Elements[i+1:], a.Elements[i:])
	a.Elements[i] = e
	a.reindex(i)
	return nil
}

func (a *Array) Append(e *Object) error {
	return a.Insert(len(a.Elements), e)
}

// Remove removes and returns the element at index i, detached.
func (a *Array) Remove(i int) *Object {
	e := a.Elements[i]
	a.Elements = append(a.Elements[:i], a.Elements[i+1:]...)
	e.Parent, e.ParentProp, e.ParentIndex = nil, "", -1
	a.reindex(i)
	return e
}

// Replace replaces the element at index i by e, which must carry the same
// identity.
func (a *Array) Replace(i int, e *Object) error {
	if i < 0 || i >= len(a.Elements) {
		return fmt.Errorf("replace index %d out of range [0,%d)", i, len(a.Elements))
	}
	old := a.Elements[i]
	if e == old {
		return nil
	}
	if e.ID != old.ID {
		return fmt.Errorf("replace %s with %s: objID differs", Label(old), Label(e))
	}
	if err := a.checkElement(e); err != nil {
		return err
	}
	old.Parent, old.ParentProp, old.ParentIndex = nil, "", -1
	a.Elements[i] = e
	a.reindex(i)
	return nil
}

func (a *Array) checkElement(e *Object) error {
	if e.ID == "" {
		return fmt.Errorf("%w: %s", ErrNoID, Label(e))
	}
	if e.Parent != nil {
		return fmt.Errorf("%w: %s at %s", ErrAttached, Label(e), e.Path())
	}
	for _, x := range a.Elements {
		if x == e {
			return fmt.Errorf("%w: %s in %s", ErrAttached, Label(e), a.Path())
		}
	}
	if c := a.ElementClass(); c != nil && e.Class != c {
		return fmt.Errorf("%w: %s wants class %s, got %s", ErrKind, a.Path(), c.Name, e.Class.Name)
	}
	if a.Owner != nil {
		return a.Owner.checkAncestor(e)
	}
	return nil
}

func (a *Array) reindex(from int) {
	for i := from; i < len(a.Elements); i++ {
		e := a.Elements[i]
		e.Parent, e.ParentProp, e.ParentIndex = a.Owner, a.Prop, i
	}
}
