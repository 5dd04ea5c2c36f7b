package doc

import (
	"errors"
	"fmt"

	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/schema"
)

// IDField is the plain data key holding an object's identity.
const IDField = "objID"

var (
	ErrNotFound    = errors.New("not found")
	ErrKind        = errors.New("wrong kind")
	ErrUnknownProp = errors.New("unknown property")
	ErrAttached    = errors.New("already attached")
	ErrDuplicateID = errors.New("duplicate objID")
	ErrNoID        = errors.New("missing objID")
)

// Object is a typed node of a project document. Property values are held
// according to the kind of the property:
//
//   - Scalar and Reference: *ir.Node
//   - Object: *Object
//   - Array: *Array
//
// An absent value means the property is not set.
type Object struct {
	Class *schema.Class
	ID    string

	// Parent is the object owning this one, either directly through
	// ParentProp or as element ParentIndex of the array in ParentProp.
	Parent      *Object
	ParentProp  string
	ParentIndex int

	values map[string]any
}

// New returns an empty, unattached object of class c.
func New(c *schema.Class) *Object {
	return &Object{
		Class:       c,
		ParentIndex: -1,
		values:      map[string]any{},
	}
}

// NewElement is New with an identity, for use as an array element.
func NewElement(c *schema.Class, id string) *Object {
	o := New(c)
	o.ID = id
	return o
}

// Get returns the value of the property name, or nil if it is not set.
func (o *Object) Get(name string) any {
	return o.values[name]
}

// Has reports whether the property name is set.
func (o *Object) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

func (o *Object) Scalar(name string) *ir.Node {
	n, _ := o.values[name].(*ir.Node)
	return n
}

func (o *Object) Object(name string) *Object {
	c, _ := o.values[name].(*Object)
	return c
}

func (o *Object) Array(name string) *Array {
	a, _ := o.values[name].(*Array)
	return a
}

// Set sets the property name to v. A nil v clears the property.
//
// Object and array values are attached to o; Set fails with ErrAttached if
// they already belong to another owner or if attaching would make o its own
// descendant.
func (o *Object) Set(name string, v any) error {
	prop := o.Class.Prop(name)
	if prop == nil {
		return fmt.Errorf("%w %q of %s", ErrUnknownProp, name, o.Class.Name)
	}
	if isNil(v) {
		o.Clear(name)
		return nil
	}
	switch prop.Kind {
	case schema.Scalar, schema.Reference:
		n, ok := v.(*ir.Node)
		if !ok {
			return fmt.Errorf("%w: %s.%s wants a plain value, got %T", ErrKind, o.Class.Name, name, v)
		}
		if n.Parent != nil {
			n = n.Clone().Detach()
		}
		o.Clear(name)
		o.values[name] = n
	case schema.Object:
		c, ok := v.(*Object)
		if !ok {
			return fmt.Errorf("%w: %s.%s wants an object, got %T", ErrKind, o.Class.Name, name, v)
		}
		if c.Class != prop.Class {
			return fmt.Errorf("%w: %s.%s wants class %s, got %s", ErrKind, o.Class.Name, name, prop.ClassName, c.Class.Name)
		}
		if o.Object(name) == c {
			return nil
		}
		if err := o.checkAttach(c); err != nil {
			return err
		}
		o.Clear(name)
		c.Parent, c.ParentProp, c.ParentIndex = o, name, -1
		o.values[name] = c
	case schema.Array:
		a, ok := v.(*Array)
		if !ok {
			return fmt.Errorf("%w: %s.%s wants an array, got %T", ErrKind, o.Class.Name, name, v)
		}
		if o.Array(name) == a {
			return nil
		}
		if a.Owner != nil {
			return fmt.Errorf("%w: array %s", ErrAttached, a.Path())
		}
		for _, e := range a.Elements {
			if e.Parent != nil {
				return fmt.Errorf("%w: %s at %s", ErrAttached, Label(e), e.Path())
			}
			if e.Class != prop.Class {
				return fmt.Errorf("%w: %s.%s wants elements of class %s, got %s", ErrKind, o.Class.Name, name, prop.ClassName, e.Class.Name)
			}
			if err := o.checkAncestor(e); err != nil {
				return err
			}
		}
		o.Clear(name)
		a.Owner, a.Prop = o, name
		a.reindex(0)
		o.values[name] = a
	}
	return nil
}

// Clear unsets the property name, detaching any object or array it held.
func (o *Object) Clear(name string) {
	switch x := o.values[name].(type) {
	case *Object:
		x.Parent, x.ParentProp, x.ParentIndex = nil, "", -1
	case *Array:
		x.Owner, x.Prop = nil, ""
		x.reindex(0)
	}
	delete(o.values, name)
}

func (o *Object) checkAttach(c *Object) error {
	if c.Parent != nil {
		return fmt.Errorf("%w: %s at %s", ErrAttached, Label(c), c.Path())
	}
	return o.checkAncestor(c)
}

func (o *Object) checkAncestor(c *Object) error {
	for a := o; a != nil; a = a.Parent {
		if a == c {
			return fmt.Errorf("%w: %s would contain itself", ErrAttached, Label(c))
		}
	}
	return nil
}

// Root returns the top-most ancestor of o.
func (o *Object) Root() *Object {
	res := o
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

func (o *Object) String() string {
	return Label(o)
}

// Label returns the display label of o: the value of its class's label
// property if that is a non-empty string, else "Class#objID".
func Label(o *Object) string {
	if o == nil {
		return "<nil>"
	}
	if o.Class.LabelProp != "" {
		if n := o.Scalar(o.Class.LabelProp); n != nil && n.Type == ir.StringType && n.String != "" {
			return n.String
		}
	}
	if o.ID == "" {
		return o.Class.Name
	}
	return o.Class.Name + "#" + o.ID
}

func isNil(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *ir.Node:
		return x == nil
	case *Object:
		return x == nil
	case *Array:
		return x == nil
	}
	return false
}
