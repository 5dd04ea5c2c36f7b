package doc

import (
	"fmt"

	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/ir/kpath"
)

// Path returns the kinded path of o from the root of its document,
// for example "pages[2].widgets[0]". The root's path is "".
func (o *Object) Path() string {
	if o.Parent == nil {
		if o.ParentIndex >= 0 {
			return kpath.Index("", o.ParentIndex)
		}
		return ""
	}
	p := kpath.Field(o.Parent.Path(), o.ParentProp)
	if o.ParentIndex >= 0 {
		p = kpath.Index(p, o.ParentIndex)
	}
	return p
}

// Path returns the kinded path of the property holding a.
func (a *Array) Path() string {
	if a == nil || a.Owner == nil {
		return ""
	}
	return kpath.Field(a.Owner.Path(), a.Prop)
}

// PathOf returns the path of an *Object or *Array.
func PathOf(v any) string {
	switch x := v.(type) {
	case *Object:
		return x.Path()
	case *Array:
		return x.Path()
	}
	panic(fmt.Sprintf("doc: PathOf %T", v))
}

// Resolve returns the value at path in the document rooted at root: an
// *Object, an *Array, or an *ir.Node for scalar data. It fails with
// ErrNotFound if any segment does not exist.
func Resolve(root *Object, path string) (any, error) {
	kp, err := kpath.Parse(path)
	if err != nil {
		return nil, err
	}
	var cur any = root
	at := ""
	for x := kp; x != nil; x = x.Next {
		next := at + x.SegmentString()
		if x.Field != nil {
			next = kpath.Join(at, x.SegmentString())
		}
		switch c := cur.(type) {
		case *Object:
			if x.Field == nil {
				return nil, notFound(path, next, "object %s is not indexed", Label(c))
			}
			if c.Class.Prop(*x.Field) == nil {
				return nil, notFound(path, next, "class %s has no such property", c.Class.Name)
			}
			v := c.Get(*x.Field)
			if v == nil {
				return nil, notFound(path, next, "property not set")
			}
			cur = v
		case *Array:
			if x.Index == nil {
				return nil, notFound(path, next, "array has no fields")
			}
			if *x.Index >= c.Len() {
				return nil, notFound(path, next, "index out of range [0,%d)", c.Len())
			}
			cur = c.Elements[*x.Index]
		case *ir.Node:
			n, err := resolveNode(c, x)
			if err != nil {
				return nil, notFound(path, next, "%v", err)
			}
			cur = n
		}
		at = next
	}
	return cur, nil
}

// ResolveObject is Resolve restricted to object targets.
func ResolveObject(root *Object, path string) (*Object, error) {
	v, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q is not an object", ErrNotFound, ErrKind, path)
	}
	return o, nil
}

// ResolveArray is Resolve restricted to array targets.
func ResolveArray(root *Object, path string) (*Array, error) {
	v, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*Array)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q is not an array", ErrNotFound, ErrKind, path)
	}
	return a, nil
}

func resolveNode(n *ir.Node, x *kpath.KPath) (*ir.Node, error) {
	switch {
	case x.Field != nil:
		if n.Type != ir.ObjectType {
			return nil, fmt.Errorf("field of %s", n.Type)
		}
		v := ir.Get(n, *x.Field)
		if v == nil {
			return nil, fmt.Errorf("no such field")
		}
		return v, nil
	case x.Index != nil:
		if n.Type != ir.ArrayType {
			return nil, fmt.Errorf("index of %s", n.Type)
		}
		if *x.Index >= len(n.Values) {
			return nil, fmt.Errorf("index out of range [0,%d)", len(n.Values))
		}
		return n.Values[*x.Index], nil
	}
	return nil, fmt.Errorf("empty segment")
}

func notFound(path, at, format string, args ...any) error {
	return fmt.Errorf("%w: %q at %q: %s", ErrNotFound, path, at, fmt.Sprintf(format, args...))
}
