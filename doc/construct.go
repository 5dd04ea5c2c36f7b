package doc

import (
	"fmt"

	"github.com/signadot/projdiff/debug"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/objid"
	"github.com/signadot/projdiff/schema"
)

// Factory builds typed objects from plain data.
type Factory interface {
	Construct(c *schema.Class, plain *ir.Node) (*Object, error)
}

// Constructor is the default Factory. Array elements without an objID
// receive a fresh one from IDs, or from objid.New if IDs is nil.
type Constructor struct {
	IDs *objid.Generator
	// Strict rejects fields the class does not declare instead of
	// ignoring them.
	Strict bool
}

func (c *Constructor) newID() string {
	if c.IDs == nil {
		return objid.New()
	}
	return c.IDs.New()
}

// Construct builds an unattached object of class cls from plain, which
// must be an object node. Null values of object and array properties
// leave them unset.
func (c *Constructor) Construct(cls *schema.Class, plain *ir.Node) (*Object, error) {
	if plain == nil || plain.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: construct %s from %s", ErrKind, cls.Name, typeOf(plain))
	}
	o := New(cls)
	for i, f := range plain.Fields {
		name, val := f.String, plain.Values[i]
		if name == IDField {
			id, err := idString(val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cls.Name, IDField, err)
			}
			o.ID = id
			continue
		}
		prop := cls.Prop(name)
		if prop == nil {
			if c.Strict {
				return nil, fmt.Errorf("%w %q of %s", ErrUnknownProp, name, cls.Name)
			}
			if debug.Load() {
				debug.Logf("construct %s: ignoring field %q", cls.Name, name)
			}
			continue
		}
		switch prop.Kind {
		case schema.Scalar, schema.Reference:
			o.values[name] = val.Clone().Detach()
		case schema.Object:
			if val.Type == ir.NullType {
				continue
			}
			child, err := c.Construct(prop.Class, val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cls.Name, name, err)
			}
			child.Parent, child.ParentProp, child.ParentIndex = o, name, -1
			o.values[name] = child
		case schema.Array:
			if val.Type == ir.NullType {
				continue
			}
			a, err := c.constructArray(prop.Class, val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cls.Name, name, err)
			}
			a.Owner, a.Prop = o, name
			a.reindex(0)
			o.values[name] = a
		}
	}
	return o, nil
}

// ConstructArray builds an unattached array of elements of class cls from
// plain, which must be an array node of objects.
func ConstructArray(f Factory, cls *schema.Class, plain *ir.Node) (*Array, error) {
	if c, ok := f.(*Constructor); ok {
		return c.constructArray(cls, plain)
	}
	return constructArray(f, cls, plain, objid.New)
}

func (c *Constructor) constructArray(cls *schema.Class, plain *ir.Node) (*Array, error) {
	return constructArray(c, cls, plain, c.newID)
}

func constructArray(f Factory, cls *schema.Class, plain *ir.Node, newID func() string) (*Array, error) {
	if plain == nil || plain.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: construct []%s from %s", ErrKind, cls.Name, typeOf(plain))
	}
	elems := make([]*Object, len(plain.Values))
	for i, v := range plain.Values {
		e, err := f.Construct(cls, v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		if e.ID == "" {
			e.ID = newID()
		}
		elems[i] = e
	}
	return NewArray(elems...)
}

// ToIR returns the plain data form of o: its objID, if any, followed by
// the set properties in class order.
func ToIR(o *Object) *ir.Node {
	kvs := make([]ir.KeyVal, 0, len(o.values)+1)
	if o.ID != "" {
		kvs = append(kvs, ir.KeyVal{Key: IDField, Val: ir.FromString(o.ID)})
	}
	for _, p := range o.Class.Props {
		v := o.values[p.Name]
		if v == nil {
			continue
		}
		kvs = append(kvs, ir.KeyVal{Key: p.Name, Val: valueToIR(v)})
	}
	return ir.FromKeyVals(kvs)
}

// ArrayToIR returns the plain data form of a.
func ArrayToIR(a *Array) *ir.Node {
	vals := make([]*ir.Node, len(a.Elements))
	for i, e := range a.Elements {
		vals[i] = ToIR(e)
	}
	return ir.FromSlice(vals)
}

// ValueToIR returns the plain data form of a property value.
func ValueToIR(v any) *ir.Node {
	if isNil(v) {
		return ir.Null()
	}
	return valueToIR(v)
}

func valueToIR(v any) *ir.Node {
	switch x := v.(type) {
	case *ir.Node:
		return x.Clone().Detach()
	case *Object:
		return ToIR(x)
	case *Array:
		return ArrayToIR(x)
	}
	panic(fmt.Sprintf("doc: value of type %T", v))
}

// Clone returns an unattached deep copy of o built by f.
func Clone(f Factory, o *Object) (*Object, error) {
	return f.Construct(o.Class, ToIR(o))
}

// CloneArray returns an unattached deep copy of a built by f.
func CloneArray(f Factory, cls *schema.Class, a *Array) (*Array, error) {
	return ConstructArray(f, cls, ArrayToIR(a))
}

// Equal reports whether a and b have the same class and plain data.
func Equal(a, b *Object) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Class == b.Class && ir.Equal(ToIR(a), ToIR(b))
}

func idString(n *ir.Node) (string, error) {
	switch n.Type {
	case ir.StringType:
		return n.String, nil
	case ir.NumberType:
		return ir.MustJSON(n), nil
	}
	return "", fmt.Errorf("%w: objID is %s", ErrKind, n.Type)
}

func typeOf(n *ir.Node) string {
	if n == nil {
		return "nothing"
	}
	return n.Type.String()
}
