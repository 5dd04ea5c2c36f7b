package changes

import (
	"github.com/signadot/projdiff/doc"
)

// Op classifies an entry for presentation and selection.
type Op string

const (
	OpAdded   Op = "added"
	OpRemoved Op = "removed"
	OpUpdated Op = "updated"
	OpMoved   Op = "moved"
)

// Entry is a change record together with the information needed to list
// and select it.
type Entry struct {
	// Index is the position of the entry in the result of Flatten.
	Index int
	Path  string
	Op    Op
	Kind  string
	Prop  string
	Label string
	// Depth is the nesting level of the record in the change tree.
	Depth  int
	Change Change
}

// Flatten returns the records of oc depth first. A record changing a
// nested object or array precedes the records it contains.
func Flatten(oc *ObjectChanges) []Entry {
	res := flattenObject(nil, oc, 0)
	for i := range res {
		res[i].Index = i
	}
	return res
}

func flattenObject(res []Entry, oc *ObjectChanges, depth int) []Entry {
	for _, c := range oc.Changes {
		res = append(res, NewEntry(c, depth))
		switch x := c.(type) {
		case *ObjectPropertyUpdated:
			res = flattenObject(res, x.Changes, depth+1)
		case *ArrayPropertyUpdated:
			res = flattenArray(res, x.Changes, depth+1)
		}
	}
	return res
}

func flattenArray(res []Entry, ac *ArrayChanges, depth int) []Entry {
	for _, c := range ac.Changes {
		res = append(res, NewEntry(c, depth))
		if x, ok := c.(*ArrayElementUpdated); ok {
			res = flattenObject(res, x.Changes, depth+1)
		}
	}
	if ac.Shuffled != nil {
		res = append(res, NewEntry(ac.Shuffled, depth))
	}
	return res
}

// NewEntry describes c.
func NewEntry(c Change, depth int) Entry {
	e := Entry{Path: c.Path(), Kind: KindOf(c), Depth: depth, Change: c}
	switch x := c.(type) {
	case *PropertyAdded:
		e.Op = OpAdded
	case *PropertyRemoved:
		e.Op = OpRemoved
	case *PropertyUpdated, *ObjectPropertyUpdated, *ArrayPropertyUpdated:
		e.Op = OpUpdated
	case *ArrayElementAdded:
		e.Op = OpAdded
		e.Label = doc.Label(x.After())
	case *ArrayElementRemoved:
		e.Op = OpRemoved
		e.Label = doc.Label(x.Before())
	case *ArrayElementUpdated:
		e.Op = OpUpdated
		e.Label = doc.Label(x.After())
	case *ArrayShuffled:
		e.Op = OpMoved
		e.Prop = x.Prop.Name
		e.Label = x.Prop.Label()
	}
	switch x := c.(type) {
	case PropertyChange:
		b := x.Property()
		e.Prop = b.Prop.Name
		e.Label = b.Prop.Label()
	case ArrayChange:
		e.Prop = x.Element().Prop.Name
	}
	return e
}

// KindOf returns the name of the record kind of c.
func KindOf(c Change) string {
	switch c.(type) {
	case *PropertyAdded:
		return "PropertyAdded"
	case *PropertyRemoved:
		return "PropertyRemoved"
	case *PropertyUpdated:
		return "PropertyUpdated"
	case *ObjectPropertyUpdated:
		return "ObjectPropertyUpdated"
	case *ArrayPropertyUpdated:
		return "ArrayPropertyUpdated"
	case *ArrayElementAdded:
		return "ArrayElementAdded"
	case *ArrayElementRemoved:
		return "ArrayElementRemoved"
	case *ArrayElementUpdated:
		return "ArrayElementUpdated"
	case *ArrayShuffled:
		return "ArrayShuffled"
	}
	return "unknown"
}
