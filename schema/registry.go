package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrUnknownClass = errors.New("unknown class")
	ErrInvalid      = errors.New("invalid class")
	ErrCycle        = errors.New("class requires itself")
)

// Registry manages all known classes. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	classes map[string]*Class
	order   []string
	root    string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
	}
}

// Register adds classes to the registry and resolves the classes named by
// their nested properties. Classes may refer to each other and to classes
// registered earlier. On error the registry is left unchanged.
func (r *Registry) Register(classes ...*Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := make(map[string]*Class, len(classes))
	for _, c := range classes {
		if err := validate(c); err != nil {
			return err
		}
		if _, exists := r.classes[c.Name]; exists {
			return fmt.Errorf("%w: class %q already registered", ErrInvalid, c.Name)
		}
		if _, exists := added[c.Name]; exists {
			return fmt.Errorf("%w: class %q defined twice", ErrInvalid, c.Name)
		}
		added[c.Name] = c
	}
	lookup := func(name string) *Class {
		if c, ok := added[name]; ok {
			return c
		}
		return r.classes[name]
	}
	resolved := make(map[*Prop]*Class)
	for _, c := range classes {
		for _, p := range c.Props {
			if !p.Kind.Nested() {
				continue
			}
			pc := lookup(p.ClassName)
			if pc == nil {
				return fmt.Errorf("%w %q for %s.%s", ErrUnknownClass, p.ClassName, c.Name, p.Name)
			}
			resolved[p] = pc
		}
	}
	if err := checkCycles(classes, resolved); err != nil {
		return err
	}
	for p, pc := range resolved {
		p.Class = pc
	}
	for _, c := range classes {
		r.classes[c.Name] = c
		r.order = append(r.order, c.Name)
	}
	return nil
}

func validate(c *Class) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("%w: class must have a name", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Props))
	for _, p := range c.Props {
		if p.Name == "" {
			return fmt.Errorf("%w: %s has a property without a name", ErrInvalid, c.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s.%s declared twice", ErrInvalid, c.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Kind.Nested() && p.ClassName == "" {
			return fmt.Errorf("%w: %s.%s of kind %s needs a class", ErrInvalid, c.Name, p.Name, p.Kind)
		}
	}
	if c.LabelProp != "" {
		lp := c.Prop(c.LabelProp)
		if lp == nil || lp.Kind.Nested() {
			return fmt.Errorf("%w: %s label %q is not a scalar property", ErrInvalid, c.Name, c.LabelProp)
		}
	}
	return nil
}

// checkCycles rejects classes that can only be instantiated with an
// infinite tree: a chain of mandatory object properties leading back to
// the class it started from. Arrays and optional properties provide an
// escape since they may be empty or absent.
func checkCycles(classes []*Class, resolved map[*Prop]*Class) error {
	const (
		white = iota
		grey
		black
	)
	color := map[*Class]int{}
	var stack []string
	var visit func(c *Class) error
	visit = func(c *Class) error {
		switch color[c] {
		case grey:
			i := slices.Index(stack, c.Name)
			cycle := append(slices.Clone(stack[i:]), c.Name)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
		case black:
			return nil
		}
		color[c] = grey
		stack = append(stack, c.Name)
		for _, p := range c.Props {
			if p.Kind != Object || !p.Mandatory {
				continue
			}
			pc := resolved[p]
			if pc == nil {
				pc = p.Class
			}
			if pc == nil {
				continue
			}
			if err := visit(pc); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[c] = black
		return nil
	}
	for _, c := range classes {
		if err := visit(c); err != nil {
			return err
		}
	}
	return nil
}

// SetRoot names the class of document roots.
func (r *Registry) SetRoot(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.classes[name]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownClass, name)
	}
	r.root = name
	return nil
}

// Root returns the document root class, or nil if none was set.
func (r *Registry) Root() *Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classes[r.root]
}

// Class returns a class by name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// MustClass is like Class but panics when name is not registered.
func (r *Registry) MustClass(name string) *Class {
	c, ok := r.Class(name)
	if !ok {
		panic(fmt.Sprintf("schema: %v %q", ErrUnknownClass, name))
	}
	return c
}

// Classes returns all registered classes in registration order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*Class, len(r.order))
	for i, name := range r.order {
		res[i] = r.classes[name]
	}
	return res
}
