package schema

import "fmt"

// Kind is the kind of value a property holds.
type Kind int

const (
	// Scalar properties hold plain data compared by value.
	Scalar Kind = iota
	// Object properties hold a single nested object of the property's class.
	Object
	// Array properties hold an ordered list of identity-bearing objects.
	Array
	// Reference properties hold plain data naming another object.
	Reference
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		Scalar:    "scalar",
		Object:    "object",
		Array:     "array",
		Reference: "reference",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"":          Scalar,
		"scalar":    Scalar,
		"object":    Object,
		"array":     Array,
		"reference": Reference,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized property kind %q", d)
	}
	*k = kk
	return nil
}

// Nested reports whether values of kind k are typed objects.
func (k Kind) Nested() bool {
	return k == Object || k == Array
}

// Prop describes one property of a class.
type Prop struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind,omitempty"`
	// ClassName names the class of Object values and Array elements.
	ClassName string `yaml:"class,omitempty"`
	// Class is ClassName resolved by the registry.
	Class *Class `yaml:"-"`

	DisplayName string `yaml:"displayName,omitempty"`

	// Computed properties are derived from other state and never diffed.
	Computed bool `yaml:"computed,omitempty"`
	// ExcludeFromDiff marks administrative state of the owning class,
	// such as stored change history.
	ExcludeFromDiff bool `yaml:"excludeFromDiff,omitempty"`
	// Mandatory properties must be present for the document to be valid;
	// adding one can not be reverted by clearing it.
	Mandatory bool `yaml:"mandatory,omitempty"`
}

// Diffed reports whether the differ looks at p.
func (p *Prop) Diffed() bool {
	return !p.Computed && !p.ExcludeFromDiff
}

// Label returns the name to show for p.
func (p *Prop) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

func (p *Prop) String() string {
	if p.Kind.Nested() {
		return fmt.Sprintf("%s: %s(%s)", p.Name, p.Kind, p.ClassName)
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Kind)
}

// Class describes an object type: its properties in declaration order.
type Class struct {
	Name string `yaml:"name"`
	// LabelProp names the scalar property holding a display label.
	LabelProp string  `yaml:"label,omitempty"`
	Props     []*Prop `yaml:"props"`
}

// Prop returns the property named name, or nil.
func (c *Class) Prop(name string) *Prop {
	for _, p := range c.Props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// DiffProps returns the properties the differ compares, in order.
func (c *Class) DiffProps() []*Prop {
	res := make([]*Prop, 0, len(c.Props))
	for _, p := range c.Props {
		if p.Diffed() {
			res = append(res, p)
		}
	}
	return res
}

func (c *Class) String() string {
	return c.Name
}
