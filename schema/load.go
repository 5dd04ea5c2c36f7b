package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// File is the YAML (or JSON) form of a set of class definitions.
//
//	root: Project
//	classes:
//	- name: Project
//	  props:
//	  - name: title
//	  - name: pages
//	    kind: array
//	    class: Page
type File struct {
	Root    string   `yaml:"root"`
	Classes []*Class `yaml:"classes"`
}

// Load decodes class definitions and registers them in a new registry.
func Load(d []byte) (*Registry, error) {
	f := &File{}
	if err := yaml.UnmarshalWithOptions(d, f, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	r := NewRegistry()
	if err := r.Register(f.Classes...); err != nil {
		return nil, err
	}
	if f.Root != "" {
		if err := r.SetRoot(f.Root); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadFile is Load on the contents of path.
func LoadFile(path string) (*Registry, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Load(d)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", path, err)
	}
	return r, nil
}
