package render

import (
	"strings"

	"github.com/fatih/color"
)

// Colors holds the sprintf functions used to paint change markers. A nil
// *Colors paints nothing.
type Colors struct {
	Added   func(string, ...any) string
	Removed func(string, ...any) string
	Updated func(string, ...any) string
	Moved   func(string, ...any) string
	Path    func(string, ...any) string
}

func NewColors() *Colors {
	c := &Colors{
		Added:   color.New(color.FgGreen).SprintfFunc(),
		Removed: color.New(color.FgRed).SprintfFunc(),
		Updated: color.RGB(198, 198, 46).SprintfFunc(),
		Moved:   color.CyanString,
		Path:    color.RGB(96, 96, 96).SprintfFunc(),
	}
	for _, f := range []*func(string, ...any) string{&c.Added, &c.Removed, &c.Updated, &c.Moved, &c.Path} {
		g := *f
		*f = func(v string, _ ...any) string {
			return g(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return c
}

func (c *Colors) added(s string) string {
	if c == nil {
		return s
	}
	return c.Added(s)
}

func (c *Colors) removed(s string) string {
	if c == nil {
		return s
	}
	return c.Removed(s)
}

func (c *Colors) updated(s string) string {
	if c == nil {
		return s
	}
	return c.Updated(s)
}

func (c *Colors) moved(s string) string {
	if c == nil {
		return s
	}
	return c.Moved(s)
}

func (c *Colors) path(s string) string {
	if c == nil {
		return s
	}
	return c.Path(s)
}
