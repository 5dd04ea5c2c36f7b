// Package render presents change sets to people and to other tools.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/signadot/projdiff/changes"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Options struct {
	Colors *Colors
	// Indent is the indentation per level, two spaces if empty.
	Indent string
	// MaxValue truncates displayed values to this many runes; 0 means 60,
	// a negative value disables truncation.
	MaxValue int
	// Paths appends the path of each element change.
	Paths bool
}

// Text writes oc as an indented tree, one line per change:
//
//	~ Title: "Demo" -> "Other"
//	~ pages:
//	  + [1] New
//	  - [1] Settings
//	  ~ [0] Main
//	    ~ name: "Ma[-in-]{+x+}"
//
// Array changes are grouped as added, removed, changed and moved.
func Text(w io.Writer, oc *changes.ObjectChanges, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	t := &textWriter{buf: bytes.NewBuffer(nil), opts: opts, indent: opts.Indent}
	if t.indent == "" {
		t.indent = "  "
	}
	t.object(oc, 0)
	_, err := w.Write(t.buf.Bytes())
	return err
}

type textWriter struct {
	buf    *bytes.Buffer
	opts   *Options
	indent string
}

func (t *textWriter) line(depth int, s string) {
	t.buf.WriteString(strings.Repeat(t.indent, depth))
	t.buf.WriteString(s)
	t.buf.WriteByte('\n')
}

func (t *textWriter) object(oc *changes.ObjectChanges, depth int) {
	c := t.opts.Colors
	for _, pc := range oc.Changes {
		b := pc.Property()
		name := b.Prop.Label()
		switch x := pc.(type) {
		case *changes.PropertyAdded:
			t.line(depth, c.added("+ "+name+": "+t.value(b.After())))
		case *changes.PropertyRemoved:
			t.line(depth, c.removed("- "+name+": "+t.value(b.Before())))
		case *changes.PropertyUpdated:
			t.line(depth, c.updated("~ "+name+": ")+t.scalarUpdate(b.Before().(*ir.Node), b.After().(*ir.Node)))
		case *changes.ObjectPropertyUpdated:
			t.line(depth, c.updated("~ "+name+":"))
			t.object(x.Changes, depth+1)
		case *changes.ArrayPropertyUpdated:
			t.line(depth, c.updated("~ "+name+":"))
			t.array(x.Changes, depth+1)
		}
	}
}

func (t *textWriter) array(ac *changes.ArrayChanges, depth int) {
	c := t.opts.Colors
	for _, ch := range ac.Changes {
		if x, ok := ch.(*changes.ArrayElementAdded); ok {
			t.line(depth, c.added(fmt.Sprintf("+ [%d] %s", x.IndexAfter, doc.Label(x.After())))+t.where(x))
		}
	}
	for _, ch := range ac.Changes {
		if x, ok := ch.(*changes.ArrayElementRemoved); ok {
			t.line(depth, c.removed(fmt.Sprintf("- [%d] %s", x.IndexBefore, doc.Label(x.Before())))+t.where(x))
		}
	}
	for _, ch := range ac.Changes {
		if x, ok := ch.(*changes.ArrayElementUpdated); ok {
			t.line(depth, c.updated(fmt.Sprintf("~ [%d] %s", x.IndexAfter, doc.Label(x.After())))+t.where(x))
			t.object(x.Changes, depth+1)
		}
	}
	if s := ac.Shuffled; s != nil {
		ids := make([]string, s.ArrayAfter.Len())
		for i, e := range s.ArrayAfter.Elements {
			ids[i] = doc.Label(e)
		}
		t.line(depth, c.moved("↕ order: "+strings.Join(ids, ", ")))
	}
}

func (t *textWriter) where(c changes.Change) string {
	if !t.opts.Paths {
		return ""
	}
	return " " + t.opts.Colors.path("("+c.Path()+")")
}

func (t *textWriter) value(v any) string {
	return t.truncate(ir.MustJSON(doc.ValueToIR(v)))
}

func (t *textWriter) truncate(s string) string {
	limit := t.opts.MaxValue
	if limit == 0 {
		limit = 60
	}
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "…"
}

// scalarUpdate shows strings with small edits as an inline character diff
// and everything else as before -> after.
func (t *textWriter) scalarUpdate(from, to *ir.Node) string {
	c := t.opts.Colors
	whole := c.removed(t.truncate(ir.MustJSON(from))) + " -> " + c.added(t.truncate(ir.MustJSON(to)))
	if from.Type != ir.StringType || to.Type != ir.StringType {
		return whole
	}
	dmp := diffpatch.New()
	multiLine := strings.Contains(from.String, "\n") && strings.Contains(to.String, "\n")
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from.String, to.String, multiLine))
	size := 0
	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			size += len(d.Text)
		}
	}
	if size > min(len(from.String), len(to.String))/2 {
		return whole
	}
	buf := bytes.NewBuffer(nil)
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffEqual:
			buf.WriteString(d.Text)
		case diffpatch.DiffDelete:
			buf.WriteString(c.removed("[-" + d.Text + "-]"))
		case diffpatch.DiffInsert:
			buf.WriteString(c.added("{+" + d.Text + "+}"))
		}
	}
	return `"` + buf.String() + `"`
}
