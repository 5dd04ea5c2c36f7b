// Package fixture holds the project schema and documents shared by tests.
package fixture

import (
	"testing"

	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"
	"github.com/signadot/projdiff/objid"
	"github.com/signadot/projdiff/schema"
)

const Schema = `
root: Project
classes:
- name: Project
  props:
  - name: settings
    kind: object
    class: Settings
    mandatory: true
  - name: title
    displayName: Title
  - name: pages
    kind: array
    class: Page
  - name: changes
    excludeFromDiff: true
- name: Settings
  props:
  - name: displayWidth
  - name: theme
    kind: reference
  - name: general
    kind: object
    class: General
- name: General
  props:
  - name: author
  - name: tags
- name: Page
  label: name
  props:
  - name: name
  - name: left
  - name: widgets
    kind: array
    class: Widget
  - name: size
    computed: true
- name: Widget
  label: name
  props:
  - name: name
  - name: text
  - name: children
    kind: array
    class: Widget
`

// Project is a small document of class Project.
const Project = `
settings:
  displayWidth: 480
  theme: dark
title: Demo
pages:
- objID: p1
  name: Main
  left: 0
  widgets:
  - objID: w1
    name: header
    text: Hello
  - objID: w2
    name: footer
    text: Bye
- objID: p2
  name: Settings
  left: 10
changes: [a, b]
`

// Registry loads Schema.
func Registry(t testing.TB) *schema.Registry {
	t.Helper()
	r, err := schema.Load([]byte(Schema))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// Factory returns a strict constructor with deterministic generated IDs.
func Factory() *doc.Constructor {
	return &doc.Constructor{IDs: objid.NewSessionGenerator(0xf1), Strict: true}
}

// Doc constructs a document of the root class of r from YAML src.
func Doc(t testing.TB, r *schema.Registry, src string) *doc.Object {
	t.Helper()
	return Object(t, r.Root(), src)
}

// Object constructs an object of class c from YAML src.
func Object(t testing.TB, c *schema.Class, src string) *doc.Object {
	t.Helper()
	n, err := ir.FromYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	o, err := Factory().Construct(c, n)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

// Plain returns the YAML src decoded as plain data.
func Plain(t testing.TB, src string) *ir.Node {
	t.Helper()
	n, err := ir.FromYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// JSON returns the plain data of o encoded as JSON, for comparisons in
// test failures.
func JSON(o *doc.Object) string {
	return ir.MustJSON(doc.ToIR(o))
}
