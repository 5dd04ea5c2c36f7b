package doc_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/internal/fixture"
	"github.com/signadot/projdiff/ir"
)

func TestConstructToIR(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	want := fixture.Plain(t, fixture.Project)
	got := doc.ToIR(o)
	if !ir.Equal(want, got) {
		t.Errorf("ToIR mismatch:\nwant %s\ngot  %s", ir.MustJSON(want), ir.MustJSON(got))
	}
	pages := o.Array("pages")
	if pages.Len() != 2 || pages.At(1).ID != "p2" {
		t.Fatalf("pages = %v", pages.Elements)
	}
	if o.Object("settings").Parent != o {
		t.Errorf("settings not attached to root")
	}
}

func TestConstructGeneratesIDs(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, `
settings: {}
pages:
- name: a
- name: b
- objID: x
  name: c
`)
	var ids []string
	for _, p := range o.Array("pages").Elements {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"bf1a1", "bf1a2", "x"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if o.ID != "" {
		t.Errorf("root got id %q", o.ID)
	}
}

func TestConstructStrict(t *testing.T) {
	r := fixture.Registry(t)
	plain := fixture.Plain(t, "settings: {}\nbogus: 1\n")
	if _, err := fixture.Factory().Construct(r.Root(), plain); !errors.Is(err, doc.ErrUnknownProp) {
		t.Errorf("strict construct error = %v", err)
	}
	lax := &doc.Constructor{}
	o, err := lax.Construct(r.Root(), plain)
	if err != nil {
		t.Fatal(err)
	}
	if o.Has("bogus") {
		t.Errorf("unknown field kept")
	}
	if _, err := lax.Construct(r.Root(), ir.FromString("x")); !errors.Is(err, doc.ErrKind) {
		t.Errorf("construct from string error = %v", err)
	}
}

func TestConstructNullNested(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, "settings: null\npages: null\ntitle: null\n")
	if o.Has("settings") || o.Has("pages") {
		t.Errorf("null nested values should be absent")
	}
	if n := o.Scalar("title"); n == nil || n.Type != ir.NullType {
		t.Errorf("title = %v, want null", n)
	}
}

func TestPaths(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	footer := o.Array("pages").At(0).Array("widgets").At(1)
	tests := []struct {
		v    any
		path string
	}{
		{o, ""},
		{o.Object("settings"), "settings"},
		{o.Array("pages"), "pages"},
		{o.Array("pages").At(1), "pages[1]"},
		{o.Array("pages").At(0).Array("widgets"), "pages[0].widgets"},
		{footer, "pages[0].widgets[1]"},
	}
	for _, tt := range tests {
		if got := doc.PathOf(tt.v); got != tt.path {
			t.Errorf("PathOf(%v) = %q, want %q", tt.v, got, tt.path)
		}
		v, err := doc.Resolve(o, tt.path)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.path, err)
			continue
		}
		if v != tt.v {
			t.Errorf("Resolve(%q) = %v, want %v", tt.path, v, tt.v)
		}
	}
	n, err := doc.Resolve(o, "settings.theme")
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(n.(*ir.Node), ir.FromString("dark")) {
		t.Errorf("settings.theme = %v", n)
	}
	n, err = doc.Resolve(o, "changes[1]")
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(n.(*ir.Node), ir.FromString("b")) {
		t.Errorf("changes[1] = %v", n)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	for _, path := range []string{
		"pages[5]",
		"nope",
		"title.x",
		"pages.x",
		"settings[0]",
		"settings.general",
		"changes[2]",
	} {
		if _, err := doc.Resolve(o, path); !errors.Is(err, doc.ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", path, err)
		}
	}
	if _, err := doc.ResolveObject(o, "pages"); !errors.Is(err, doc.ErrNotFound) {
		t.Errorf("ResolveObject(pages) error = %v", err)
	}
	if _, err := doc.ResolveArray(o, "settings"); !errors.Is(err, doc.ErrKind) {
		t.Errorf("ResolveArray(settings) error = %v", err)
	}
	if _, err := doc.Resolve(o, "pages["); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestSet(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	other := fixture.Doc(t, r, fixture.Project)

	if err := o.Set("nope", ir.FromInt(1)); !errors.Is(err, doc.ErrUnknownProp) {
		t.Errorf("unknown prop error = %v", err)
	}
	if err := o.Set("title", doc.New(r.MustClass("Settings"))); !errors.Is(err, doc.ErrKind) {
		t.Errorf("object into scalar error = %v", err)
	}
	if err := o.Set("settings", doc.New(r.MustClass("Page"))); !errors.Is(err, doc.ErrKind) {
		t.Errorf("wrong class error = %v", err)
	}
	if err := o.Set("settings", other.Object("settings")); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("attached object error = %v", err)
	}
	if err := o.Set("pages", other.Array("pages")); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("attached array error = %v", err)
	}

	old := o.Object("settings")
	s := doc.New(r.MustClass("Settings"))
	if err := s.Set("theme", ir.FromString("light")); err != nil {
		t.Fatal(err)
	}
	if err := o.Set("settings", s); err != nil {
		t.Fatal(err)
	}
	if old.Parent != nil {
		t.Errorf("replaced object still attached")
	}
	if s.Path() != "settings" {
		t.Errorf("path = %q", s.Path())
	}

	if err := o.Set("title", nil); err != nil {
		t.Fatal(err)
	}
	if o.Has("title") {
		t.Errorf("nil did not clear title")
	}
}

func TestSetRejectsSelfContainment(t *testing.T) {
	r := fixture.Registry(t)
	w := fixture.Object(t, r.MustClass("Widget"), "objID: w\nchildren: []\n")
	if err := w.Array("children").Append(w); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("self append error = %v", err)
	}
	a, err := doc.NewArray(w)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Set("children", a); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("self array error = %v", err)
	}
}

func TestArraysRejectOwnedElements(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	pages := o.Array("pages")
	if _, err := doc.NewArray(pages.Elements...); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("NewArray error = %v", err)
	}
	other := fixture.Doc(t, r, "title: other\n")
	if err := other.Set("pages", &doc.Array{Elements: pages.Elements}); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("Set error = %v", err)
	}
	if other.Has("pages") {
		t.Error("pages set on the other document")
	}
	if got := doc.PathOf(pages.At(1)); got != "pages[1]" {
		t.Errorf("path after rejected moves = %q", got)
	}
	e := doc.NewElement(r.MustClass("Page"), "p9")
	if _, err := doc.NewArray(e, e); !errors.Is(err, doc.ErrAttached) {
		t.Errorf("repeated element error = %v", err)
	}
}

func TestArrayEdits(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	pages := o.Array("pages")
	pc := r.MustClass("Page")

	if err := pages.Insert(0, doc.NewElement(pc, "p0")); err != nil {
		t.Fatal(err)
	}
	if err := pages.Append(doc.NewElement(pc, "p1")); !errors.Is(err, doc.ErrDuplicateID) {
		t.Errorf("duplicate error = %v", err)
	}
	if err := pages.Append(doc.New(pc)); !errors.Is(err, doc.ErrNoID) {
		t.Errorf("missing id error = %v", err)
	}
	if err := pages.Append(doc.NewElement(r.MustClass("Widget"), "w9")); !errors.Is(err, doc.ErrKind) {
		t.Errorf("wrong class error = %v", err)
	}
	if err := pages.Insert(9, doc.NewElement(pc, "p9")); err == nil {
		t.Errorf("expected range error")
	}
	check := func(want ...string) {
		t.Helper()
		var got []string
		for i, e := range pages.Elements {
			got = append(got, e.ID)
			if e.ParentIndex != i || e.Parent != o || e.ParentProp != "pages" {
				t.Errorf("element %s has position %d in %v.%s", e.ID, e.ParentIndex, e.Parent, e.ParentProp)
			}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("elements mismatch (-want +got):\n%s", diff)
		}
	}
	check("p0", "p1", "p2")

	removed := pages.Remove(1)
	if removed.Parent != nil || removed.Path() != "" {
		t.Errorf("removed element still attached at %q", removed.Path())
	}
	check("p0", "p2")
	if pages.IndexOf("p2") != 1 || pages.ByID("p1") != nil {
		t.Errorf("lookup after remove")
	}

	repl := doc.NewElement(pc, "p2")
	if err := pages.Replace(1, repl); err != nil {
		t.Fatal(err)
	}
	if err := pages.Replace(1, doc.NewElement(pc, "zz")); err == nil {
		t.Errorf("replace with other id should fail")
	}
	check("p0", "p2")
	if pages.At(1) != repl {
		t.Errorf("replace did not take")
	}
}

func TestCloneAndEqual(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	c, err := doc.Clone(fixture.Factory(), o)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Equal(o, c) {
		t.Fatalf("clone differs:\n%s\n%s", fixture.JSON(o), fixture.JSON(c))
	}
	c.Array("pages").At(0).Set("name", ir.FromString("Other"))
	if doc.Equal(o, c) {
		t.Errorf("clone shares state with original")
	}
	if got := o.Array("pages").At(0).Scalar("name").String; got != "Main" {
		t.Errorf("original name = %q", got)
	}
}

func TestLabel(t *testing.T) {
	r := fixture.Registry(t)
	o := fixture.Doc(t, r, fixture.Project)
	tests := []struct {
		o    *doc.Object
		want string
	}{
		{o, "Project"},
		{o.Array("pages").At(0), "Main"},
		{doc.NewElement(r.MustClass("Page"), "p7"), "Page#p7"},
		{o.Object("settings"), "Settings"},
	}
	for _, tt := range tests {
		if got := doc.Label(tt.o); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}
