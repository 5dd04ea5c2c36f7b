package changes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/internal/fixture"
	"github.com/signadot/projdiff/schema"
)

const itemsSchema = `
root: Doc
classes:
- name: Doc
  props:
  - name: title
  - name: items
    kind: array
    class: Item
- name: Item
  label: name
  props:
  - name: name
  - name: v
`

func itemsRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	r, err := schema.Load([]byte(itemsSchema))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustDiff(t *testing.T, before, after *doc.Object) *ObjectChanges {
	t.Helper()
	oc, err := DiffObject(before, after)
	if err != nil {
		t.Fatal(err)
	}
	return oc
}

// liveCopy returns a fresh document equal to o.
func liveCopy(t *testing.T, o *doc.Object) *doc.Object {
	t.Helper()
	res, err := doc.Clone(fixture.Factory(), o)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func summary(oc *ObjectChanges) []string {
	var res []string
	for _, e := range Flatten(oc) {
		res = append(res, fmt.Sprintf("%s %s", e.Kind, e.Path))
	}
	return res
}

// edit returns fixture.Project with the given old, new replacement pairs
// applied.
func edit(t *testing.T, pairs ...string) string {
	t.Helper()
	res := fixture.Project
	for i := 0; i+1 < len(pairs); i += 2 {
		if !strings.Contains(res, pairs[i]) {
			t.Fatalf("fixture has no %q", pairs[i])
		}
		res = strings.Replace(res, pairs[i], pairs[i+1], 1)
	}
	return res
}

type variant struct {
	name  string
	pairs []string
	want  []string
}

var projectVariants = []variant{
	{
		name:  "scalar",
		pairs: []string{"title: Demo", "title: Other"},
		want:  []string{"PropertyUpdated title"},
	},
	{
		name:  "nested object",
		pairs: []string{"theme: dark", "theme: light"},
		want:  []string{"ObjectPropertyUpdated settings", "PropertyUpdated settings.theme"},
	},
	{
		name:  "deep element",
		pairs: []string{"text: Bye", "text: Ciao"},
		want: []string{
			"ArrayPropertyUpdated pages",
			"ArrayElementUpdated pages[0]",
			"ArrayPropertyUpdated pages[0].widgets",
			"ArrayElementUpdated pages[0].widgets[1]",
			"PropertyUpdated pages[0].widgets[1].text",
		},
	},
	{
		name:  "removed",
		pairs: []string{"title: Demo\n", ""},
		want:  []string{"PropertyRemoved title"},
	},
	{
		name:  "added nested",
		pairs: []string{"  theme: dark\n", "  theme: dark\n  general:\n    author: me\n"},
		want:  []string{"ObjectPropertyUpdated settings", "PropertyAdded settings.general"},
	},
	{
		name:  "element added and removed",
		pairs: []string{"- objID: p2\n  name: Settings\n  left: 10\n", "- objID: p3\n  name: New\n"},
		want: []string{
			"ArrayPropertyUpdated pages",
			"ArrayElementAdded pages[1]",
			"ArrayElementRemoved pages[1]",
		},
	},
	{
		name: "elements swapped and edited",
		pairs: []string{
			"- objID: p2\n  name: Settings\n  left: 10\n", "",
			"pages:\n", "pages:\n- objID: p2\n  name: Settings\n  left: 11\n",
		},
		want: []string{
			"ArrayPropertyUpdated pages",
			"ArrayElementUpdated pages[0]",
			"PropertyUpdated pages[0].left",
			"ArrayShuffled pages",
		},
	},
}
