package changes

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/internal/fixture"
	"github.com/signadot/projdiff/ir"
	"go.uber.org/multierr"
)

func TestScenarioScalarUpdate(t *testing.T) {
	r := itemsRegistry(t)
	before := fixture.Doc(t, r, "title: A\nitems:\n- objID: 1\n  name: x\n")
	after := fixture.Doc(t, r, "title: B\nitems:\n- objID: 1\n  name: x\n")
	oc := mustDiff(t, before, after)
	if diff := cmp.Diff([]string{"PropertyUpdated title"}, summary(oc)); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	live := liveCopy(t, after)
	if err := Revert(oc.Changes[0], live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	if got := live.Scalar("title").String; got != "A" {
		t.Errorf("title = %q, want A", got)
	}
	if !doc.Equal(live, before) {
		t.Errorf("live = %s", fixture.JSON(live))
	}
}

func TestScenarioShuffle(t *testing.T) {
	r := itemsRegistry(t)
	before := fixture.Doc(t, r, "items:\n- objID: 1\n- objID: 2\n")
	after := fixture.Doc(t, r, "items:\n- objID: 2\n- objID: 1\n")
	oc := mustDiff(t, before, after)
	if diff := cmp.Diff([]string{"ArrayPropertyUpdated items", "ArrayShuffled items"}, summary(oc)); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	ac := oc.Changes[0].(*ArrayPropertyUpdated).Changes
	if len(ac.Changes) != 0 || ac.Shuffled == nil {
		t.Fatalf("changes = %d, shuffled = %v", len(ac.Changes), ac.Shuffled)
	}
	live := liveCopy(t, after)
	err := Revert(ac.Shuffled, live, fixture.Factory())
	if !errors.Is(err, ErrUnsupportedRevert) {
		t.Errorf("error = %v, want ErrUnsupportedRevert", err)
	}
	if !doc.Equal(live, after) {
		t.Errorf("live changed: %s", fixture.JSON(live))
	}
}

func TestScenarioElementAdded(t *testing.T) {
	r := itemsRegistry(t)
	before := fixture.Doc(t, r, "items:\n- objID: 1\n  v: 10\n")
	after := fixture.Doc(t, r, "items:\n- objID: 1\n  v: 20\n- objID: 2\n  v: 5\n")
	oc := mustDiff(t, before, after)
	want := []string{
		"ArrayPropertyUpdated items",
		"ArrayElementUpdated items[0]",
		"PropertyUpdated items[0].v",
		"ArrayElementAdded items[1]",
	}
	if diff := cmp.Diff(want, summary(oc)); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	ac := oc.Changes[0].(*ArrayPropertyUpdated).Changes
	if ac.Shuffled != nil {
		t.Errorf("unexpected shuffle")
	}
	live := liveCopy(t, after)
	if err := Revert(ac.Changes[1], live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	wantLive := fixture.Doc(t, r, "items:\n- objID: 1\n  v: 20\n")
	if !doc.Equal(live, wantLive) {
		t.Errorf("live = %s", fixture.JSON(live))
	}
}

func TestRevertRestoresBefore(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	for _, v := range projectVariants {
		t.Run(v.name, func(t *testing.T) {
			after := fixture.Doc(t, r, edit(t, v.pairs...))
			oc := mustDiff(t, before, after)
			live := liveCopy(t, after)
			for _, c := range oc.Changes {
				p := c.Property()
				if err := Revert(c, live, fixture.Factory()); err != nil {
					t.Fatalf("revert %s: %v", c.Path(), err)
				}
				want := doc.ValueToIR(before.Get(p.Prop.Name))
				got := doc.ValueToIR(live.Get(p.Prop.Name))
				if !ir.Equal(want, got) {
					t.Errorf("%s: want %s, got %s", c.Path(), ir.MustJSON(want), ir.MustJSON(got))
				}
			}
			if !doc.Equal(live, before) {
				t.Errorf("live = %s", fixture.JSON(live))
			}
		})
	}
}

func TestRevertElementsRestoresBefore(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	after := fixture.Doc(t, r, edit(t, "- objID: p2\n  name: Settings\n  left: 10\n", "- objID: p3\n  name: New\n"))
	entries, err := Select(Flatten(mustDiff(t, before, after)), `kind != "ArrayPropertyUpdated"`)
	if err != nil {
		t.Fatal(err)
	}
	live := liveCopy(t, after)
	if _, err := RevertAll(entries, live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	if !doc.Equal(live, before) {
		t.Errorf("live = %s", fixture.JSON(live))
	}
}

func TestRevertTwice(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	for _, v := range projectVariants {
		after := fixture.Doc(t, r, edit(t, v.pairs...))
		for _, e := range Flatten(mustDiff(t, before, after)) {
			live := liveCopy(t, after)
			err := Revert(e.Change, live, fixture.Factory())
			if errors.Is(err, ErrUnsupportedRevert) {
				continue
			}
			if err != nil {
				t.Errorf("%s %s %s: %v", v.name, e.Kind, e.Path, err)
				continue
			}
			once := fixture.JSON(live)
			err = Revert(e.Change, live, fixture.Factory())
			if err != nil && !errors.Is(err, ErrPathResolution) && !errors.Is(err, ErrNothingToRevert) {
				t.Errorf("%s %s %s: second revert: %v", v.name, e.Kind, e.Path, err)
			}
			if twice := fixture.JSON(live); twice != once {
				t.Errorf("%s %s %s: second revert changed state\nonce  %s\ntwice %s", v.name, e.Kind, e.Path, once, twice)
			}
		}
	}
}

func TestRevertPathResolutionFailure(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	after := fixture.Doc(t, r, edit(t, "text: Bye", "text: Ciao"))
	entries, err := Select(Flatten(mustDiff(t, before, after)), `kind == "ArrayElementUpdated" && path == "pages[0].widgets[1]"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("selected %d entries", len(entries))
	}
	live := liveCopy(t, after)
	live.Array("pages").At(0).Array("widgets").Remove(1)
	was := fixture.JSON(live)
	err = Revert(entries[0].Change, live, fixture.Factory())
	if !errors.Is(err, ErrPathResolution) || !errors.Is(err, doc.ErrNotFound) {
		t.Errorf("error = %v, want ErrPathResolution", err)
	}
	if got := fixture.JSON(live); got != was {
		t.Errorf("live changed:\n%s\n%s", was, got)
	}
}

func TestRevertLocatesMovedElement(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	after := fixture.Doc(t, r, edit(t, "text: Bye", "text: Ciao"))
	entries, err := Select(Flatten(mustDiff(t, before, after)), `kind == "PropertyUpdated"`)
	if err != nil {
		t.Fatal(err)
	}
	live := liveCopy(t, after)
	widgets := live.Array("pages").At(0).Array("widgets")
	if err := widgets.Insert(0, widgets.Remove(1)); err != nil {
		t.Fatal(err)
	}
	if err := Revert(entries[0].Change, live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, w := range widgets.Elements {
		got = append(got, w.ID+"="+w.Scalar("text").String)
	}
	if diff := cmp.Diff([]string{"w2=Bye", "w1=Hello"}, got); diff != "" {
		t.Errorf("widgets mismatch (-want +got):\n%s", diff)
	}
}

func TestRevertRemovedElementPosition(t *testing.T) {
	r := itemsRegistry(t)
	before := fixture.Doc(t, r, "items:\n- objID: a\n- objID: b\n- objID: c\n")
	after := fixture.Doc(t, r, "items:\n- objID: a\n- objID: c\n")
	entries, err := Select(Flatten(mustDiff(t, before, after)), `op == "removed"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("selected %d entries", len(entries))
	}
	for _, liveSrc := range []string{
		"items:\n- objID: a\n- objID: c\n",
		"items:\n- objID: a\n",
		"items: []\n",
	} {
		live := fixture.Doc(t, r, liveSrc)
		if err := Revert(entries[0].Change, live, fixture.Factory()); err != nil {
			t.Fatal(err)
		}
		arr := live.Array("items")
		if i := arr.IndexOf("b"); i != min(1, arr.Len()-1) {
			t.Errorf("live %q: b at %d", liveSrc, i)
		}
	}
}

func TestRevertNotRevertable(t *testing.T) {
	r := fixture.Registry(t)
	after := fixture.Doc(t, r, fixture.Project)
	oc := mustDiff(t, nil, after)
	live := liveCopy(t, after)
	if err := Revert(oc.Changes[0], live, fixture.Factory()); !errors.Is(err, ErrNotRevertable) {
		t.Errorf("error = %v, want ErrNotRevertable", err)
	}
	if !live.Has("settings") {
		t.Errorf("mandatory property cleared")
	}
	if err := Revert(oc.Changes[1], live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	if live.Has("title") {
		t.Errorf("title not cleared")
	}
}

func TestRevertDoesNotShareSnapshot(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	after := fixture.Doc(t, r, edit(t, "theme: dark", "theme: light"))
	oc := mustDiff(t, before, after)
	live := liveCopy(t, after)
	if err := Revert(oc.Changes[0], live, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	if live.Object("settings") == before.Object("settings") {
		t.Fatal("live shares the before snapshot")
	}
	if err := before.Object("settings").Set("theme", ir.FromString("blue")); err != nil {
		t.Fatal(err)
	}
	if got := live.Object("settings").Scalar("theme").String; got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
	if before.Object("settings").Parent != before {
		t.Errorf("before snapshot was modified")
	}
}

func TestRevertAllCollectsErrors(t *testing.T) {
	r := fixture.Registry(t)
	before := fixture.Doc(t, r, fixture.Project)
	after := fixture.Doc(t, r, edit(t, "changes:", "- objID: p3\n- objID: p4\nchanges:"))
	entries, err := Select(Flatten(mustDiff(t, before, after)), `op == "added"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("selected %d entries", len(entries))
	}
	entries = append(entries, entries[0])
	live := liveCopy(t, after)
	results, err := RevertAll(entries, live, fixture.Factory())
	if n := len(multierr.Errors(err)); n != 1 {
		t.Fatalf("got %d errors: %v", n, err)
	}
	if !errors.Is(err, ErrPathResolution) {
		t.Errorf("error = %v, want ErrPathResolution", err)
	}
	if results[0].Err != nil || results[1].Err != nil || results[2].Err == nil {
		t.Errorf("results = %+v", results)
	}
	if !doc.Equal(live, before) {
		t.Errorf("live = %s", fixture.JSON(live))
	}
}

func TestRevertIntoAfterSnapshot(t *testing.T) {
	r := itemsRegistry(t)
	before := fixture.Doc(t, r, "items:\n- objID: 1\n  v: 10\n")
	after := fixture.Doc(t, r, "items:\n- objID: 1\n  v: 20\n- objID: 2\n- objID: 3\n")
	entries, err := Select(Flatten(mustDiff(t, before, after)), `kind startsWith "ArrayElement"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("selected %d entries", len(entries))
	}
	if _, err := RevertAll(entries, after, fixture.Factory()); err != nil {
		t.Fatal(err)
	}
	if !doc.Equal(after, before) {
		t.Errorf("after = %s", fixture.JSON(after))
	}
	_, err = RevertAll(entries[1:], after, fixture.Factory())
	if n := len(multierr.Errors(err)); n != 2 || !errors.Is(err, ErrPathResolution) {
		t.Errorf("second revert: %v", err)
	}
	if !doc.Equal(after, before) {
		t.Errorf("second revert changed after: %s", fixture.JSON(after))
	}
}
