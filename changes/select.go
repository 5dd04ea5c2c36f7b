package changes

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/projdiff/debug"
	"github.com/signadot/projdiff/ir/kpath"
)

type selectEnv struct {
	Index      int    `expr:"index"`
	Path       string `expr:"path"`
	Op         string `expr:"op"`
	Kind       string `expr:"kind"`
	Prop       string `expr:"prop"`
	Label      string `expr:"label"`
	Depth      int    `expr:"depth"`
	Revertable bool   `expr:"revertable"`
}

func envOf(e *Entry) selectEnv {
	return selectEnv{
		Index:      e.Index,
		Path:       e.Path,
		Op:         string(e.Op),
		Kind:       e.Kind,
		Prop:       e.Prop,
		Label:      e.Label,
		Depth:      e.Depth,
		Revertable: e.Change.Revertable(),
	}
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(selectEnv{}),
		expr.AsBool(),
		expr.Function("under", func(params ...any) (any, error) {
			path, err := kpath.Parse(params[0].(string))
			if err != nil {
				return nil, err
			}
			prefix, err := kpath.Parse(params[1].(string))
			if err != nil {
				return nil, err
			}
			return prefix.IsPrefixOf(path), nil
		},
			new(func(string, string) bool)),
	}
}

// Compile compiles a selection expression. Expressions see the fields
// index, path, op, kind, prop, label, depth and revertable of an entry, and the
// function under(path, prefix) which reports whether path is prefix or
// lies below it. For example
//
//	op == "removed" && under(path, "pages[0]")
func Compile(expression string) (*vm.Program, error) {
	prg, err := expr.Compile(expression, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", expression, err)
	}
	return prg, nil
}

// Select returns the entries for which expression holds. An empty
// expression selects everything.
func Select(entries []Entry, expression string) ([]Entry, error) {
	if strings.TrimSpace(expression) == "" {
		return entries, nil
	}
	prg, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	var res []Entry
	for i := range entries {
		e := &entries[i]
		out, err := expr.Run(prg, envOf(e))
		if err != nil {
			return nil, fmt.Errorf("evaluating %q on %q: %w", expression, e.Path, err)
		}
		ok, _ := out.(bool)
		if debug.Select() {
			debug.Logf("select %s %q: %t", e.Op, e.Path, ok)
		}
		if ok {
			res = append(res, *e)
		}
	}
	return res, nil
}
