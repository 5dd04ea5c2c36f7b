package changes

import (
	"fmt"

	"github.com/signadot/projdiff/doc"
	"go.uber.org/multierr"
)

// Result is the outcome of reverting one entry.
type Result struct {
	Entry Entry
	Err   error
}

// RevertAll reverts each entry against live in order. A failing entry
// does not stop the others; the returned error combines all failures.
func RevertAll(entries []Entry, live *doc.Object, f doc.Factory) ([]Result, error) {
	res := make([]Result, len(entries))
	var errs error
	for i, e := range entries {
		err := Revert(e.Change, live, f)
		res[i] = Result{Entry: e, Err: err}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", e.Op, e.Path, err))
		}
	}
	return res, errs
}
