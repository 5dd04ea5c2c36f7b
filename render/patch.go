package render

import (
	"fmt"

	"github.com/signadot/projdiff/doc"
	"github.com/signadot/projdiff/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

// RevertPatch returns the JSON merge patch (RFC 7386) turning the plain
// data of after into that of before. A nil before is an empty object.
func RevertPatch(before, after *doc.Object) ([]byte, error) {
	bj := []byte("{}")
	if before != nil {
		d, err := ir.ToJSON(doc.ToIR(before))
		if err != nil {
			return nil, err
		}
		bj = d
	}
	aj, err := ir.ToJSON(doc.ToIR(after))
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.CreateMergePatch(aj, bj)
	if err != nil {
		return nil, fmt.Errorf("creating merge patch: %w", err)
	}
	return patch, nil
}

// ApplyPatch applies a JSON merge patch to the plain data of o and builds
// a new document from the result with f.
func ApplyPatch(f doc.Factory, o *doc.Object, patch []byte) (*doc.Object, error) {
	d, err := ir.ToJSON(doc.ToIR(o))
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(d, patch)
	if err != nil {
		return nil, fmt.Errorf("applying merge patch: %w", err)
	}
	n, err := ir.FromJSON(out)
	if err != nil {
		return nil, err
	}
	return f.Construct(o.Class, n)
}
