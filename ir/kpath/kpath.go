package kpath

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// KPath represents a kinded path from a document root to a node.
// Kinded paths encode node kinds in the path syntax itself:
//   - "a.b" → property "b" of the object held by property "a"
//   - "a[0]" → element 0 of the array held by property "a"
//
// The empty path denotes the root and parses to nil.
type KPath struct {
	Field *string // Object property name
	Index *int    // Array index
	Next  *KPath  // Next segment in path (nil for leaf)
}

// String returns the kinded path string representation of this KPath.
// Example:
//
//	KPath{Field: &"a", Next: &KPath{Index: &0}} → "a[0]"
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		if x.Field != nil {
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(quoteField(*x.Field))
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// SegmentString returns the representation of this single segment.
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	if p.Field != nil {
		return quoteField(*p.Field)
	}
	if p.Index != nil {
		return "[" + strconv.Itoa(*p.Index) + "]"
	}
	return ""
}

// Parse parses a kinded path string into a KPath structure.
//
//   - "a.b.c" → Object path with 3 segments
//   - "a[0][1]" → array path with 3 segments
//   - "a[0].\"b.c\"" → quoted field containing a dot
//   - "" → Root path (returns nil)
//
// Returns an error if the path syntax is invalid.
func Parse(kpath string) (*KPath, error) {
	if kpath == "" {
		return nil, nil
	}
	root := &KPath{}
	if err := parseKFrag(kpath, root, true); err != nil {
		return nil, fmt.Errorf("kpath %q: %w", kpath, err)
	}
	return root, nil
}

// Join joins a path with a suffix path. Either may be empty.
//
//   - Join("a", "b.c") → "a.b.c"
//   - Join("a", "[0]") → "a[0]"
//   - Join("", "b") → "b"
func Join(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	if suffix[0] == '[' {
		return prefix + suffix
	}
	return prefix + "." + suffix
}

// Field appends a field segment to path.
func Field(path, name string) string {
	return Join(path, quoteField(name))
}

// Index appends an array index segment to path.
func Index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// IsPrefixOf reports whether the segments of p begin other. The root
// path prefixes every path.
func (p *KPath) IsPrefixOf(other *KPath) bool {
	for x := p; x != nil; x = x.Next {
		if other == nil || !segmentsEqual(x, other) {
			return false
		}
		other = other.Next
	}
	return true
}

func segmentsEqual(a, b *KPath) bool {
	if (a.Field == nil) != (b.Field == nil) {
		return false
	}
	if a.Field != nil {
		return *a.Field == *b.Field
	}
	if (a.Index == nil) != (b.Index == nil) {
		return false
	}
	if a.Index != nil {
		return *a.Index == *b.Index
	}
	return true
}

func parseKFrag(frag string, parent *KPath, first bool) error {
	if len(frag) == 0 {
		return fmt.Errorf("unexpected end of path")
	}
	var rest string
	switch frag[0] {
	case '.':
		if first {
			return fmt.Errorf("unexpected leading '.'")
		}
		field, r, err := parseKField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		rest = r
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, err := parseKIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		parent.Index = &index
		rest = frag[i+2:]
	default:
		if !first {
			return fmt.Errorf("expected '.' or '[', got %q", frag[0])
		}
		field, r, err := parseKField(frag)
		if err != nil {
			return err
		}
		parent.Field = &field
		rest = r
	}
	if len(rest) == 0 {
		return nil
	}
	next := &KPath{}
	if err := parseKFrag(rest, next, false); err != nil {
		return err
	}
	parent.Next = next
	return nil
}

func parseKIndex(is string) (int, error) {
	u64, err := strconv.ParseUint(is, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid array index %q: %w", is, err)
	}
	return int(u64), nil
}

// parseKField parses an object field name from a fragment.
// It stops at '.' or '['. Double quoted fields use Go string escapes.
func parseKField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] == '"' {
		n, err := quotedEnd(frag)
		if err != nil {
			return "", "", err
		}
		field, err = strconv.Unquote(frag[:n])
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field: %w", err)
		}
		return field, frag[n:], nil
	}
	i := strings.IndexAny(frag, ".[")
	if i == 0 {
		return "", "", fmt.Errorf("empty field")
	}
	if i == -1 {
		return frag, "", nil
	}
	return frag[:i], frag[i:], nil
}

// quotedEnd returns the length of the double quoted string at the start of d,
// including both quotes.
func quotedEnd(d string) (int, error) {
	escaped := false
	for i := 1; i < len(d); i++ {
		switch d[i] {
		case '\\':
			escaped = !escaped
		case '"':
			if !escaped {
				return i + 1, nil
			}
			escaped = false
		default:
			escaped = false
		}
	}
	return 0, fmt.Errorf("unterminated quoted field")
}

func needsQuote(f string) bool {
	if f == "" {
		return true
	}
	return strings.ContainsAny(f, ".[]\"\\ \t\n")
}

func quoteField(f string) string {
	if needsQuote(f) {
		return strconv.Quote(f)
	}
	return f
}
