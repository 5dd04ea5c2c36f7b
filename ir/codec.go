package ir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
)

// FromYAML decodes a YAML (or JSON) document, keeping object key order.
func FromYAML(d []byte) (*Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return FromAny(v)
}

func ToYAML(node *Node) ([]byte, error) {
	return yaml.Marshal(ToAny(node))
}

// FromJSON decodes a single JSON value, keeping object key order.
func FromJSON(d []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrParse)
	}
	return res, nil
}

func decodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			var kvs []KeyVal
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", kt)
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				kvs = append(kvs, KeyVal{Key: key, Val: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return FromKeyVals(kvs), nil
		case '[':
			var vals []*Node
			for dec.More() {
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				vals = append(vals, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return FromSlice(vals), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", x)
	default:
		return FromAny(tok)
	}
}

// ToJSON encodes node as compact JSON, keeping object key order.
func ToJSON(node *Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := encodeJSON(buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func MustJSON(node *Node) string {
	d, err := ToJSON(node)
	if err != nil {
		panic(err)
	}
	return string(d)
}

func encodeJSON(buf *bytes.Buffer, node *Node) error {
	switch node.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case NumberType:
		switch {
		case node.Int64 != nil:
			buf.WriteString(strconv.FormatInt(*node.Int64, 10))
		case node.Float64 != nil:
			d, err := json.Marshal(*node.Float64)
			if err != nil {
				return err
			}
			buf.Write(d)
		default:
			buf.WriteString(node.Number)
		}
	case StringType:
		d, err := json.Marshal(node.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ArrayType:
		buf.WriteByte('[')
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType:
		buf.WriteByte('{')
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(f.String)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := encodeJSON(buf, node.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: node type %s", ErrUnsupported, node.Type)
	}
	return nil
}
