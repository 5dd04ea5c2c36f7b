package ir

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// FromAny converts decoded Go data into a node. Maps decoded as
// yaml.MapSlice keep their key order; plain Go maps are sorted by key.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone().Detach(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		return fromNumberString(string(x)), nil
	case []any:
		vals := make([]*Node, len(x))
		for i, elt := range x {
			n, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case yaml.MapSlice:
		kvs := make([]KeyVal, 0, len(x))
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprint(item.Key)
			}
			n, err := FromAny(item.Value)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, KeyVal{Key: key, Val: n})
		}
		return FromKeyVals(kvs), nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, elt := range x {
			n, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return FromMap(m), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

func fromUint(u uint64) *Node {
	if u > math.MaxInt64 {
		return &Node{Type: NumberType, Number: strconv.FormatUint(u, 10)}
	}
	return FromInt(int64(u))
}

func fromNumberString(s string) *Node {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt(i)
	}
	if !strings.ContainsAny(s, ".eE") {
		return &Node{Type: NumberType, Number: s}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromFloat(f)
	}
	return &Node{Type: NumberType, Number: s}
}

// ToAny converts a node to Go data. Objects become yaml.MapSlice so that
// encoders keep the field order.
func ToAny(node *Node) any {
	switch node.Type {
	case ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i := range node.Fields {
			res[i] = yaml.MapItem{Key: node.Fields[i].String, Value: ToAny(node.Values[i])}
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return json.Number(node.Number)
	case BoolType:
		return node.Bool
	case NullType:
		return nil
	default:
		panic("impossible production")
	}
}
