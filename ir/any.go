package ir

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/samber/lo"
)

// ToAny converts y to plain Go values: nil, bool, int64, uint64, float64,
// string, []byte, []any and map[string]any. Mapping keys which are not
// strings are rendered with their decimal or literal text; null and
// composite keys are an error.
func (y *Node) ToAny() (any, error) {
	switch y.Type {
	case NullType:
		return nil, nil
	case BoolType:
		return y.Bool, nil
	case IntType:
		if y.Unsigned {
			return y.Uint, nil
		}
		return y.Int, nil
	case FloatType:
		return y.Float, nil
	case StringType:
		return y.String, nil
	case BytesType:
		return slices.Clone(y.Bytes), nil
	case SequenceType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			a, err := v.ToAny()
			if err != nil {
				return nil, err
			}
			res[i] = a
		}
		return res, nil
	case MappingType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			k, err := KeyString(f)
			if err != nil {
				return nil, err
			}
			a, err := y.Values[i].ToAny()
			if err != nil {
				return nil, err
			}
			res[k] = a
		}
		return res, nil
	}
	return nil, fmt.Errorf("unknown node type %d", y.Type)
}

// KeyString returns the text form of a scalar mapping key.
func KeyString(k *Node) (string, error) {
	switch k.Type {
	case StringType:
		return k.String, nil
	case IntType:
		return k.IntString(), nil
	case BoolType:
		if k.Bool {
			return "true", nil
		}
		return "false", nil
	case FloatType:
		return formatFloatKey(k.Float), nil
	}
	return "", fmt.Errorf("%w: %s key", ErrBadKey, k.Type)
}

// FromAny is the inverse of ToAny. It also accepts the other Go integer and
// float widths, map[string]any and []any; map keys are sorted.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		res := x.Clone()
		res.Parent = nil
		return res, nil
	case bool:
		return FromBool(x), nil
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
		return FromUint(uint64(x)), nil
	case uint8:
		return FromUint(uint64(x)), nil
	case uint16:
		return FromUint(uint64(x)), nil
	case uint32:
		return FromUint(uint64(x)), nil
	case uint64:
		return FromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(slices.Clone(x)), nil
	case []any:
		res := NewSequence()
		for _, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			res.Append(n)
		}
		return res, nil
	case map[string]any:
		res := NewMapping()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, err
			}
			res.Set(FromString(k), n)
		}
		return res, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a node", v)
}

// Keys returns the string keys of a mapping in tree order, skipping keys
// which are not strings.
func (y *Node) Keys() []string {
	strs := lo.Filter(y.Fields, func(f *Node, _ int) bool { return f.Type == StringType })
	return lo.Map(strs, func(f *Node, _ int) string { return f.String })
}

func formatFloatKey(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
