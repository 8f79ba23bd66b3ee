package gomap

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/ir"
)

// Marshaler is implemented by types which build their own tree.
type Marshaler interface {
	MarshalIR() (*ir.Node, error)
}

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// ToIR converts a Go value to a tree.
//
// Struct fields keep declaration order and carry the comments and hints of
// their tags. Maps are written with their keys in content order. []byte
// and [N]byte become Bytes. Nil pointers, slices, maps and interfaces
// become Null, as does struct{}. Types implementing Marshaler or
// encoding.TextMarshaler are converted by those methods.
func ToIR(v any, opts ...MapOption) (*ir.Node, error) {
	s := &serializer{
		cfg:     newMapConfig(opts),
		visited: map[uintptr]string{},
	}
	if v == nil {
		return ir.Null(), nil
	}
	node, err := s.value(reflect.ValueOf(v), nil, 0)
	if err != nil {
		return nil, err
	}
	return node, nil
}

type serializer struct {
	cfg     *mapConfig
	visited map[uintptr]string
}

func (s *serializer) errorf(path ir.Path, err error, f string, args ...any) error {
	return &SerializeError{Path: path.String(), Msg: fmt.Sprintf(f, args...), Err: err}
}

// extension calls Marshaler or TextMarshaler when val implements one.
func (s *serializer) extension(val reflect.Value, path ir.Path) (*ir.Node, bool, error) {
	if !val.CanInterface() || val.Kind() == reflect.Pointer && val.IsNil() {
		return nil, false, nil
	}
	if val.Type() == nodePtrType {
		res := val.Interface().(*ir.Node).Clone()
		res.Parent = nil
		return res, true, nil
	}
	if !val.Type().Implements(marshalerType) && !val.Type().Implements(textMarshalerType) {
		if !val.CanAddr() {
			return nil, false, nil
		}
		val = val.Addr()
	}
	switch x := val.Interface().(type) {
	case Marshaler:
		node, err := x.MarshalIR()
		if err != nil {
			if errors.Is(err, ErrNotRepresentable) {
				return nil, true, s.errorf(path, err, "%s: %v", val.Type(), err)
			}
			return nil, true, &SerializeError{Path: path.String(), Err: err}
		}
		if node == nil {
			return ir.Null(), true, nil
		}
		return node, true, nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil, true, &SerializeError{Path: path.String(), Err: err}
		}
		return ir.FromString(string(text)), true, nil
	}
	return nil, false, nil
}

func (s *serializer) value(val reflect.Value, path ir.Path, depth int) (*ir.Node, error) {
	if !val.IsValid() {
		return ir.Null(), nil
	}
	if depth > s.cfg.maxDepth {
		return nil, s.errorf(path, ErrDepth, "more than %d levels", s.cfg.maxDepth)
	}
	if node, ok, err := s.extension(val, path); ok || err != nil {
		return node, err
	}
	typ := val.Type()
	switch typ.Kind() {
	case reflect.Pointer:
		if val.IsNil() {
			return ir.Null(), nil
		}
		release, err := s.enter(val.Pointer(), path)
		if err != nil {
			return nil, err
		}
		defer release()
		return s.value(val.Elem(), path, depth+1)

	case reflect.Interface:
		if val.IsNil() {
			return ir.Null(), nil
		}
		if e := lookupEnum(typ); e != nil {
			return s.variant(e, val.Elem(), path, depth)
		}
		return s.value(val.Elem(), path, depth+1)

	case reflect.Bool:
		return ir.FromBool(val.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromUint(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(val.Float()), nil
	case reflect.String:
		return ir.FromString(val.String()), nil

	case reflect.Slice:
		if val.IsNil() {
			return ir.Null(), nil
		}
		if typ.Elem().Kind() == reflect.Uint8 {
			return ir.FromBytes(slices.Clone(val.Bytes())), nil
		}
		release, err := s.enter(val.Pointer(), path)
		if err != nil {
			return nil, err
		}
		defer release()
		return s.seq(val, path, depth)

	case reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			b := make([]byte, val.Len())
			reflect.Copy(reflect.ValueOf(b), val)
			return ir.FromBytes(b), nil
		}
		return s.seq(val, path, depth)

	case reflect.Map:
		if val.IsNil() {
			return ir.Null(), nil
		}
		release, err := s.enter(val.Pointer(), path)
		if err != nil {
			return nil, err
		}
		defer release()
		return s.mapping(val, path, depth)

	case reflect.Struct:
		return s.structure(val, path, depth)
	}
	return nil, s.errorf(path, ErrNotRepresentable, "unsupported type %s", typ)
}

// enter records a reference on the current path, failing on a cycle.
func (s *serializer) enter(p uintptr, path ir.Path) (func(), error) {
	if prev, seen := s.visited[p]; seen {
		return nil, s.errorf(path, ErrCycle, "%s refers back to %s", path, prev)
	}
	s.visited[p] = path.String()
	return func() { delete(s.visited, p) }, nil
}

func (s *serializer) seq(val reflect.Value, path ir.Path, depth int) (*ir.Node, error) {
	res := ir.NewSequence()
	for i := range val.Len() {
		elem, err := s.value(val.Index(i), path.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		res.Append(elem)
	}
	return res, nil
}

func (s *serializer) mapping(val reflect.Value, path ir.Path, depth int) (*ir.Node, error) {
	type entry struct {
		key *ir.Node
		val reflect.Value
	}
	entries := make([]entry, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := s.key(iter.Key(), path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: key, val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return ir.Compare(a.key, b.key) })
	res := ir.NewMapping()
	for _, e := range entries {
		v, err := s.value(e.val, path.Field(e.key), depth+1)
		if err != nil {
			return nil, err
		}
		res.Set(e.key, v)
	}
	return res, nil
}

func (s *serializer) key(k reflect.Value, path ir.Path) (*ir.Node, error) {
	if node, ok, err := s.extension(k, path); ok || err != nil {
		if err == nil && node.Type != ir.StringType {
			return nil, s.errorf(path, ErrNotRepresentable, "map key of type %s is a %s", k.Type(), node.Type)
		}
		return node, err
	}
	switch k.Kind() {
	case reflect.String:
		return ir.FromString(k.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(k.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromUint(k.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(k.Float()), nil
	case reflect.Bool:
		return ir.FromBool(k.Bool()), nil
	}
	return nil, s.errorf(path, ErrNotRepresentable, "unsupported map key type %s", k.Type())
}

func (s *serializer) structure(val reflect.Value, path ir.Path, depth int) (*ir.Node, error) {
	typ := val.Type()
	if typ.NumField() == 0 {
		return ir.Null(), nil
	}
	si, err := getStructInfo(typ, s.cfg.tagName)
	if err != nil {
		return nil, s.errorf(path, ErrBadTag, "%v", err)
	}
	if si.tuple {
		res := ir.NewSequence()
		for i, f := range si.fields {
			fv, ok := fieldValue(val, f.index)
			var node *ir.Node
			if !ok {
				node = ir.Null()
			} else if node, err = s.value(fv, path.Index(i), depth+1); err != nil {
				return nil, err
			}
			res.Append(s.annotate(node, f))
		}
		return res, nil
	}
	res := ir.NewMapping()
	for _, f := range si.fields {
		fv, ok := fieldValue(val, f.index)
		if !ok || f.omitEmpty && fv.IsZero() {
			continue
		}
		key := ir.FromString(f.name)
		node, err := s.value(fv, path.Field(key), depth+1)
		if err != nil {
			return nil, err
		}
		res.Set(key, s.annotate(node, f))
	}
	if debug.Map() {
		debug.Logf("serialized %s at %s: %d fields", typ, path, res.Len())
	}
	return res, nil
}

// annotate copies the tag's comments and the hints which apply to node's
// type onto node.
func (s *serializer) annotate(node *ir.Node, f *fieldInfo) *ir.Node {
	if !s.cfg.annotate {
		return node
	}
	a := &node.Ann
	if len(f.ann.Comment) != 0 {
		a.Comment = append(a.Comment, f.ann.Comment...)
	}
	if f.ann.LineComment != "" {
		a.LineComment = f.ann.LineComment
	}
	switch node.Type {
	case ir.IntType:
		if f.ann.Base != 0 {
			a.Base = f.ann.Base
		}
	case ir.StringType, ir.BytesType:
		if f.ann.Str != ir.StrDefault {
			a.Str = f.ann.Str
		}
	case ir.SequenceType, ir.MappingType:
		if f.ann.Layout != ir.LayoutDefault {
			a.Layout = f.ann.Layout
		}
	}
	return node
}

func (s *serializer) variant(e *Enum, val reflect.Value, path ir.Path, depth int) (*ir.Node, error) {
	vr, inner, ok := e.variantOf(val)
	if !ok {
		return nil, s.errorf(path, ErrEnum, "%s is not a registered variant of %s", val.Type(), e.iface)
	}
	if vr.shape == UnitVariant {
		return ir.FromString(vr.name), nil
	}
	key := ir.FromString(vr.name)
	payload, err := s.value(inner, path.Field(key), depth+1)
	if err != nil {
		return nil, err
	}
	return ir.NewMapping().Set(key, payload), nil
}

// fieldValue follows an index path through embedded structs.
func fieldValue(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
