package gomap

import (
	"encoding"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/annotate/debug"
	"github.com/signadot/annotate/ir"
)

// Unmarshaler is implemented by types which read their own tree.
type Unmarshaler interface {
	UnmarshalIR(*ir.Node) error
}

var nodePtrType = reflect.TypeFor[*ir.Node]()

// valueTarget stores a tree into a settable Go value.
type valueTarget struct {
	val reflect.Value
	cfg *unmapConfig
	f   *fieldInfo

	hex      bool
	delegate Target
}

func newValueTarget(val reflect.Value, cfg *unmapConfig, f *fieldInfo) *valueTarget {
	return &valueTarget{val: val, cfg: cfg, f: f}
}

// ValueTarget returns the Target which FromIR uses to fill *ptr, for use
// with FromIRDyn.
func ValueTarget(ptr any, opts ...UnmapOption) (Target, error) {
	val, err := targetValue(ptr)
	if err != nil {
		return nil, err
	}
	return newValueTarget(val, newUnmapConfig(opts), nil), nil
}

func targetValue(ptr any) (reflect.Value, error) {
	val := reflect.ValueOf(ptr)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return reflect.Value{}, &MaterializeError{
			Msg: fmt.Sprintf("target must be a non-nil pointer, got %T", ptr),
			Err: ErrTarget,
		}
	}
	return val.Elem(), nil
}

// want names the tree kind which fits t.
func want(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return ir.BoolType.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.IntType.String()
	case reflect.Float32, reflect.Float64:
		return ir.FloatType.String()
	case reflect.String:
		return ir.StringType.String()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return ir.BytesType.String()
		}
		return ir.SequenceType.String()
	case reflect.Map:
		return ir.MappingType.String()
	case reflect.Struct:
		if t.NumField() == 0 {
			return ir.NullType.String()
		}
		return ir.MappingType.String() + " (" + t.String() + ")"
	}
	return t.String()
}

func (t *valueTarget) mismatch(actual ir.Type) error {
	return mismatch(want(t.deref().Type()), actual.String())
}

// deref follows pointers, allocating nil ones.
func (t *valueTarget) deref() reflect.Value {
	v := t.val
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

func (t *valueTarget) SetNode(node *ir.Node) (bool, error) {
	t.delegate = nil
	t.hex = node.Ann.Str == ir.StrHex
	if t.val.Type() == nodePtrType {
		res := node.Clone()
		res.Parent = nil
		t.val.Set(reflect.ValueOf(res))
		return true, nil
	}
	if node.Type == ir.NullType {
		return false, nil
	}
	v := t.deref()
	if v.CanAddr() {
		switch x := v.Addr().Interface().(type) {
		case Unmarshaler:
			return true, x.UnmarshalIR(node)
		case encoding.TextUnmarshaler:
			if node.Type != ir.StringType {
				return true, mismatch(ir.StringType.String(), node.Type.String())
			}
			return true, x.UnmarshalText([]byte(node.String))
		}
	}
	if v.Kind() == reflect.Interface {
		if e := lookupEnum(v.Type()); e != nil {
			t.delegate = &enumTarget{val: v, e: e, cfg: t.cfg}
			return false, nil
		}
		if v.NumMethod() != 0 {
			return true, &MaterializeError{
				Msg: fmt.Sprintf("no registered enum for interface %s", v.Type()),
				Err: ErrEnum,
			}
		}
		t.delegate = &AnyTarget{set: func(x any) {
			if x == nil {
				v.SetZero()
				return
			}
			v.Set(reflect.ValueOf(x))
		}}
	}
	return false, nil
}

func (t *valueTarget) SetNull() error {
	if t.delegate != nil {
		return t.delegate.SetNull()
	}
	switch t.val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		t.val.SetZero()
		return nil
	case reflect.Struct:
		if t.val.Type().NumField() == 0 {
			return nil
		}
	}
	return t.mismatch(ir.NullType)
}

func (t *valueTarget) SetBool(b bool) error {
	if t.delegate != nil {
		return t.delegate.SetBool(b)
	}
	v := t.deref()
	if v.Kind() != reflect.Bool {
		return t.mismatch(ir.BoolType)
	}
	v.SetBool(b)
	return nil
}

func overflow(v reflect.Value, text string) error {
	return &MaterializeError{
		Msg: fmt.Sprintf("%s overflows %s", text, v.Type()),
		Err: ErrOverflow,
	}
}

func (t *valueTarget) SetInt(i int64) error {
	if t.delegate != nil {
		return t.delegate.SetInt(i)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(i) {
			return overflow(v, strconv.FormatInt(i, 10))
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 || v.OverflowUint(uint64(i)) {
			return overflow(v, strconv.FormatInt(i, 10))
		}
		v.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(i))
	default:
		return t.mismatch(ir.IntType)
	}
	return nil
}

func (t *valueTarget) SetUint(u uint64) error {
	if t.delegate != nil {
		return t.delegate.SetUint(u)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if u > math.MaxInt64 || v.OverflowInt(int64(u)) {
			return overflow(v, strconv.FormatUint(u, 10))
		}
		v.SetInt(int64(u))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.OverflowUint(u) {
			return overflow(v, strconv.FormatUint(u, 10))
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(float64(u))
	default:
		return t.mismatch(ir.IntType)
	}
	return nil
}

func (t *valueTarget) SetFloat(f float64) error {
	if t.delegate != nil {
		return t.delegate.SetFloat(f)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if v.OverflowFloat(f) {
			return overflow(v, strconv.FormatFloat(f, 'g', -1, 64))
		}
		v.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return t.mismatch(ir.FloatType)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return overflow(v, strconv.FormatFloat(f, 'g', -1, 64))
		}
		return t.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return t.mismatch(ir.FloatType)
		}
		if f < 0 || f >= math.MaxUint64 {
			return overflow(v, strconv.FormatFloat(f, 'g', -1, 64))
		}
		return t.SetUint(uint64(f))
	}
	return t.mismatch(ir.FloatType)
}

func (t *valueTarget) SetString(s string) error {
	if t.delegate != nil {
		return t.delegate.SetString(s)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// strict JSON quotes integers a double cannot hold
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			break
		}
		return t.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			break
		}
		return t.SetUint(u)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			break
		}
		// a hexbytes field also accepts base64, which is how dialects
		// without hex bytes write it
		tagHex := t.f != nil && t.f.hexBytes
		var b []byte
		var err error
		if t.hex || tagHex {
			b, err = hex.DecodeString(s)
		}
		if !t.hex && (!tagHex || err != nil) {
			b, err = base64.StdEncoding.DecodeString(s)
		}
		if err != nil {
			return &MaterializeError{
				Expected: ir.BytesType.String(),
				Actual:   ir.StringType.String(),
				Msg:      fmt.Sprintf("string is not encoded bytes: %v", err),
				Err:      ErrKindMismatch,
			}
		}
		return t.SetBytes(b)
	}
	return t.mismatch(ir.StringType)
}

func (t *valueTarget) SetBytes(b []byte) error {
	if t.delegate != nil {
		return t.delegate.SetBytes(b)
	}
	v := t.deref()
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array || v.Type().Elem().Kind() != reflect.Uint8 {
		return t.mismatch(ir.BytesType)
	}
	if v.Kind() == reflect.Array {
		if v.Len() != len(b) {
			return &MaterializeError{
				Msg: fmt.Sprintf("%d bytes do not fit %s", len(b), v.Type()),
				Err: ErrKindMismatch,
			}
		}
		reflect.Copy(v, reflect.ValueOf(b))
		return nil
	}
	res := reflect.MakeSlice(v.Type(), len(b), len(b))
	reflect.Copy(res, reflect.ValueOf(b))
	v.Set(res)
	return nil
}

func (t *valueTarget) BeginSeq(n int) (SeqTarget, error) {
	if t.delegate != nil {
		return t.delegate.BeginSeq(n)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.Slice:
		return &sliceTarget{
			val: v,
			res: reflect.MakeSlice(v.Type(), n, n),
			cfg: t.cfg,
		}, nil
	case reflect.Array:
		if v.Len() != n {
			return nil, lengthMismatch(v.Type(), v.Len(), n)
		}
		v.SetZero()
		return &sliceTarget{val: v, res: v, cfg: t.cfg}, nil
	case reflect.Struct:
		si, err := getStructInfo(v.Type(), t.cfg.tagName)
		if err != nil {
			return nil, &MaterializeError{Msg: err.Error(), Err: ErrBadTag}
		}
		if !si.tuple {
			break
		}
		if len(si.fields) != n {
			return nil, lengthMismatch(v.Type(), len(si.fields), n)
		}
		v.SetZero()
		return &tupleTarget{val: v, si: si, cfg: t.cfg}, nil
	}
	return nil, t.mismatch(ir.SequenceType)
}

func lengthMismatch(t reflect.Type, want, got int) error {
	return &MaterializeError{
		Expected: fmt.Sprintf("%d elements", want),
		Actual:   fmt.Sprintf("%d", got),
		Msg:      fmt.Sprintf("%s has %d elements, got %d", t, want, got),
		Err:      ErrKindMismatch,
	}
}

func (t *valueTarget) BeginMap(n int) (MapTarget, error) {
	if t.delegate != nil {
		return t.delegate.BeginMap(n)
	}
	v := t.deref()
	switch v.Kind() {
	case reflect.Map:
		return &mapTarget{
			val: v,
			res: reflect.MakeMapWithSize(v.Type(), n),
			cfg: t.cfg,
		}, nil
	case reflect.Struct:
		if v.Type().NumField() == 0 {
			break
		}
		si, err := getStructInfo(v.Type(), t.cfg.tagName)
		if err != nil {
			return nil, &MaterializeError{Msg: err.Error(), Err: ErrBadTag}
		}
		if si.tuple {
			break
		}
		return &structTarget{val: v, si: si, cfg: t.cfg, seen: make(map[*fieldInfo]bool, n)}, nil
	}
	return nil, t.mismatch(ir.MappingType)
}

type sliceTarget struct {
	val, res reflect.Value
	cfg      *unmapConfig
}

func (s *sliceTarget) Elem(i int) (Target, error) {
	return newValueTarget(s.res.Index(i), s.cfg, nil), nil
}

func (s *sliceTarget) End() error {
	if s.val.Kind() == reflect.Slice {
		s.val.Set(s.res)
	}
	return nil
}

type tupleTarget struct {
	val reflect.Value
	si  *structInfo
	cfg *unmapConfig
}

func (s *tupleTarget) Elem(i int) (Target, error) {
	f := s.si.fields[i]
	return newValueTarget(fieldAlloc(s.val, f.index), s.cfg, f), nil
}

func (s *tupleTarget) End() error { return nil }

type mapTarget struct {
	val, res reflect.Value
	cfg      *unmapConfig

	pendKey, pendVal reflect.Value
}

func (m *mapTarget) flush() {
	if m.pendKey.IsValid() {
		m.res.SetMapIndex(m.pendKey, m.pendVal)
		m.pendKey = reflect.Value{}
	}
}

func (m *mapTarget) Entry(key *ir.Node) (Target, error) {
	m.flush()
	k, err := mapKey(key, m.val.Type().Key())
	if err != nil {
		return nil, err
	}
	m.pendKey = k
	m.pendVal = reflect.New(m.val.Type().Elem()).Elem()
	return newValueTarget(m.pendVal, m.cfg, nil), nil
}

func (m *mapTarget) End() error {
	m.flush()
	m.val.Set(m.res)
	return nil
}

// mapKey converts a tree key to a Go map key. Keys of integer, float and
// bool maps may also be given as strings, which is how the JSON family
// writes them.
func mapKey(key *ir.Node, kt reflect.Type) (reflect.Value, error) {
	res := reflect.New(kt)
	if u, ok := res.Interface().(encoding.TextUnmarshaler); ok && key.Type == ir.StringType {
		if err := u.UnmarshalText([]byte(key.String)); err != nil {
			return reflect.Value{}, &MaterializeError{Msg: fmt.Sprintf("map key: %v", err), Err: err}
		}
		return res.Elem(), nil
	}
	k := res.Elem()
	bad := func() error {
		return &MaterializeError{
			Expected: kt.String() + " key",
			Actual:   key.Type.String() + " key",
			Err:      ErrKindMismatch,
		}
	}
	if key.Type == ir.StringType && k.Kind() != reflect.String {
		n, err := scalarKey(key.String)
		if err != nil {
			return reflect.Value{}, bad()
		}
		key = n
	}
	var err error
	switch key.Type {
	case ir.StringType, ir.IntType, ir.FloatType, ir.BoolType:
		if k.Kind() == reflect.String {
			var s string
			if s, err = ir.KeyString(key); err == nil {
				k.SetString(s)
			}
			break
		}
		err = walk(key, newValueTarget(k, newUnmapConfig(nil), nil), nil, 0, 0)
	default:
		return reflect.Value{}, bad()
	}
	if err != nil {
		return reflect.Value{}, bad()
	}
	return k, nil
}

// scalarKey reads the text of a non-string key back.
func scalarKey(s string) (*ir.Node, error) {
	switch s {
	case "true":
		return ir.FromBool(true), nil
	case "false":
		return ir.FromBool(false), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.FromInt(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return ir.FromUint(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return ir.FromFloat(f), nil
}

type structTarget struct {
	val  reflect.Value
	si   *structInfo
	cfg  *unmapConfig
	seen map[*fieldInfo]bool
}

func (s *structTarget) Entry(key *ir.Node) (Target, error) {
	var f *fieldInfo
	if key.Type == ir.StringType {
		f = s.si.byName[key.String]
	}
	if f == nil {
		if s.cfg.tolerant {
			return nil, nil
		}
		name, _ := ir.KeyString(key)
		return nil, &MaterializeError{
			Msg: fmt.Sprintf("unknown field %q in %s", name, s.val.Type()),
			Err: ErrUnknownField,
		}
	}
	s.seen[f] = true
	return newValueTarget(fieldAlloc(s.val, f.index), s.cfg, f), nil
}

// End fills the fields the mapping did not mention.
func (s *structTarget) End() error {
	for _, f := range s.si.fields {
		if s.seen[f] {
			continue
		}
		lenient := s.cfg.tolerant || f.optional
		fv := fieldAlloc(s.val, f.index)
		switch {
		case f.def != nil && lenient:
			if err := walk(f.def, newValueTarget(fv, s.cfg, f), nil, 0, s.cfg.maxDepth); err != nil {
				return err
			}
		case lenient || f.omitEmpty || nullable(f.typ):
			fv.SetZero()
		default:
			return &MaterializeError{
				Msg: fmt.Sprintf("missing field %q of %s", f.name, s.val.Type()),
				Err: ErrMissingField,
			}
		}
		if debug.Map() && fv.CanInterface() {
			debug.LogAny(fmt.Sprintf("%s.%s absent", s.val.Type(), f.name), fv.Interface())
		}
	}
	return nil
}

func nullable(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface
}

// fieldAlloc is fieldValue for writing: nil embedded pointers are
// allocated on the way.
func fieldAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// enumTarget reads a variant into an interface value: a bare name for a
// unit variant, a single-entry mapping for the others.
type enumTarget struct {
	val reflect.Value
	e   *Enum
	cfg *unmapConfig
	vr  *variant
	res reflect.Value
}

func (t *enumTarget) mismatch(actual ir.Type) error {
	return mismatch("variant of "+t.e.iface.String(), actual.String())
}

func (t *enumTarget) lookup(name string) (*variant, error) {
	vr, ok := t.e.byName[name]
	if !ok {
		return nil, &MaterializeError{
			Msg: fmt.Sprintf("%q is not a variant of %s", name, t.e.iface),
			Err: ErrEnum,
		}
	}
	return vr, nil
}

// fresh returns a zero value of the variant's Go type.
func fresh(vr *variant) reflect.Value {
	if vr.typ.Kind() == reflect.Pointer {
		return reflect.New(vr.typ.Elem())
	}
	return reflect.New(vr.typ).Elem()
}

func (t *enumTarget) SetNull() error {
	t.val.SetZero()
	return nil
}

func (t *enumTarget) SetString(name string) error {
	vr, err := t.lookup(name)
	if err != nil {
		return err
	}
	if vr.shape != UnitVariant {
		return &MaterializeError{
			Msg: fmt.Sprintf("%s variant %q needs a payload", vr.shape, name),
			Err: ErrEnum,
		}
	}
	t.val.Set(fresh(vr))
	return nil
}

func (t *enumTarget) SetBool(bool) error     { return t.mismatch(ir.BoolType) }
func (t *enumTarget) SetInt(int64) error     { return t.mismatch(ir.IntType) }
func (t *enumTarget) SetUint(uint64) error   { return t.mismatch(ir.IntType) }
func (t *enumTarget) SetFloat(float64) error { return t.mismatch(ir.FloatType) }
func (t *enumTarget) SetBytes([]byte) error  { return t.mismatch(ir.BytesType) }

func (t *enumTarget) BeginSeq(int) (SeqTarget, error) {
	return nil, t.mismatch(ir.SequenceType)
}

func (t *enumTarget) BeginMap(n int) (MapTarget, error) {
	if n != 1 {
		return nil, &MaterializeError{
			Expected: "single-entry Mapping",
			Actual:   fmt.Sprintf("Mapping of %d entries", n),
			Err:      ErrEnum,
		}
	}
	return t, nil
}

func (t *enumTarget) Entry(key *ir.Node) (Target, error) {
	if key.Type != ir.StringType {
		return nil, mismatch("variant name", key.Type.String())
	}
	vr, err := t.lookup(key.String)
	if err != nil {
		return nil, err
	}
	if vr.shape == UnitVariant {
		return nil, &MaterializeError{
			Msg: fmt.Sprintf("unit variant %q takes no payload", vr.name),
			Err: ErrEnum,
		}
	}
	t.vr = vr
	t.res = reflect.New(vr.typ).Elem()
	return newValueTarget(t.res, t.cfg, nil), nil
}

func (t *enumTarget) End() error {
	t.val.Set(t.res)
	return nil
}

// AnyTarget materializes a tree as plain Go values, the same ones
// (*ir.Node).ToAny returns: nil, bool, int64, uint64, float64, string,
// []byte, []any and map[string]any.
type AnyTarget struct {
	Value any

	set func(any)
}

func (t *AnyTarget) put(v any) error {
	t.Value = v
	if t.set != nil {
		t.set(v)
	}
	return nil
}

func (t *AnyTarget) SetNull() error           { return t.put(nil) }
func (t *AnyTarget) SetBool(b bool) error     { return t.put(b) }
func (t *AnyTarget) SetInt(i int64) error     { return t.put(i) }
func (t *AnyTarget) SetUint(u uint64) error   { return t.put(u) }
func (t *AnyTarget) SetFloat(f float64) error { return t.put(f) }
func (t *AnyTarget) SetString(s string) error { return t.put(s) }
func (t *AnyTarget) SetBytes(b []byte) error  { return t.put(slices.Clone(b)) }

func (t *AnyTarget) BeginSeq(n int) (SeqTarget, error) {
	return &anySeq{t: t, vals: make([]any, n)}, nil
}

func (t *AnyTarget) BeginMap(n int) (MapTarget, error) {
	return &anyMap{t: t, m: make(map[string]any, n)}, nil
}

type anySeq struct {
	t    *AnyTarget
	vals []any
}

func (s *anySeq) Elem(i int) (Target, error) {
	return &AnyTarget{set: func(v any) { s.vals[i] = v }}, nil
}

func (s *anySeq) End() error { return s.t.put(s.vals) }

type anyMap struct {
	t *AnyTarget
	m map[string]any
}

func (m *anyMap) Entry(key *ir.Node) (Target, error) {
	k, err := ir.KeyString(key)
	if err != nil {
		return nil, &MaterializeError{
			Expected: "scalar key",
			Actual:   key.Type.String() + " key",
			Err:      ErrKindMismatch,
		}
	}
	return &AnyTarget{set: func(v any) { m.m[k] = v }}, nil
}

func (m *anyMap) End() error { return m.t.put(m.m) }

// TreeTarget rebuilds the tree it is given without annotations.
type TreeTarget struct {
	Node *ir.Node

	set func(*ir.Node)
}

func (t *TreeTarget) put(n *ir.Node) error {
	t.Node = n
	if t.set != nil {
		t.set(n)
	}
	return nil
}

func (t *TreeTarget) SetNull() error           { return t.put(ir.Null()) }
func (t *TreeTarget) SetBool(b bool) error     { return t.put(ir.FromBool(b)) }
func (t *TreeTarget) SetInt(i int64) error     { return t.put(ir.FromInt(i)) }
func (t *TreeTarget) SetUint(u uint64) error   { return t.put(ir.FromUint(u)) }
func (t *TreeTarget) SetFloat(f float64) error { return t.put(ir.FromFloat(f)) }
func (t *TreeTarget) SetString(s string) error { return t.put(ir.FromString(s)) }
func (t *TreeTarget) SetBytes(b []byte) error  { return t.put(ir.FromBytes(slices.Clone(b))) }

func (t *TreeTarget) BeginSeq(n int) (SeqTarget, error) {
	return &treeSeq{t: t, vals: make([]*ir.Node, n)}, nil
}

func (t *TreeTarget) BeginMap(int) (MapTarget, error) {
	return &treeMap{t: t, res: ir.NewMapping()}, nil
}

type treeSeq struct {
	t    *TreeTarget
	vals []*ir.Node
}

func (s *treeSeq) Elem(i int) (Target, error) {
	return &TreeTarget{set: func(n *ir.Node) { s.vals[i] = n }}, nil
}

func (s *treeSeq) End() error {
	return s.t.put(ir.FromSlice(s.vals))
}

type treeMap struct {
	t   *TreeTarget
	res *ir.Node
}

func (m *treeMap) Entry(key *ir.Node) (Target, error) {
	k := key.Strip()
	return &TreeTarget{set: func(n *ir.Node) { m.res.Set(k, n) }}, nil
}

func (m *treeMap) End() error { return m.t.put(m.res) }
