package gomap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Shape is the form of an enum variant's payload.
type Shape int

const (
	// UnitVariant has no payload and is written as the bare variant name.
	UnitVariant Shape = iota
	// NewtypeVariant wraps one value.
	NewtypeVariant
	// TupleVariant is a struct embedding Tuple.
	TupleVariant
	// StructVariant is a struct with named fields.
	StructVariant
)

func (s Shape) String() string {
	switch s {
	case UnitVariant:
		return "unit"
	case NewtypeVariant:
		return "newtype"
	case TupleVariant:
		return "tuple"
	case StructVariant:
		return "struct"
	}
	return fmt.Sprintf("<shape %d>", int(s))
}

// Enum describes an interface type whose implementations are the variants
// of a sum type. A variant other than a unit is written as a mapping with
// one entry, from the variant name to its payload.
//
//	var shapes = gomap.NewEnum[Shape]().
//	    Variant("circle", Circle{}).
//	    Variant("empty", Empty{})
//
//	func init() { gomap.MustRegisterEnum(shapes) }
type Enum struct {
	iface  reflect.Type
	byName map[string]*variant
	byType map[reflect.Type]*variant
	errs   []error
}

type variant struct {
	name  string
	typ   reflect.Type
	shape Shape
}

func NewEnum[I any]() *Enum {
	return &Enum{
		iface:  reflect.TypeFor[I](),
		byName: map[string]*variant{},
		byType: map[reflect.Type]*variant{},
	}
}

// Variant adds a variant named name whose Go type is the type of v. v may
// be a value or a pointer.
func (e *Enum) Variant(name string, v any) *Enum {
	t := reflect.TypeOf(v)
	switch {
	case name == "":
		e.errs = append(e.errs, fmt.Errorf("%w: empty variant name", ErrEnum))
		return e
	case t == nil:
		e.errs = append(e.errs, fmt.Errorf("%w: variant %q has no type", ErrEnum, name))
		return e
	case e.iface.Kind() == reflect.Interface && !t.Implements(e.iface):
		e.errs = append(e.errs, fmt.Errorf("%w: %s does not implement %s", ErrEnum, t, e.iface))
		return e
	}
	if _, dup := e.byName[name]; dup {
		e.errs = append(e.errs, fmt.Errorf("%w: duplicate variant %q", ErrEnum, name))
		return e
	}
	if _, dup := e.byType[t]; dup {
		e.errs = append(e.errs, fmt.Errorf("%w: duplicate variant type %s", ErrEnum, t))
		return e
	}
	vr := &variant{name: name, typ: t, shape: shapeOf(t)}
	e.byName[name] = vr
	e.byType[t] = vr
	return e
}

func shapeOf(t reflect.Type) Shape {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return NewtypeVariant
	}
	if t.NumField() == 0 {
		return UnitVariant
	}
	for i := range t.NumField() {
		if sf := t.Field(i); sf.Anonymous && sf.Type == tupleType {
			return TupleVariant
		}
	}
	return StructVariant
}

// Shape reports the shape of the named variant.
func (e *Enum) Shape(name string) (Shape, bool) {
	vr, ok := e.byName[name]
	if !ok {
		return 0, false
	}
	return vr.shape, true
}

var enums = struct {
	sync.RWMutex
	m map[reflect.Type]*Enum
}{m: map[reflect.Type]*Enum{}}

// RegisterEnum makes e apply wherever its interface type is serialized or
// materialized.
func RegisterEnum(e *Enum) error {
	if e.iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s is not an interface type", ErrEnum, e.iface)
	}
	if len(e.errs) != 0 {
		return errors.Join(e.errs...)
	}
	if len(e.byName) == 0 {
		return fmt.Errorf("%w: %s has no variants", ErrEnum, e.iface)
	}
	enums.Lock()
	defer enums.Unlock()
	if _, dup := enums.m[e.iface]; dup {
		return fmt.Errorf("%w: %s already registered", ErrEnum, e.iface)
	}
	enums.m[e.iface] = e
	return nil
}

func MustRegisterEnum(e *Enum) {
	if err := RegisterEnum(e); err != nil {
		panic(err)
	}
}

func lookupEnum(t reflect.Type) *Enum {
	if t.Kind() != reflect.Interface {
		return nil
	}
	enums.RLock()
	defer enums.RUnlock()
	return enums.m[t]
}

// variantOf finds the variant of the dynamic type of v.
func (e *Enum) variantOf(v reflect.Value) (*variant, reflect.Value, bool) {
	if vr, ok := e.byType[v.Type()]; ok {
		return vr, v, true
	}
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		if vr, ok := e.byType[v.Type().Elem()]; ok {
			return vr, v.Elem(), true
		}
	}
	return nil, v, false
}
