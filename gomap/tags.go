package gomap

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/signadot/annotate/format"
	"github.com/signadot/annotate/ir"
	"github.com/signadot/annotate/parse"
)

// Tuple, embedded in a struct, makes the struct a tuple: its exported
// fields map to the elements of a sequence in declaration order.
type Tuple struct{}

var tupleType = reflect.TypeFor[Tuple]()

// fieldInfo is what a struct tag says about one field.
//
//	`anno:"name,omitempty,optional,default=V,comment='...',linecomment='...',hex,block"`
//
// The first element renames the field; "-" omits it. Hint flags are checked
// against the field's kind: hex, oct, bin and dec apply to integers; plain,
// quoted and block to strings; base64 and hexbytes to byte slices; flow and
// block to containers.
type fieldInfo struct {
	index     []int
	name      string
	typ       reflect.Type
	omitEmpty bool
	optional  bool
	def       *ir.Node
	ann       ir.Annotation
	hexBytes  bool
}

type structInfo struct {
	fields []*fieldInfo
	byName map[string]*fieldInfo
	tuple  bool
}

type infoKey struct {
	t   reflect.Type
	tag string
}

var structInfos sync.Map

// getStructInfo returns the cached field table of t, building and checking
// it on first use.
func getStructInfo(t reflect.Type, tagName string) (*structInfo, error) {
	key := infoKey{t: t, tag: tagName}
	if si, ok := structInfos.Load(key); ok {
		return si.(*structInfo), nil
	}
	si := &structInfo{byName: map[string]*fieldInfo{}}
	if err := si.add(t, nil, tagName); err != nil {
		return nil, err
	}
	if si.tuple {
		for _, f := range si.fields {
			if f.omitEmpty || f.def != nil {
				return nil, fmt.Errorf("%w: %s: tuple field %s cannot be omitted", ErrBadTag, t, f.name)
			}
		}
	}
	res, _ := structInfos.LoadOrStore(key, si)
	return res.(*structInfo), nil
}

func (si *structInfo) add(t reflect.Type, index []int, tagName string) error {
	for i := range t.NumField() {
		sf := t.Field(i)
		idx := append(index[:len(index):len(index)], i)
		if sf.Anonymous && sf.Type == tupleType {
			si.tuple = true
			continue
		}
		tag, hasTag := sf.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !hasTag {
			if err := si.add(sf.Type, idx, tagName); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		f, err := parseField(sf, tag)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrBadTag, t, sf.Name, err)
		}
		f.index = idx
		if _, dup := si.byName[f.name]; dup {
			return fmt.Errorf("%w: %s: duplicate field name %q", ErrBadTag, t, f.name)
		}
		si.byName[f.name] = f
		si.fields = append(si.fields, f)
	}
	return nil
}

func parseField(sf reflect.StructField, tag string) (*fieldInfo, error) {
	f := &fieldInfo{name: sf.Name, typ: sf.Type}
	parts, err := splitTag(tag)
	if err != nil {
		return nil, err
	}
	if len(parts) != 0 {
		if parts[0] != "" {
			f.name = parts[0]
		}
		parts = parts[1:]
	}
	kind := tagKind(sf.Type)
	for _, part := range parts {
		k, v, hasValue := strings.Cut(part, "=")
		v = unquoteValue(v)
		switch {
		case k == "omitempty":
			f.omitEmpty = true
		case k == "optional":
			f.optional = true
		case k == "comment" && hasValue:
			f.ann.Comment = strings.Split(v, "\n")
		case k == "linecomment" && hasValue:
			f.ann.LineComment = v
		case k == "default" && hasValue:
			def, err := defaultNode(sf.Type, v)
			if err != nil {
				return nil, err
			}
			f.def = def
		case hasValue:
			return nil, fmt.Errorf("unknown key %q", k)
		default:
			if err := f.flag(k, kind); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

type fieldKind int

const (
	otherKind fieldKind = iota
	intKind
	stringKind
	bytesKind
	containerKind
)

func tagKind(t reflect.Type) fieldKind {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return intKind
	case reflect.String:
		return stringKind
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesKind
		}
		return containerKind
	case reflect.Map, reflect.Struct:
		return containerKind
	}
	return otherKind
}

var (
	baseFlags = map[string]format.Base{
		"dec": format.Dec,
		"hex": format.Hex,
		"oct": format.Oct,
		"bin": format.Bin,
	}
	strFlags = map[string]ir.StrFormat{
		"plain":  ir.StrPlain,
		"quoted": ir.StrQuoted,
		"block":  ir.StrBlock,
	}
	layoutFlags = map[string]ir.Layout{
		"flow":  ir.LayoutFlow,
		"block": ir.LayoutBlock,
	}
)

func (f *fieldInfo) flag(k string, kind fieldKind) error {
	if b, ok := baseFlags[k]; ok && kind == intKind {
		f.ann.Base = b
		return nil
	}
	if s, ok := strFlags[k]; ok && kind == stringKind {
		f.ann.Str = s
		return nil
	}
	if l, ok := layoutFlags[k]; ok && kind == containerKind {
		f.ann.Layout = l
		return nil
	}
	switch {
	case k == "base64" && kind == bytesKind:
		f.ann.Str = ir.StrBase64
		return nil
	case k == "hexbytes" && kind == bytesKind:
		f.ann.Str = ir.StrHex
		f.hexBytes = true
		return nil
	}
	known := lo.Keys(baseFlags)
	known = append(known, lo.Keys(strFlags)...)
	known = append(known, lo.Keys(layoutFlags)...)
	known = append(known, "base64", "hexbytes")
	if lo.Contains(known, k) {
		return fmt.Errorf("%q does not apply to %s", k, f.typ)
	}
	return fmt.Errorf("unknown flag %q", k)
}

// defaultNode parses a default= value as relaxed text, falling back to the
// literal text for string fields, and checks that it fits t.
func defaultNode(t reflect.Type, v string) (*ir.Node, error) {
	node, err := parse.Parse([]byte(v), parse.ParseRelaxed(), parse.ParseComments(false))
	if err != nil {
		if tagKind(t) != stringKind && !reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return nil, fmt.Errorf("default %q: %w", v, err)
		}
		node = ir.FromString(v)
	}
	probe := reflect.New(t)
	if err := walk(node, newValueTarget(probe.Elem(), newUnmapConfig(nil), nil), nil, 0, DefaultMaxDepth); err != nil {
		return nil, fmt.Errorf("default %q: %w", v, err)
	}
	return node, nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// splitTag splits a tag on commas outside quotes and brackets.
func splitTag(tag string) ([]string, error) {
	if tag == "" {
		return nil, nil
	}
	var parts []string
	var current strings.Builder
	var quote byte
	nest := 0
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == '[' || c == '{':
			nest++
			current.WriteByte(c)
		case (c == ']' || c == '}') && nest > 0:
			nest--
			current.WriteByte(c)
		case c == ',' && nest == 0:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", tag)
	}
	parts = append(parts, strings.TrimSpace(current.String()))
	return parts, nil
}

// unquoteValue removes surrounding single or double quotes from a value.
func unquoteValue(value string) string {
	if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}
