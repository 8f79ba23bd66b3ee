package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	StringType
	BytesType
	SequenceType
	MappingType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:     "Null",
		BoolType:     "Bool",
		IntType:      "Integer",
		FloatType:    "Float",
		StringType:   "String",
		BytesType:    "Bytes",
		SequenceType: "Sequence",
		MappingType:  "Mapping",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":     NullType,
		"Bool":     BoolType,
		"Integer":  IntType,
		"Float":    FloatType,
		"String":   StringType,
		"Bytes":    BytesType,
		"Sequence": SequenceType,
		"Mapping":  MappingType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		IntType,
		FloatType,
		StringType,
		BytesType,
		SequenceType,
		MappingType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case SequenceType, MappingType:
		return false
	default:
		return true
	}
}

func (t Type) IsNumber() bool {
	return t == IntType || t == FloatType
}
