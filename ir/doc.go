// Package ir provides the annotated value tree shared by the parser, the
// emitters and the Go value bridges.
//
// # Overview
//
// A Node is a recursive tagged union. The Type field selects which fields
// carry the value:
//
//   - NullType: no value
//   - BoolType: Bool
//   - IntType: Int, or Uint when Unsigned is set (values above math.MaxInt64)
//   - FloatType: Float
//   - StringType: String
//   - BytesType: Bytes
//   - SequenceType: Values in order
//   - MappingType: parallel Fields (keys) and Values
//
// Each node maintains a link to its parent and its index there, allowing
// Path to name any node relative to the root.
//
// # Annotations
//
// Every node carries an Annotation: leading comment lines, a trailing line
// comment, footer comments, and display hints for numbers (Base), strings
// and bytes (StrFormat) and containers (Layout). Annotations never affect
// Equal, Compare or Hash. Builder methods such as WithComment and WithBase
// set them on an existing node without touching its children.
//
// # Mapping keys
//
// Keys are unique under Equal. Setting a key which is already present
// replaces the value in place: the last write wins and the entry keeps its
// first position and the annotations of the first key.
package ir
