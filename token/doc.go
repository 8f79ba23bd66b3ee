// Package token provides the lexical layer for the brace-delimited dialects
// (strict, relaxed, json5-like and comment-tolerant).
//
// [Scanner] turns bytes into [Token]s, comments included, according to a
// dialect's [format.Features]. [Quote] and [IsBareKey] are the inverse
// helpers used by emitters. Errors are reported as [*ParseError] with 1-based
// line and column positions.
package token
