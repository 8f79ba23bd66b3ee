// Package parse reads text in any parseable dialect into an [ir.Node].
//
// The brace dialects (strict, relaxed, json5-like and comment-tolerant)
// are read by a single pass recursive descent parser over [token.Scanner].
// The yaml-like dialect is read through github.com/goccy/go-yaml.
//
// # Comments
//
// Comments are attached while parsing:
//
//   - comment lines before a value become its leading Comment; before a
//     mapping key, they lead the entry's value
//   - a comment on the line where a value (or the comma after it) ended
//     becomes that value's LineComment
//   - comments before the opening bracket of the document's root container
//     lead its first element
//   - comments with nothing after them inside a container, or after the
//     document's value, become the container's or document's Footer
//
// # Errors
//
// Malformed input yields a [*token.ParseError] locating the first problem
// and, where applicable, the alternatives which were expected there.
package parse
