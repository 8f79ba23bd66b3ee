// Package format names the textual dialects documents can be read from and
// written to, and records what each dialect's grammar can express.
//
// # Usage
//
//	d, err := format.ParseDialect("json5-like")
//	if err != nil {
//	    return err
//	}
//	if d.Features().AllowsLiteral(format.Hex) {
//	    // 0x literals are legal
//	}
//
// # Related Packages
//
//   - github.com/signadot/annotate/parse - Parse text to IR
//   - github.com/signadot/annotate/encode - Encode IR to text
package format
