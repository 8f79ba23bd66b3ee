package token

import (
	"regexp"
	"sync"
)

// The identifier pattern and reserved word set are built on first use and
// never modified afterwards, so concurrent readers need no locking.
var (
	identRE = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	})
	reserved = sync.OnceValue(func() map[string]struct{} {
		words := []string{
			"break", "do", "instanceof", "typeof", "case", "else", "new",
			"var", "catch", "finally", "return", "void", "continue", "for",
			"switch", "while", "debugger", "function", "this", "with",
			"default", "if", "throw", "delete", "in", "try", "class",
			"enum", "extends", "super", "const", "export", "import",
			"implements", "let", "private", "public", "yield", "interface",
			"package", "protected", "static", "null", "true", "false",
			"Infinity", "NaN",
		}
		res := make(map[string]struct{}, len(words))
		for _, w := range words {
			res[w] = struct{}{}
		}
		return res
	})
)

// IsReserved reports whether w is a keyword of the JavaScript family which
// may not appear as a bare key.
func IsReserved(w string) bool {
	_, ok := reserved()[w]
	return ok
}

// IsBareKey reports whether w can be written as an unquoted mapping key.
func IsBareKey(w string) bool {
	return identRE().MatchString(w) && !IsReserved(w)
}

func identStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func identChar(c byte) bool {
	return identStart(c) || asciiDigit(c)
}
