package format

import (
	"errors"
	"fmt"
)

// Dialect identifies one textual surface syntax.
type Dialect int

const (
	Strict Dialect = iota
	Relaxed
	JSON5
	YAML
	Hjson
	Debug
)

var ErrBadDialect = errors.New("bad dialect")

var names = map[string]Dialect{
	"strict":           Strict,
	"json":             Strict,
	"relaxed":          Relaxed,
	"json5-like":       JSON5,
	"json5":            JSON5,
	"yaml-like":        YAML,
	"yaml":             YAML,
	"comment-tolerant": Hjson,
	"hjson":            Hjson,
	"debug":            Debug,
}

func ParseDialect(v string) (Dialect, error) {
	d, ok := names[v]
	if ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadDialect, v)
}

func (d Dialect) String() string {
	b, err := d.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func (d Dialect) MarshalText() ([]byte, error) {
	switch d {
	case Strict:
		return []byte("strict"), nil
	case Relaxed:
		return []byte("relaxed"), nil
	case JSON5:
		return []byte("json5-like"), nil
	case YAML:
		return []byte("yaml-like"), nil
	case Hjson:
		return []byte("comment-tolerant"), nil
	case Debug:
		return []byte("debug"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a dialect>", d)
	}
}

func (d *Dialect) UnmarshalText(b []byte) error {
	pd, err := ParseDialect(string(b))
	if err != nil {
		return err
	}
	*d = pd
	return nil
}

// IsJSONFamily reports whether the dialect uses brace/bracket syntax.
func (d Dialect) IsJSONFamily() bool {
	switch d {
	case Strict, Relaxed, JSON5, Hjson:
		return true
	}
	return false
}

func (d Dialect) IsYAML() bool  { return d == YAML }
func (d Dialect) IsDebug() bool { return d == Debug }

// Suffix returns the conventional file extension for documents in this
// dialect (including the dot).
func (d Dialect) Suffix() string {
	switch d {
	case Strict:
		return ".json"
	case Relaxed:
		return ".jsonc"
	case JSON5:
		return ".json5"
	case YAML:
		return ".yaml"
	case Hjson:
		return ".hjson"
	default:
		return ".txt"
	}
}

// FromSuffix guesses a dialect from a file extension.
func FromSuffix(ext string) (Dialect, bool) {
	for _, d := range All() {
		if d.Suffix() == ext {
			return d, true
		}
	}
	if ext == ".yml" {
		return YAML, true
	}
	return 0, false
}

// All returns every dialect in declaration order.
func All() []Dialect {
	return []Dialect{Strict, Relaxed, JSON5, YAML, Hjson, Debug}
}

func (d Dialect) Valid() bool { return d >= Strict && d <= Debug }
