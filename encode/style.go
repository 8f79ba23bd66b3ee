package encode

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Style is the rendering configuration shared by all dialects.
type Style struct {
	// Indent is the number of spaces per nesting level.
	Indent int `toml:"indent"`
	// SortKeys orders mapping entries by key instead of tree order.
	SortKeys bool `toml:"sort_keys"`
	// Comments controls whether comments are written at all.
	Comments bool `toml:"comments"`
	// Color wraps tokens in terminal color codes.
	Color bool `toml:"color"`
	// MaxWidth is the widest a container may be, from the column where it
	// starts, and still be written on one line. Zero disables the flow
	// layout except where a node asks for it.
	MaxWidth int `toml:"max_width"`
}

func DefaultStyle() Style {
	return Style{
		Indent:   2,
		Comments: true,
		MaxWidth: 80,
	}
}

// DecodeStyle reads a TOML style description. Fields which are absent keep
// their default values.
func DecodeStyle(r io.Reader) (Style, error) {
	s := DefaultStyle()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrStyle, err)
	}
	if undec := md.Undecoded(); len(undec) != 0 {
		return s, fmt.Errorf("%w: unknown key %q", ErrStyle, undec[0].String())
	}
	if s.Indent < 0 || s.MaxWidth < 0 {
		return s, fmt.Errorf("%w: indent and max_width must not be negative", ErrStyle)
	}
	return s, nil
}

// LoadStyle reads a TOML style file.
func LoadStyle(path string) (Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultStyle(), err
	}
	defer f.Close()
	return DecodeStyle(f)
}
