package token

import (
	"fmt"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		q    byte
		want string
	}{
		{"abc", '"', `"abc"`},
		{"a\"b'c", '"', `"a\"b'c"`},
		{"a\"b'c", '\'', `'a"b\'c'`},
		{"tab\there\n", '"', `"tab\there\n"`},
		{"\x01\u2028", '"', `"\u0001\u2028"`},
		{"é", '"', `"é"`},
	}
	for _, tt := range tests {
		got := Quote(tt.in, tt.q)
		if got != tt.want {
			t.Errorf("Quote(%q) = %s want %s", tt.in, got, tt.want)
		}
		back, err := Unquote(got)
		if err != nil {
			t.Errorf("Unquote(%s): %v", got, err)
			continue
		}
		if back != tt.in {
			t.Errorf("Unquote(%s) = %q", got, back)
		}
	}
}

var bareKeys = map[string]bool{
	"a":       true,
	"_a1":     true,
	"$x":      true,
	"":        false,
	"1a":      false,
	"a-b":     false,
	"a b":     false,
	"null":    false,
	"class":   false,
	"Classy":  true,
	"NaN":     false,
	"héllo":   false,
	"default": false,
}

func TestIsBareKey(t *testing.T) {
	for k, want := range bareKeys {
		if got := IsBareKey(k); got != want {
			t.Errorf("IsBareKey(%q) = %v", k, got)
		}
	}
}

func TestIsBareKeyConcurrent(t *testing.T) {
	for i := range 8 {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			t.Parallel()
			for range 100 {
				for k, want := range bareKeys {
					if got := IsBareKey(k); got != want {
						t.Errorf("IsBareKey(%q) = %v", k, got)
						return
					}
				}
			}
		})
	}
}
