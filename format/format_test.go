package format

import (
	"errors"
	"testing"
)

func TestParseDialect(t *testing.T) {
	for _, d := range All() {
		got, err := ParseDialect(d.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != d {
			t.Errorf("%s parsed as %s", d, got)
		}
	}
	aliases := map[string]Dialect{"json": Strict, "json5": JSON5, "yaml": YAML, "hjson": Hjson}
	for s, want := range aliases {
		if got, _ := ParseDialect(s); got != want {
			t.Errorf("%s: got %s", s, got)
		}
	}
	if _, err := ParseDialect("toml"); !errors.Is(err, ErrBadDialect) {
		t.Errorf("got %v", err)
	}
}

func TestSuffix(t *testing.T) {
	for _, d := range All() {
		if d == Debug {
			continue
		}
		got, ok := FromSuffix(d.Suffix())
		if !ok || got != d {
			t.Errorf("%s: %s -> %s", d, d.Suffix(), got)
		}
	}
	if got, ok := FromSuffix(".yml"); !ok || got != YAML {
		t.Error(".yml")
	}
}

func TestFeatures(t *testing.T) {
	if Strict.Features().HasComments() {
		t.Error("strict has comments")
	}
	if !Relaxed.Features().AllowsLiteral(Bin) || JSON5.Features().AllowsLiteral(Bin) {
		t.Error("binary literals")
	}
	if !Hjson.Features().AllowsComment(Hash) || JSON5.Features().AllowsComment(Hash) {
		t.Error("hash comments")
	}
	if Dialect(99).Features() != Strict.Features() {
		t.Error("unknown dialect features")
	}
}

func TestUnsupportedFeatureError(t *testing.T) {
	err := error(&UnsupportedFeatureError{Dialect: Strict, Feature: "hex literals", Path: "$.a"})
	if !errors.Is(err, ErrUnsupported) {
		t.Error("not ErrUnsupported")
	}
	if got, want := err.Error(), "unsupported feature: strict does not support hex literals at $.a"; got != want {
		t.Errorf("got %q", got)
	}
}
