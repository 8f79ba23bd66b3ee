package ir

import "errors"

var (
	ErrNotMapping = errors.New("not a mapping")
	ErrBadKey     = errors.New("bad mapping key")
)
