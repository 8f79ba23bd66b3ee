package gomap

// DefaultMaxDepth bounds the nesting followed in either direction.
const DefaultMaxDepth = 1024

// DefaultTagName is the struct tag key read for field annotations.
const DefaultTagName = "anno"

// MapOption is an option for the mapping from Go values to trees.
type MapOption interface {
	applyMap(*mapConfig)
}

// UnmapOption is an option for the mapping from trees to Go values.
type UnmapOption interface {
	applyUnmap(*unmapConfig)
}

// Option applies in both directions.
type Option interface {
	MapOption
	UnmapOption
}

type mapConfig struct {
	maxDepth int
	tagName  string
	annotate bool
}

type unmapConfig struct {
	maxDepth int
	tagName  string
	tolerant bool
}

func newMapConfig(opts []MapOption) *mapConfig {
	cfg := &mapConfig{
		maxDepth: DefaultMaxDepth,
		tagName:  DefaultTagName,
		annotate: true,
	}
	for _, opt := range opts {
		opt.applyMap(cfg)
	}
	return cfg
}

func newUnmapConfig(opts []UnmapOption) *unmapConfig {
	cfg := &unmapConfig{
		maxDepth: DefaultMaxDepth,
		tagName:  DefaultTagName,
	}
	for _, opt := range opts {
		opt.applyUnmap(cfg)
	}
	return cfg
}

type maxDepth int

func (n maxDepth) applyMap(c *mapConfig)     { c.maxDepth = int(n) }
func (n maxDepth) applyUnmap(c *unmapConfig) { c.maxDepth = int(n) }

// MaxDepth bounds the nesting of values and trees.
func MaxDepth(n int) Option { return maxDepth(n) }

type tagName string

func (t tagName) applyMap(c *mapConfig)     { c.tagName = string(t) }
func (t tagName) applyUnmap(c *unmapConfig) { c.tagName = string(t) }

// TagName selects the struct tag key holding field annotations.
func TagName(name string) Option { return tagName(name) }

type annotate bool

func (a annotate) applyMap(c *mapConfig) { c.annotate = bool(a) }

// Annotate controls whether comments and hints from struct tags are
// attached to the tree. It is on by default.
func Annotate(v bool) MapOption { return annotate(v) }

type tolerant bool

func (t tolerant) applyUnmap(c *unmapConfig) { c.tolerant = bool(t) }

// Tolerant makes materialization skip mapping keys which match no struct
// field and fill missing fields from their default= tag or the zero value.
func Tolerant(v bool) UnmapOption { return tolerant(v) }
