package token

import (
	"fmt"
	"sort"
	"strconv"
)

// PosDoc maps byte offsets of a document to line and column.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

// LineCol returns the 1-based line and column of off.
func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 1, off + 1
	}
	return di + 1, off - p.n[di-1]
}

// LineOf returns the 0-based line of off.
func (p *PosDoc) LineOf(off int) int {
	l, _ := p.LineCol(off)
	return l - 1
}

// Sample returns the text around off, quoted, for diagnostics.
func (p *PosDoc) Sample(off int) string {
	off = min(max(off, 0), len(p.d))
	sample := strconv.Quote(string(p.d[max(0, off-5):min(off+5, len(p.d))]))
	return sample[1 : len(sample)-1]
}

func (p *PosDoc) String(off int) string {
	line, col := p.LineCol(off)
	return fmt.Sprintf("`...%s...` at offset %d (line=%d, col=%d)", p.Sample(off), off, line, col)
}

// Offset returns the byte offset of the 1-based line and column.
func (p *PosDoc) Offset(line, col int) int {
	off := 0
	if line > 1 && line-2 < len(p.n) {
		off = p.n[line-2] + 1
	}
	return min(off+max(col-1, 0), len(p.d))
}
