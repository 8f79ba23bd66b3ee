package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
	"sync"
)

var hashSeed = sync.OnceValue(maphash.MakeSeed)

// Hash returns a 64-bit hash of the content of n, consistent with Equal:
// annotations are excluded and mapping entries combine independently of
// order. The seed is fixed for the life of the process.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}

	var h maphash.Hash
	h.SetSeed(hashSeed())
	h.WriteByte(byte(n.Type))

	var b [8]byte
	switch n.Type {
	case NullType:
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case IntType:
		if n.Unsigned && n.Uint > math.MaxInt64 {
			h.WriteByte(1)
			binary.LittleEndian.PutUint64(b[:], n.Uint)
		} else if n.Unsigned {
			binary.LittleEndian.PutUint64(b[:], n.Uint)
		} else {
			binary.LittleEndian.PutUint64(b[:], uint64(n.Int))
		}
		h.Write(b[:])
	case FloatType:
		f := n.Float
		switch {
		case math.IsNaN(f):
			f = math.NaN()
		case f == 0:
			f = 0
		}
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
		h.Write(b[:])
	case StringType:
		h.WriteString(n.String)
	case BytesType:
		h.Write(n.Bytes)
	case SequenceType:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case MappingType:
		var sum uint64
		for i, field := range n.Fields {
			var eh maphash.Hash
			eh.SetSeed(hashSeed())
			binary.LittleEndian.PutUint64(b[:], field.Hash())
			eh.Write(b[:])
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			eh.Write(b[:])
			sum += eh.Sum64()
		}
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	}
	return h.Sum64()
}
