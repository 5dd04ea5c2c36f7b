// Package objid generates the identifiers carried by array elements.
//
// An id is assigned once, when an element is created, and is persisted with
// the element so that the same logical element can be matched across two
// independently loaded snapshots.
package objid

import (
	"crypto/rand"
	"encoding/binary"
	"math/bits"
	"strconv"
	"sync/atomic"
)

// Generator hands out ids of the form <session><counter>, each part in
// length-prefixed hex (see Format). Ids from one generator sort in
// creation order.
type Generator struct {
	session string
	n       atomic.Uint64
}

// NewGenerator returns a generator with a random session prefix.
func NewGenerator() *Generator {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("objid: no randomness: " + err.Error())
	}
	return NewSessionGenerator(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// NewSessionGenerator returns a generator with a fixed session number.
// It is meant for tests and reproducible fixtures.
func NewSessionGenerator(session uint64) *Generator {
	return &Generator{session: Format(session)}
}

// New returns the next id.
func (g *Generator) New() string {
	return g.session + Format(g.n.Add(1))
}

var defaultGen = NewGenerator()

// New returns an id from the process wide generator.
func New() string {
	return defaultGen.New()
}

// Format encodes n using length-prefixed hex: a letter giving the number
// of hex digits ('a'=1 ... 'p'=16) followed by the digits, so that
// lexicographic order matches numeric order.
//
// Examples:
//   - 1    → "a1"
//   - 16   → "b10"
//   - 255  → "bff"
//   - 256  → "c100"
func Format(n uint64) string {
	length := hexDigits(n)
	prefix := byte('a' + length - 1)
	return string(prefix) + strconv.FormatUint(n, 16)
}

func hexDigits(n uint64) int {
	if n == 0 {
		return 1
	}
	return (bits.Len64(n) + 3) / 4
}
