package hwio

import (
	"fmt"
	"math/bits"
)

const (
	NumBits  = 0x10000 // one bit per bus address
	wordSize = 64
	numWords = NumBits / wordSize
)

// Bitset is a set of bus addresses. Zero value is an empty set.
type Bitset struct {
	words [numWords]uint64
}

func (b *Bitset) Set(i uint) {
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

func (b *Bitset) Clear(i uint) {
	b.words[i/wordSize] &^= 1 << (i % wordSize)
}

// Test reports whether address i is in the set.
func (b *Bitset) Test(i uint) bool {
	return b.words[i/wordSize]&(1<<(i%wordSize)) != 0
}

func checkRange(start, end uint) {
	if start >= end || end > NumBits {
		panic(fmt.Sprintf("hwio: invalid bitset range [%d, %d)", start, end))
	}
}

// wordMask returns the mask of the bits of word w within [start, end).
func wordMask(w, start, end uint) uint64 {
	lo, hi := w*wordSize, (w+1)*wordSize
	mask := ^uint64(0)
	if start > lo {
		mask &= ^uint64(0) << (start - lo)
	}
	if end < hi {
		mask &= ^uint64(0) >> (hi - end)
	}
	return mask
}

// SetRange adds the addresses of [start, end) to the set.
func (b *Bitset) SetRange(start, end uint) {
	checkRange(start, end)
	for w := start / wordSize; w <= (end-1)/wordSize; w++ {
		b.words[w] |= wordMask(w, start, end)
	}
}

// ClearRange removes the addresses of [start, end) from the set.
func (b *Bitset) ClearRange(start, end uint) {
	checkRange(start, end)
	for w := start / wordSize; w <= (end-1)/wordSize; w++ {
		b.words[w] &^= wordMask(w, start, end)
	}
}

// FirstSet returns the lowest address of [start, end) in the set.
func (b *Bitset) FirstSet(start, end uint) (uint, bool) {
	checkRange(start, end)
	for w := start / wordSize; w <= (end-1)/wordSize; w++ {
		if m := b.words[w] & wordMask(w, start, end); m != 0 {
			return w*wordSize + uint(bits.TrailingZeros64(m)), true
		}
	}
	return 0, false
}

// FirstClear returns the lowest address of [start, end) not in the set.
func (b *Bitset) FirstClear(start, end uint) (uint, bool) {
	checkRange(start, end)
	for w := start / wordSize; w <= (end-1)/wordSize; w++ {
		if m := ^b.words[w] & wordMask(w, start, end); m != 0 {
			return w*wordSize + uint(bits.TrailingZeros64(m)), true
		}
	}
	return 0, false
}

func (b *Bitset) Reset() {
	clear(b.words[:])
}

func (b *Bitset) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
}
