package hw

// P is the processor status register. It is stored with the layout of its
// serialized byte form.
type P uint8

const (
	Carry = 1 << iota
	Zero
	Interrupt
	Decimal // stored but without effect on arithmetic
	Break
	Reserved
	Overflow
	Negative
)

// ToByte returns the status byte as pushed on the stack by an interrupt: bit 5
// is always set, bit 4 reflects the live value.
func (p P) ToByte() uint8 {
	return uint8(p) | Reserved
}

// FromByte returns the status register unpacked from b.
func FromByte(b uint8) P {
	return P(b)
}

func (p P) String() string {
	const bits = "nvubdizcNVUBDIZC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(p) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (p *P) setFlags(flags uint8) {
	*p |= P(flags)
}

func (p *P) clearFlags(flags uint8) {
	*p &= ^P(flags)
}

func (p *P) writeFlag(flag uint8, on bool) {
	if on {
		p.setFlags(flag)
	} else {
		p.clearFlags(flag)
	}
}

// Has reports whether all the given flags are set.
func (p P) Has(flags uint8) bool {
	return uint8(p)&flags == flags
}

func (p P) ibit(flag uint8) uint8 {
	if p.Has(flag) {
		return 1
	}
	return 0
}

// sets Z if v is 0 and N if bit 7 of v is set, clears them otherwise.
func (p *P) checkNZ(v uint8) {
	p.writeFlag(Zero, v == 0)
	p.writeFlag(Negative, v&0x80 != 0)
}

func (p *P) checkCV(x, y uint8, sum uint16) {
	// forward carry or unsigned overflow.
	p.writeFlag(Carry, sum > 0xFF)

	// signed overflow, can only happen if the sign of the sum differs
	// from that of both operands.
	v := (uint16(x) ^ sum) & (uint16(y) ^ sum) & 0x80
	p.writeFlag(Overflow, v != 0)
}
