package hwio

// 8-bit operations
func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}

func SetBit8(v *uint8, n uint) {
	*v |= (1 << n)
}

func ClearBit8(v *uint8, n uint) {
	*v &= ^(1 << n)
}

// WriteBit8 sets or clears bit n of v.
func WriteBit8(v *uint8, n uint, on bool) {
	if on {
		SetBit8(v, n)
	} else {
		ClearBit8(v, n)
	}
}
