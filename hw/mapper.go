package hw

import "nescore/ines"

// Mapper is the cartridge side of the buses. It serves the CPU addresses
// from $4020 to $FFFF and the PPU pattern tables, and selects how the
// nametables are mirrored.
type Mapper interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
	Mirroring() ines.Mirroring

	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, val uint8)
}
