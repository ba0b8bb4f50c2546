package mappers

import (
	"nescore/hw"
	"nescore/ines"
)

var MMC1 = MapperDesc{
	Name: "MMC1",
	Load: loadMMC1,
}

type mmc1 struct {
	*base

	lastWrite uint64 // cpu cycle of the last serial write
	wrote     bool

	serial  shiftReg // shift register
	counter uint8    // count of bits shifted

	// CTRL reg bits
	chrmode uint8
	prgmode uint8

	chrbank0 uint8
	chrbank1 uint8

	prgbank uint8
}

type shiftReg uint8

func (sr shiftReg) push(val uint8) shiftReg {
	sr >>= 1
	sr |= shiftReg((val << 4) & 0x10)
	return sr
}

func (m *mmc1) cycle() uint64 {
	if m.cpu == nil {
		return 0
	}
	return m.cpu.Cycles
}

func (m *mmc1) writeSerial(addr uint16, val uint8) {
	// The serial port ignores the second of 2 writes issued by the same
	// read-modify-write instruction.
	cur := m.cycle()
	if m.wrote && m.cpu != nil && cur == m.lastWrite {
		return
	}
	m.wrote, m.lastWrite = true, cur

	if val&0x80 != 0 {
		// Reset: next write is the "first" one, PRG mode goes back to
		// 16KB with $C000 fixed, other bits are unchanged.
		m.serial = 0
		m.counter = 0
		m.prgmode = 0b11
		m.remap()
		return
	}

	m.serial = m.serial.push(val)
	m.counter++
	if m.counter == 5 {
		m.writeREG(addr, uint8(m.serial))
		m.remap()
		m.serial = 0
		m.counter = 0
	}
}

func (m *mmc1) writeREG(addr uint16, val uint8) {
	switch (addr & 0x6000) >> 13 {
	case 0:
		m.writeCTRL(val)
	case 1:
		m.writeCHR0(val)
	case 2:
		m.writeCHR1(val)
	case 3:
		m.writePRG(val)
	}
}

func (m *mmc1) writeCTRL(val uint8) {
	m.chrmode = (val & 0x10) >> 4
	m.prgmode = (val & 0x0C) >> 2

	switch val & 0x03 {
	case 0:
		m.setNTMirroring(ines.SingleLower)
	case 1:
		m.setNTMirroring(ines.SingleUpper)
	case 2:
		m.setNTMirroring(ines.Vertical)
	case 3:
		m.setNTMirroring(ines.Horizontal)
	}

	modMapper.DebugZ("Write CTRL reg").String("mapper", m.desc.Name).
		Uint8("val", val).
		Uint8("prgmode", m.prgmode).
		Uint8("chrmode", m.chrmode).
		End()
}

func (m *mmc1) writeCHR0(val uint8) {
	modMapper.DebugZ("Write CHR0 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank0 = val & 0b11111
}

func (m *mmc1) writeCHR1(val uint8) {
	modMapper.DebugZ("Write CHR1 reg").String("mapper", m.desc.Name).Uint8("val", val).End()
	m.chrbank1 = val & 0b11111
}

func (m *mmc1) writePRG(val uint8) {
	modMapper.DebugZ("Write PRG reg").String("mapper", m.desc.Name).Uint8("val", val).End()

	// $E000-FFFF:  [...W PPPP]
	// W = WRAM Disable (0=enabled, 1=disabled)
	// P = PRG Reg
	m.ramOff = val&0b1_0000 != 0
	m.prgbank = val & 0b1111
}

func (m *mmc1) remap() {
	switch m.prgmode {
	case 0, 1:
		// ignore low bit of bank number
		m.selectPRGPage32KB(int(m.prgbank>>1))
	case 2:
		m.selectPRGPage16KB(0, 0)
		m.selectPRGPage16KB(1, int(m.prgbank))
	case 3:
		m.selectPRGPage16KB(0, int(m.prgbank))
		m.selectPRGPage16KB(1, -1)
	}

	switch m.chrmode {
	case 0:
		m.selectCHRPage8KB(int(m.chrbank0 >> 1))
	case 1:
		m.selectCHRPage4KB(0, int(m.chrbank0))
		m.selectCHRPage4KB(1, int(m.chrbank1))
	}
}

func loadMMC1(b *base) (hw.Mapper, error) {
	mmc1 := &mmc1{base: b}
	b.init(mmc1.writeSerial)

	// On powerup: bits 2,3 of $8000 are set (this ensures the $8000 is bank 0,
	// and $C000 is the last bank - needed for SEROM/SHROM/SH1ROM which do no
	// support banking)
	mmc1.writeREG(0x8000, 0x0C)
	mmc1.writeREG(0xA000, 0)
	mmc1.writeREG(0xC000, 0)
	mmc1.writeREG(0xE000, 0)
	mmc1.remap()
	return mmc1, nil
}
