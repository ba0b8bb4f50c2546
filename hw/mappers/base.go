package mappers

import (
	"github.com/go-faster/errors"

	"nescore/hw"
	"nescore/ines"
)

type base struct {
	desc MapperDesc

	rom *ines.Rom
	cpu *hw.CPU

	prgram   []byte
	ramOff   bool // PRG-RAM disabled
	chr      []byte
	chrRAM   bool
	prgbanks [2]int // offsets in PRG of the 16KB windows at $8000 and $C000
	chrbanks [2]int // offsets in CHR of the 4KB windows at $0000 and $1000
	ntm      ines.Mirroring

	writeReg func(addr uint16, val uint8)
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, cpu *hw.CPU) (*base, error) {
	if !ispow2(len(rom.PRG)) {
		return nil, errors.Errorf("only support PRG ROM with power of 2 size, got %d", len(rom.PRG))
	}

	b := &base{
		desc:   desc,
		rom:    rom,
		cpu:    cpu,
		prgram: make([]byte, rom.PRGRAMSize()),
		ntm:    rom.Mirroring(),
	}
	if rom.HasCHRRAM() {
		b.chr = make([]byte, 0x2000)
		b.chrRAM = true
	} else {
		b.chr = rom.CHR
	}
	b.writeReg = func(uint16, uint8) {}
	return b, nil
}

func (b *base) init(writeReg func(addr uint16, val uint8)) {
	b.writeReg = writeReg
	b.selectPRGPage32KB(0)
	b.selectCHRPage8KB(0)
}

func (b *base) Name() string { return b.desc.Name }

func (b *base) Read8(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		slot := (addr - 0x8000) >> 14
		return b.rom.PRG[b.prgbanks[slot]+int(addr&0x3FFF)]
	case addr >= 0x6000:
		if b.ramOff || len(b.prgram) == 0 {
			return 0
		}
		return b.prgram[int(addr-0x6000)%len(b.prgram)]
	}
	// expansion area, open bus.
	return 0
}

func (b *base) Write8(addr uint16, val uint8) {
	switch {
	case addr >= 0x8000:
		b.writeReg(addr, val)
	case addr >= 0x6000:
		if b.ramOff || len(b.prgram) == 0 {
			return
		}
		b.prgram[int(addr-0x6000)%len(b.prgram)] = val
	}
}

func (b *base) Mirroring() ines.Mirroring { return b.ntm }

func (b *base) ReadCHR(addr uint16) uint8 {
	addr &= 0x1FFF
	return b.chr[b.chrbanks[addr>>12]+int(addr&0x0FFF)]
}

func (b *base) WriteCHR(addr uint16, val uint8) {
	if !b.chrRAM {
		return
	}
	addr &= 0x1FFF
	b.chr[b.chrbanks[addr>>12]+int(addr&0x0FFF)] = val
}

func (b *base) setNTMirroring(m ines.Mirroring) {
	if m == b.ntm {
		return
	}
	modMapper.DebugZ("select NT mirroring").String("mapper", b.desc.Name).Stringer("prev", b.ntm).Stringer("new", m).End()
	b.ntm = m
}

// bank returns the offset of the given bank of size sz in a area of
// length n. Negative banks count from the end.
func bank(n, sz, idx int) int {
	nbanks := n / sz
	if nbanks == 0 {
		return 0
	}
	if idx < 0 {
		idx += nbanks
	}
	return (idx % nbanks) * sz
}

// selectPRGPage16KB maps the given 16KB PRG bank at $8000 (slot 0) or $C000
// (slot 1).
func (b *base) selectPRGPage16KB(slot, idx int) {
	b.prgbanks[slot] = bank(len(b.rom.PRG), 0x4000, idx)
}

// selectPRGPage32KB maps the given 32KB bank at $8000-$FFFF. A 16KB
// cartridge is mirrored.
func (b *base) selectPRGPage32KB(idx int) {
	if len(b.rom.PRG) <= 0x4000 {
		b.prgbanks = [2]int{0, 0}
		return
	}
	off := bank(len(b.rom.PRG), 0x8000, idx)
	b.prgbanks = [2]int{off, off + 0x4000}
}

func (b *base) selectCHRPage4KB(slot, idx int) {
	b.chrbanks[slot] = bank(len(b.chr), 0x1000, idx)
}

func (b *base) selectCHRPage8KB(idx int) {
	off := bank(len(b.chr), 0x2000, idx)
	b.chrbanks = [2]int{off, off + 0x1000}
}
