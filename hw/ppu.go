package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/hw/snapshot"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	ScreenWidth  = 256
	ScreenHeight = 240
)

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmiEnable = 7
)

const (
	// PPUSTATUS bits
	// $2002

	// Sprite overflow, cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 Hit, cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started (0: not in vblank; 1: in vblank).
	// Set at dot 1 of line 241 (the line *after* the post-render
	// line); cleared after reading $2002 and at dot 1 of the
	// pre-render line.
	vblank = 7
)

// PPU emulates the timing and the CPU-visible side of the picture processing
// unit: registers, video memory, OAM and the vblank interrupt. Pixels are not
// rendered, each visible line of the frame is filled with the backdrop color.
type PPU struct {
	Bus    *hwio.Table // PPU bus
	CPU    *CPU
	Mapper Mapper

	Cycle    int    // Current cycle/pixel in scanline
	Scanline int    // Current scanline being drawn
	Frames   uint64 // Number of completed frames

	// CPU-exposed memory-mapped PPU registers
	// mapped from $2000 to $2007, mirrored up to $3fff
	PPUCTRL   hwio.Reg8
	PPUMASK   hwio.Reg8
	PPUSTATUS hwio.Reg8
	OAMADDR   hwio.Reg8

	OAM [256]byte

	// $2000-$2FFF, 4 physical nametables for four-screen cartridges.
	Nametables [0x1000]byte

	// $3F00-$3F1F	$0020	Palette RAM indexes
	// $3F20-$3FFF	$00E0	Mirrors of $3F00-$3F1F
	Palettes [0x20]byte

	// VRAM read/write
	vramAddr    uint16
	vramTmp     uint16
	finex       uint8
	writeLatch  bool
	ppuDataRbuf uint8

	nmiLine    bool // raised on vblank start, cleared by PollNMI
	frameReady bool

	frame [ScreenWidth * ScreenHeight]uint8
}

func NewPPU() *PPU {
	p := &PPU{
		Bus: hwio.NewTable("ppu"),
	}
	p.PPUCTRL = hwio.Reg8{Name: "PPUCTRL", Flags: hwio.WriteOnlyFlag}
	p.PPUMASK = hwio.Reg8{Name: "PPUMASK", Flags: hwio.WriteOnlyFlag}
	p.PPUSTATUS = hwio.Reg8{Name: "PPUSTATUS", Flags: hwio.ReadOnlyFlag}
	p.OAMADDR = hwio.Reg8{Name: "OAMADDR", Flags: hwio.WriteOnlyFlag}
	return p
}

// InitBus maps the pattern tables (served by the mapper), the nametables and
// the palettes on the PPU bus. The PPU address bus is 14 bits wide, VRAM
// accesses are masked to $3FFF.
func (p *PPU) InitBus(m Mapper) {
	p.Mapper = m
	p.Bus.Reset()
	p.Bus.MapDevice(0x0000, 0x1FFF, &hwio.Device{
		Name:    "CHR",
		ReadCb:  m.ReadCHR,
		PeekCb:  m.ReadCHR,
		WriteCb: m.WriteCHR,
	})
	p.Bus.MapDevice(0x2000, 0x3EFF, &hwio.Device{
		Name:    "nametables",
		ReadCb:  p.readNametable,
		PeekCb:  p.readNametable,
		WriteCb: p.writeNametable,
	})
	p.Bus.MapMirrored(0x3F00, 0x3FFF, 0x20, &hwio.Device{
		Name:    "palettes",
		ReadCb:  p.readPalette,
		PeekCb:  p.readPalette,
		WriteCb: p.writePalette,
	})
	p.Bus.CheckRange(0x0000, 0x3FFF)
}

// hookRegisters intercepts the PPU registers and OAMDMA on the CPU bus.
func (p *PPU) hookRegisters(bus *hwio.Table) {
	bus.HookWrite(0x2000, p.WritePPUCTRL)
	bus.HookWrite(0x2001, p.WritePPUMASK)
	bus.HookRead(0x2002, p.ReadPPUSTATUS)
	bus.HookWrite(0x2003, p.WriteOAMADDR)
	bus.HookRead(0x2004, p.ReadOAMDATA)
	bus.HookWrite(0x2004, p.WriteOAMDATA)
	bus.HookWrite(0x2005, p.WritePPUSCROLL)
	bus.HookWrite(0x2006, p.WritePPUADDR)
	bus.HookRead(0x2007, p.ReadPPUDATA)
	bus.HookWrite(0x2007, p.WritePPUDATA)
	bus.HookWrite(0x4014, p.WriteOAMDMA)
}

func (p *PPU) Reset() {
	p.Scanline = 0
	p.Cycle = 0
	p.Frames = 0
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.PPUSTATUS.Value = 0
	p.OAMADDR.Value = 0
	p.writeLatch = false
	p.vramAddr = 0
	p.vramTmp = 0
	p.ppuDataRbuf = 0
	p.nmiLine = false
	p.frameReady = false
}

// Tick advances the PPU by one dot.
func (p *PPU) Tick() {
	switch {
	case p.Scanline < ScreenHeight:
		if p.Cycle == ScreenWidth {
			p.fillLine(p.Scanline)
		}
	case p.Scanline == 241:
		if p.Cycle == 1 {
			p.PPUSTATUS.Value |= 1 << vblank
			if p.PPUCTRL.Bit(nmiEnable) {
				p.nmiLine = true
			}
			p.frameReady = true
			p.Frames++
		}
	case p.Scanline == NumScanlines-1:
		if p.Cycle == 1 {
			// Clear vblank, sprite0Hit and spriteOverflow
			const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
			p.PPUSTATUS.Value &^= mask
		}
	}

	p.Cycle++
	if p.Cycle >= NumCycles {
		p.Cycle -= NumCycles
		p.Scanline++
		if p.Scanline >= NumScanlines {
			p.Scanline = 0
		}
	}
}

func (p *PPU) fillLine(y int) {
	backdrop := p.Palettes[0] & 0x3F
	line := p.frame[y*ScreenWidth : (y+1)*ScreenWidth]
	for i := range line {
		line[i] = backdrop
	}
}

// PollNMI returns and clears the vblank interrupt signal.
func (p *PPU) PollNMI() bool {
	nmi := p.nmiLine
	p.nmiLine = false
	return nmi
}

// PollFrame reports whether a frame has been completed since the last call.
func (p *PPU) PollFrame() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// Frame returns the frame buffer, 256x240 palette indices. The buffer is
// owned by the PPU and is overwritten by the next frame.
func (p *PPU) Frame() []uint8 {
	return p.frame[:]
}

/* PPU bus */

func (p *PPU) ntaddr(addr uint16) uint16 {
	addr &= 0x0FFF
	nt := p.Mapper.Mirroring().Nametable(int(addr >> 10))
	return uint16(nt)*0x400 + addr&0x3FF
}

func (p *PPU) readNametable(addr uint16) uint8 {
	return p.Nametables[p.ntaddr(addr)]
}

func (p *PPU) writeNametable(addr uint16, val uint8) {
	p.Nametables[p.ntaddr(addr)] = val
}

// $3F10/$3F14/$3F18/$3F1C are mirrors of $3F00/$3F04/$3F08/$3F0C.
func paladdr(addr uint16) uint16 {
	addr &= 0x1F
	if addr&0x13 == 0x10 {
		addr &^= 0x10
	}
	return addr
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.Palettes[paladdr(addr)]
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.Palettes[paladdr(addr)] = val & 0x3F
}

/* CPU-exposed registers */

// PPUCTRL: $2000
func (p *PPU) WritePPUCTRL(_ uint16, val uint8) {
	log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()

	// By toggling the nmi bit during vblank without reading PPUSTATUS, a
	// program can cause /nmi to be pulled low multiple times, causing
	// multiple NMIs to be generated.
	wasEnabled := p.PPUCTRL.Bit(nmiEnable)
	p.PPUCTRL.Write8(0x2000, val)
	if !wasEnabled && p.PPUCTRL.Bit(nmiEnable) && p.PPUSTATUS.Bit(vblank) {
		p.nmiLine = true
	}

	// Transfer the nametable bits.
	p.vramTmp &^= ntselect << 10
	p.vramTmp |= (uint16(val) & ntselect) << 10
}

// PPUMASK: $2001
func (p *PPU) WritePPUMASK(_ uint16, val uint8) {
	log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
	p.PPUMASK.Write8(0x2001, val)
}

// PPUSTATUS: $2002
func (p *PPU) ReadPPUSTATUS(_ uint16) uint8 {
	p.writeLatch = false
	ret := p.PPUSTATUS.Value & (1<<spriteOverflow | 1<<sprite0Hit | 1<<vblank)
	p.PPUSTATUS.Value &^= 1 << vblank
	return ret
}

// OAMADDR: $2003
func (p *PPU) WriteOAMADDR(_ uint16, val uint8) {
	p.OAMADDR.Write8(0x2003, val)
}

// OAMDATA: $2004
func (p *PPU) ReadOAMDATA(_ uint16) uint8 {
	return p.OAM[p.OAMADDR.Value]
}

func (p *PPU) WriteOAMDATA(_ uint16, val uint8) {
	p.OAM[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

// PPUSCROLL: $2005
func (p *PPU) WritePPUSCROLL(_ uint16, val uint8) {
	log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).End()

	if !p.writeLatch { // first write
		p.finex = val & 0b111
		p.vramTmp &^= 0b1_1111
		p.vramTmp |= uint16(val >> 3)
	} else { // second write
		p.vramTmp &^= 0b0111_0011_1110_0000
		p.vramTmp |= uint16(val&0b111) << 12
		p.vramTmp |= uint16(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
}

// To read/write VRAM from CPU, PPUADDR is set to the address of the operation.
// It's a 16-bit register so 2 writes are necessary.
// PPUADDR: $2006
func (p *PPU) WritePPUADDR(_ uint16, val uint8) {
	if !p.writeLatch { // first write
		p.vramTmp &^= 0b11_1111_0000_0000
		p.vramTmp |= uint16(val&0b11_1111) << 8
		p.vramTmp &^= 1 << 14 // clear z bit
	} else { // second write
		p.vramTmp &^= 0xff
		p.vramTmp |= uint16(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
}

// PPUDATA: $2007
func (p *PPU) ReadPPUDATA(_ uint16) uint8 {
	addr := p.vramAddr & 0x3FFF

	var val uint8
	if addr < 0x3F00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(addr, false)
	} else {
		// Reading palette data is immediate, the buffer gets the
		// nametable byte 'under' the palette.
		val = p.Bus.Read8(addr, false)
		p.ppuDataRbuf = p.Bus.Read8(addr-0x1000, false)
	}

	log.ModPPU.DebugZ("VRAM read").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	p.incVRAMaddr()
	return val
}

// PPUDATA: $2007
func (p *PPU) WritePPUDATA(_ uint16, val uint8) {
	addr := p.vramAddr & 0x3FFF
	p.Bus.Write8(addr, val)

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", addr).
		Hex8("val", val).
		End()
	p.incVRAMaddr()
}

// After each i/o on PPUDATA, PPPUADDR is incremented.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if p.PPUCTRL.Bit(vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7FFF
}

// OAMDMA: $4014
func (p *PPU) WriteOAMDMA(_ uint16, val uint8) {
	buf := p.CPU.DMA.Request(uint16(val) << 8)
	for i, b := range buf {
		p.OAM[p.OAMADDR.Value+uint8(i)] = b
	}
}

// State returns a snapshot of the PPU.
func (p *PPU) State() *snapshot.PPU {
	return &snapshot.PPU{
		Cycle:      p.Cycle,
		Scanline:   p.Scanline,
		Frames:     p.Frames,
		PPUCTRL:    p.PPUCTRL.Value,
		PPUMASK:    p.PPUMASK.Value,
		PPUSTATUS:  p.PPUSTATUS.Value,
		OAMADDR:    p.OAMADDR.Value,
		VRAMAddr:   p.vramAddr,
		VRAMTemp:   p.vramTmp,
		FineX:      p.finex,
		WriteLatch: p.writeLatch,
		PPUDataBuf: p.ppuDataRbuf,
		OAM:        p.OAM,
		Nametables: p.Nametables,
		Palettes:   p.Palettes,
	}
}

// SetState restores a PPU snapshot.
func (p *PPU) SetState(s *snapshot.PPU) {
	p.Cycle = s.Cycle
	p.Scanline = s.Scanline
	p.Frames = s.Frames
	p.PPUCTRL.Value = s.PPUCTRL
	p.PPUMASK.Value = s.PPUMASK
	p.PPUSTATUS.Value = s.PPUSTATUS
	p.OAMADDR.Value = s.OAMADDR
	p.vramAddr = s.VRAMAddr
	p.vramTmp = s.VRAMTemp
	p.finex = s.FineX
	p.writeLatch = s.WriteLatch
	p.ppuDataRbuf = s.PPUDataBuf
	p.OAM = s.OAM
	p.Nametables = s.Nametables
	p.Palettes = s.Palettes
}
