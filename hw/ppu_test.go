package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPPUScroll(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	ppu.vramTmp = 0xffff

	// Write to PPUCTRL
	cpu.Write8(0x2000, 0)
	if got := (ppu.vramTmp >> 10) & 0b11; got != 0b00 {
		t.Errorf("t.nametable = 0b%02b, want 0b00", got)
	}

	// Read from PPUSTATUS
	_ = cpu.Read8(0x2002)
	if ppu.writeLatch {
		t.Errorf("writeLatch = %t, want false", ppu.writeLatch)
	}

	// First write to PPUSCROLL
	cpu.Write8(0x2005, 0b01111_101)
	if got := ppu.vramTmp & 0b11111; got != 0b01111 {
		t.Errorf("t.coarsex = 0b%05b, want 0b01111", got)
	}
	if ppu.finex != 0b101 {
		t.Errorf("finex = 0b%03b, want 0b101", ppu.finex)
	}
	if !ppu.writeLatch {
		t.Errorf("writeLatch = %t, want true", ppu.writeLatch)
	}

	// Second write to PPUSCROLL
	cpu.Write8(0x2005, 0b01_011_110)
	if got := (ppu.vramTmp >> 5) & 0b11111; got != 0b01011 {
		t.Errorf("t.coarsey = 0b%05b, want 0b01011", got)
	}
	if got := (ppu.vramTmp >> 12) & 0b111; got != 0b110 {
		t.Errorf("t.finey = 0b%03b, want 0b110", got)
	}
	if ppu.writeLatch {
		t.Errorf("writeLatch = %t, want false", ppu.writeLatch)
	}

	// First write to PPUADDR
	cpu.Write8(0x2006, 0b00_111101)
	if got := (ppu.vramTmp >> 8) & 0b111_1111; got != 0b111101 {
		t.Errorf("t.high = %07b, want 0b0111101", got)
	}
	// Bit 14 (15th bit) of t gets set to zero
	if got := ppu.vramTmp & 0x7FFF; got != 0b0111101_01101111 {
		t.Errorf("t.val = %015b, want 0b0111101_01101111", got)
	}

	// Second write to PPUADDR
	cpu.Write8(0x2006, 0b11110000)
	if got := ppu.vramTmp & 0xFF; got != 0b11110000 {
		t.Errorf("t.low = %08b, want 0b11110000", got)
	}
	if got := ppu.vramTmp & 0x7FFF; got != 0b0111101_11110000 {
		t.Errorf("t.val = %015b, want 0b0111101_11110000", got)
	}
	// After t is updated, contents of t copied into v
	if ppu.vramTmp != ppu.vramAddr {
		t.Errorf("v != t")
	}
}

// tickUntil ticks the PPU until it reaches the given dot.
func tickUntil(ppu *PPU, scanline, cycle int) {
	for ppu.Scanline != scanline || ppu.Cycle != cycle {
		ppu.Tick()
	}
}

func TestPPUVBlank(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	cpu.Write8(0x2000, 0x80)

	tickUntil(ppu, 241, 1)
	if ppu.PPUSTATUS.Bit(vblank) || ppu.PollNMI() {
		t.Fatalf("vblank set before dot 1 of line 241")
	}

	ppu.Tick()
	if !ppu.PollNMI() {
		t.Errorf("NMI not signaled at vblank start")
	}
	if ppu.PollNMI() {
		t.Errorf("PollNMI should clear the signal")
	}
	if !ppu.PollFrame() || ppu.PollFrame() {
		t.Errorf("PollFrame should report the frame exactly once")
	}
	if ppu.Frames != 1 {
		t.Errorf("Frames = %d, want 1", ppu.Frames)
	}

	if got := cpu.Read8(0x2002); got != 0x80 {
		t.Errorf("PPUSTATUS = %02X, want 80", got)
	}
	if got := cpu.Read8(0x2002); got != 0x00 {
		t.Errorf("PPUSTATUS after read = %02X, want 00", got)
	}

	// Pre-render line clears all status flags.
	ppu.PPUSTATUS.Value = 0xE0
	tickUntil(ppu, NumScanlines-1, 2)
	if ppu.PPUSTATUS.Value != 0 {
		t.Errorf("PPUSTATUS = %02X after pre-render line, want 00", ppu.PPUSTATUS.Value)
	}

	tickUntil(ppu, 0, 0)
	if ppu.Frames != 1 || ppu.PollNMI() {
		t.Errorf("spurious frame or NMI during pre-render line")
	}
}

func TestPPUNMIDisabled(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	tickUntil(ppu, 241, 2)
	if !ppu.PPUSTATUS.Bit(vblank) {
		t.Fatal("vblank flag not set")
	}
	if ppu.PollNMI() {
		t.Fatal("NMI signaled while disabled")
	}

	// Enabling NMI during vblank triggers it immediately.
	cpu.Write8(0x2000, 0x80)
	if !ppu.PollNMI() {
		t.Errorf("enabling NMI during vblank should signal it")
	}
	cpu.Write8(0x2000, 0x80)
	if ppu.PollNMI() {
		t.Errorf("NMI already enabled, no new signal expected")
	}
}

func setPPUADDR(cpu *CPU, addr uint16) {
	cpu.Write8(0x2006, uint8(addr>>8))
	cpu.Write8(0x2006, uint8(addr))
}

func TestPPUDATA(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	setPPUADDR(cpu, 0x2008)
	cpu.Write8(0x2007, 0x55)
	cpu.Write8(0x2007, 0x66)
	if ppu.Nametables[0x008] != 0x55 || ppu.Nametables[0x009] != 0x66 {
		t.Fatalf("nametable = % x", ppu.Nametables[0x008:0x00A])
	}

	// Horizontal mirroring: $2400 mirrors $2000. Reads are buffered.
	setPPUADDR(cpu, 0x2408)
	if got := cpu.Read8(0x2007); got != 0x00 {
		t.Errorf("first read = %02X, want stale buffer 00", got)
	}
	if got := cpu.Read8(0x2007); got != 0x55 {
		t.Errorf("second read = %02X, want 55", got)
	}
	if got := cpu.Read8(0x2007); got != 0x66 {
		t.Errorf("third read = %02X, want 66", got)
	}

	// Increment by 32.
	cpu.Write8(0x2000, 0x04)
	setPPUADDR(cpu, 0x2800)
	for _, v := range []uint8{1, 2, 3} {
		cpu.Write8(0x2007, v)
	}
	got := []uint8{ppu.Nametables[0x400], ppu.Nametables[0x420], ppu.Nametables[0x440]}
	if diff := cmp.Diff([]uint8{1, 2, 3}, got); diff != "" {
		t.Errorf("vertical writes mismatch (-want +got):\n%s", diff)
	}
	if ppu.vramAddr != 0x2860 {
		t.Errorf("vramAddr = %04X, want 2860", ppu.vramAddr)
	}
}

func TestPPUPalettes(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	setPPUADDR(cpu, 0x3F10)
	cpu.Write8(0x2007, 0xEA)
	if ppu.Palettes[0] != 0x2A {
		t.Errorf("$3F10 should mirror $3F00 and be 6 bits wide, got %02X", ppu.Palettes[0])
	}

	ppu.Nametables[0x300] = 0x77 // $2F00, under $3F00
	setPPUADDR(cpu, 0x3F00)
	if got := cpu.Read8(0x2007); got != 0x2A {
		t.Errorf("palette read = %02X, want 2A without buffering", got)
	}
	if ppu.ppuDataRbuf != 0x77 {
		t.Errorf("read buffer = %02X, want nametable byte 77", ppu.ppuDataRbuf)
	}

	// Palette RAM is mirrored up to $3FFF.
	if got := ppu.Bus.Peek8(0x3FF0); got != 0x2A {
		t.Errorf("$3FF0 = %02X, want 2A", got)
	}
}

func TestPPUFrame(t *testing.T) {
	nes := newTestNES(t)
	ppu := nes.ppu

	ppu.Palettes[0] = 0x21
	for range NumScanlines * NumCycles {
		ppu.Tick()
	}
	if !ppu.PollFrame() {
		t.Fatal("no frame after a full frame of dots")
	}
	for i, px := range ppu.Frame() {
		if px != 0x21 {
			t.Fatalf("pixel %d = %02X, want backdrop 21", i, px)
		}
	}
}

func TestPPUState(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	cpu.Write8(0x2000, 0x84)
	setPPUADDR(cpu, 0x2123)
	cpu.Write8(0x2007, 0x99)
	tickUntil(ppu, 100, 17)

	want := ppu.State()

	other := newTestNES(t)
	other.ppu.SetState(want)
	if diff := cmp.Diff(want, other.ppu.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}
