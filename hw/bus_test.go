package hw

import (
	"testing"

	"nescore/ines"
)

// testMapper is a flat cartridge: 48KB of PRG RAM covering the whole
// cartridge space and 8KB of CHR RAM.
type testMapper struct {
	prg [0x10000]byte
	chr [0x2000]byte
	ntm ines.Mirroring
}

func (m *testMapper) Read8(addr uint16) uint8         { return m.prg[addr] }
func (m *testMapper) Write8(addr uint16, val uint8)    { m.prg[addr] = val }
func (m *testMapper) Mirroring() ines.Mirroring        { return m.ntm }
func (m *testMapper) ReadCHR(addr uint16) uint8        { return m.chr[addr&0x1FFF] }
func (m *testMapper) WriteCHR(addr uint16, val uint8)  { m.chr[addr&0x1FFF] = val }

type testNES struct {
	cpu    *CPU
	ppu    *PPU
	apu    *APU
	input  *InputPorts
	mapper *testMapper
}

func newTestNES(tb testing.TB) *testNES {
	tb.Helper()

	nes := &testNES{
		ppu:    NewPPU(),
		apu:    NewAPU(),
		input:  NewInputPorts(),
		mapper: &testMapper{ntm: ines.Horizontal},
	}
	nes.cpu = NewCPU(nes.ppu)
	nes.cpu.InitBus(nes.mapper, nes.apu, nes.input)
	nes.ppu.InitBus(nes.mapper)
	nes.cpu.Reset()
	nes.ppu.Reset()
	return nes
}

func TestBusRAMMirrors(t *testing.T) {
	nes := newTestNES(t)
	cpu := nes.cpu

	cpu.Write8(0x0001, 0x42)
	for _, addr := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		wantMem8(t, cpu, addr, 0x42)
	}
	cpu.Write8(0x1FFF, 0x99)
	wantMem8(t, cpu, 0x07FF, 0x99)
}

func TestBusCartridge(t *testing.T) {
	nes := newTestNES(t)
	cpu := nes.cpu

	cpu.Write8(0x8000, 0x12)
	cpu.Write8(0x4020, 0x34)
	cpu.Write8(0x6000, 0x56)
	if nes.mapper.prg[0x8000] != 0x12 || nes.mapper.prg[0x4020] != 0x34 || nes.mapper.prg[0x6000] != 0x56 {
		t.Errorf("writes to cartridge space should reach the mapper")
	}
	nes.mapper.prg[0xFFFF] = 0x78
	wantMem8(t, cpu, 0xFFFF, 0x78)
	if got := cpu.Read8(0xFFFF); got != 0x78 {
		t.Errorf("Read8($FFFF) = %02X, want 78", got)
	}
}

func TestBusOpenBus(t *testing.T) {
	nes := newTestNES(t)
	cpu := nes.cpu

	for _, addr := range []uint16{0x4000, 0x4015, 0x4018, 0x401F, 0x2000, 0x3FF8} {
		cpu.Write8(addr, 0xFF)
		if got := cpu.Read8(addr); got != 0 {
			t.Errorf("Read8($%04X) = %02X, want 00", addr, got)
		}
	}
}

func TestBusPPURegisterMirrors(t *testing.T) {
	nes := newTestNES(t)
	cpu, ppu := nes.cpu, nes.ppu

	cpu.Write8(0x3FF8, 0x80) // PPUCTRL
	if ppu.PPUCTRL.Value != 0x80 {
		t.Errorf("PPUCTRL = %02X, want 80", ppu.PPUCTRL.Value)
	}

	ppu.PPUSTATUS.Value = 0x80
	if got := cpu.Read8(0x200A); got != 0x80 {
		t.Errorf("PPUSTATUS = %02X, want 80", got)
	}
	if got := cpu.Read8(0x3FFA); got != 0x00 {
		t.Errorf("PPUSTATUS after read = %02X, want 00", got)
	}
}

func TestBusCoverage(t *testing.T) {
	nes := newTestNES(t)
	if ok, msg := hasPanicked(nes.cpu.Bus.CheckCoverage); ok {
		t.Fatalf("CPU bus isn't fully mapped: %v", msg)
	}
	if ok, msg := hasPanicked(func() { nes.ppu.Bus.CheckRange(0x0000, 0x3FFF) }); ok {
		t.Fatalf("PPU bus isn't fully mapped: %v", msg)
	}
}

func TestOAMDMA(t *testing.T) {
	for _, tt := range []struct {
		cycles uint64
		idle   int
	}{
		{100, 513},
		{101, 514},
	} {
		nes := newTestNES(t)
		cpu, ppu := nes.cpu, nes.ppu
		for i := range 256 {
			cpu.Write8(0x0200+uint16(i), uint8(i))
		}

		cpu.Cycles = tt.cycles
		cpu.Write8(0x2003, 4)    // OAMADDR
		cpu.Write8(0x4014, 0x02) // OAMDMA

		if got := cpu.DMA.Remaining(); got != tt.idle {
			t.Errorf("cycle %d: DMA idle = %d, want %d", tt.cycles, got, tt.idle)
		}
		if ppu.OAM[4] != 0x00 || ppu.OAM[5] != 0x01 || ppu.OAM[3] != 0xFF {
			t.Errorf("OAM not filled from OAMADDR: OAM[3:6] = % x", ppu.OAM[3:6])
		}
	}
}

func TestInputPorts(t *testing.T) {
	nes := newTestNES(t)
	cpu := nes.cpu

	nes.input.SetButtons(0, ButtonA|ButtonStart|ButtonRight)
	nes.input.SetButtons(1, ButtonB)

	cpu.Write8(0x4016, 1)
	cpu.Write8(0x4016, 0)

	var pad1, pad2 [9]uint8
	for i := range pad1 {
		pad1[i] = cpu.Read8(0x4016)
		pad2[i] = cpu.Read8(0x4017)
	}

	want1 := [9]uint8{0x41, 0x40, 0x40, 0x41, 0x40, 0x40, 0x40, 0x41, 0x41}
	want2 := [9]uint8{0x40, 0x41, 0x40, 0x40, 0x40, 0x40, 0x40, 0x40, 0x41}
	if pad1 != want1 {
		t.Errorf("pad 1 reads = % x, want % x", pad1, want1)
	}
	if pad2 != want2 {
		t.Errorf("pad 2 reads = % x, want % x", pad2, want2)
	}

	// While strobe is high, the A button is read continuously.
	cpu.Write8(0x4016, 1)
	for range 3 {
		if got := cpu.Read8(0x4016); got != 0x41 {
			t.Errorf("strobed read = %02x, want 41", got)
		}
	}
}

func TestButtonString(t *testing.T) {
	if got := (ButtonA | ButtonStart).String(); got != "A|Start" {
		t.Errorf("got %q, want %q", got, "A|Start")
	}
	if got := Button(0).String(); got != "none" {
		t.Errorf("got %q, want %q", got, "none")
	}
}

func TestAPURegisters(t *testing.T) {
	nes := newTestNES(t)
	cpu, apu := nes.cpu, nes.apu

	cpu.Write8(0x4000, 0xBF)
	cpu.Write8(0x4001, 0xA9)
	cpu.Write8(0x4002, 0x34)
	cpu.Write8(0x4003, 0x0A)

	sq := &apu.Square1
	if sq.Duty() != 2 || !sq.LengthHalt() || !sq.ConstantVolume() || sq.Volume() != 15 {
		t.Errorf("square1 envelope: duty=%d halt=%t const=%t vol=%d", sq.Duty(), sq.LengthHalt(), sq.ConstantVolume(), sq.Volume())
	}
	if !sq.SweepEnabled() || sq.SweepPeriod() != 2 || !sq.SweepNegate() || sq.SweepShift() != 1 {
		t.Errorf("square1 sweep: enabled=%t period=%d negate=%t shift=%d", sq.SweepEnabled(), sq.SweepPeriod(), sq.SweepNegate(), sq.SweepShift())
	}
	if sq.TimerPeriod() != 0x234 || sq.LengthIndex() != 1 || sq.Length() != 254 {
		t.Errorf("square1 timer=%03x length index=%d length=%d", sq.TimerPeriod(), sq.LengthIndex(), sq.Length())
	}

	cpu.Write8(0x4008, 0x85)
	if !apu.Triangle.Control() || apu.Triangle.LinearReload() != 5 {
		t.Errorf("triangle: control=%t reload=%d", apu.Triangle.Control(), apu.Triangle.LinearReload())
	}

	cpu.Write8(0x400E, 0x85)
	if !apu.Noise.Mode() || apu.Noise.Period() != 96 {
		t.Errorf("noise: mode=%t period=%d", apu.Noise.Mode(), apu.Noise.Period())
	}

	cpu.Write8(0x4010, 0xCF)
	cpu.Write8(0x4012, 0x01)
	cpu.Write8(0x4013, 0x02)
	dmc := &apu.DMC
	if !dmc.IRQEnabled() || !dmc.Loop() || dmc.Rate() != 54 || dmc.SampleAddr() != 0xC040 || dmc.SampleLength() != 33 {
		t.Errorf("dmc: irq=%t loop=%t rate=%d addr=%04x len=%d", dmc.IRQEnabled(), dmc.Loop(), dmc.Rate(), dmc.SampleAddr(), dmc.SampleLength())
	}

	cpu.Write8(0x4015, 0x11)
	if !apu.Enabled(0) || apu.Enabled(1) || !apu.Enabled(4) {
		t.Errorf("status = %02x", apu.STATUS.Value)
	}
	cpu.Write8(0x4017, 0xC0)
	if !apu.FiveStepMode() || !apu.IRQInhibit() {
		t.Errorf("frame counter = %02x", apu.FrameCounter.Value)
	}
}

func TestButtonByName(t *testing.T) {
	for _, tt := range []struct {
		name string
		want Button
		ok   bool
	}{
		{"A", ButtonA, true},
		{"start", ButtonStart, true},
		{"RIGHT", ButtonRight, true},
		{"turbo", 0, false},
	} {
		got, ok := ButtonByName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ButtonByName(%q) = %v, %t, want %v, %t", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
