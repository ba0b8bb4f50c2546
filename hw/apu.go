package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Length counter values indexed by the 5-bit length index written to the
// 4th register of each channel.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// Noise timer periods, in CPU cycles.
var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// DMC rates, in CPU cycles.
var dmcRates = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// channel holds the 4 write-only registers of an audio channel.
type channel struct {
	Regs [4]hwio.Reg8
}

func newChannel(name string) channel {
	var c channel
	for i := range c.Regs {
		c.Regs[i] = hwio.Reg8{Name: name, Flags: hwio.WriteOnlyFlag}
	}
	return c
}

func (c *channel) write(addr uint16, val uint8) {
	reg := &c.Regs[addr&3]
	log.ModSound.DebugZ("write").String("reg", reg.Name).Hex16("addr", addr).Hex8("val", val).End()
	reg.Write8(addr, val)
}

// Timer period, shared by pulse and triangle channels.
func (c *channel) TimerPeriod() uint16 {
	return uint16(c.Regs[2].Value) | uint16(c.Regs[3].Bits(0, 3))<<8
}

func (c *channel) LengthIndex() uint8 { return c.Regs[3].Bits(3, 5) }
func (c *channel) Length() uint8      { return lengthTable[c.LengthIndex()] }

// Pulse channels: $4000-$4003 and $4004-$4007.
type Pulse struct{ channel }

func (p *Pulse) Duty() uint8          { return p.Regs[0].Bits(6, 2) }
func (p *Pulse) LengthHalt() bool     { return p.Regs[0].Bit(5) }
func (p *Pulse) ConstantVolume() bool { return p.Regs[0].Bit(4) }
func (p *Pulse) Volume() uint8        { return p.Regs[0].Bits(0, 4) }

func (p *Pulse) SweepEnabled() bool { return p.Regs[1].Bit(7) }
func (p *Pulse) SweepPeriod() uint8 { return p.Regs[1].Bits(4, 3) }
func (p *Pulse) SweepNegate() bool  { return p.Regs[1].Bit(3) }
func (p *Pulse) SweepShift() uint8  { return p.Regs[1].Bits(0, 3) }

// Triangle channel: $4008-$400B ($4009 is unused).
type Triangle struct{ channel }

func (t *Triangle) Control() bool       { return t.Regs[0].Bit(7) }
func (t *Triangle) LinearReload() uint8 { return t.Regs[0].Bits(0, 7) }

// Noise channel: $400C-$400F ($400D is unused).
type Noise struct{ channel }

func (n *Noise) LengthHalt() bool     { return n.Regs[0].Bit(5) }
func (n *Noise) ConstantVolume() bool { return n.Regs[0].Bit(4) }
func (n *Noise) Volume() uint8        { return n.Regs[0].Bits(0, 4) }
func (n *Noise) Mode() bool           { return n.Regs[2].Bit(7) }
func (n *Noise) Period() uint16       { return noisePeriods[n.Regs[2].Bits(0, 4)] }

// Delta modulation channel: $4010-$4013.
type DMC struct{ channel }

func (d *DMC) IRQEnabled() bool { return d.Regs[0].Bit(7) }
func (d *DMC) Loop() bool       { return d.Regs[0].Bit(6) }
func (d *DMC) Rate() uint16     { return dmcRates[d.Regs[0].Bits(0, 4)] }
func (d *DMC) DirectLoad() uint8 {
	return d.Regs[1].Bits(0, 7)
}

// SampleAddr is the address of the first sample byte: %11AAAAAA.AA000000.
func (d *DMC) SampleAddr() uint16 { return 0xC000 + uint16(d.Regs[2].Value)*64 }

// SampleLength is the sample length in bytes: %LLLL.LLLL0001.
func (d *DMC) SampleLength() uint16 { return uint16(d.Regs[3].Value)*16 + 1 }

// APU decodes writes to the audio registers. Sound is not synthesized.
type APU struct {
	Square1  Pulse
	Square2  Pulse
	Triangle Triangle
	Noise    Noise
	DMC      DMC

	STATUS       hwio.Reg8 // $4015 (writes)
	FrameCounter hwio.Reg8 // $4017 (writes)
}

func NewAPU() *APU {
	return &APU{
		Square1:      Pulse{newChannel("SQ1")},
		Square2:      Pulse{newChannel("SQ2")},
		Triangle:     Triangle{newChannel("TRI")},
		Noise:        Noise{newChannel("NOISE")},
		DMC:          DMC{newChannel("DMC")},
		STATUS:       hwio.Reg8{Name: "STATUS", Flags: hwio.WriteOnlyFlag},
		FrameCounter: hwio.Reg8{Name: "FRAMECNT", Flags: hwio.WriteOnlyFlag},
	}
}

func (a *APU) hookRegisters(bus *hwio.Table) {
	bus.HookWriteRange(0x4000, 0x4003, a.Square1.write)
	bus.HookWriteRange(0x4004, 0x4007, a.Square2.write)
	bus.HookWriteRange(0x4008, 0x400B, a.Triangle.write)
	bus.HookWriteRange(0x400C, 0x400F, a.Noise.write)
	bus.HookWriteRange(0x4010, 0x4013, a.DMC.write)
	bus.HookWrite(0x4015, a.WriteSTATUS)
	bus.HookWrite(0x4017, a.WriteFRAMECOUNTER)
}

// STATUS: $4015
func (a *APU) WriteSTATUS(_ uint16, val uint8) {
	log.ModSound.DebugZ("write status").Hex8("val", val).End()
	a.STATUS.Write8(0x4015, val)
}

// Enabled reports whether channel n (0: square1, 1: square2, 2: triangle,
// 3: noise, 4: dmc) is enabled.
func (a *APU) Enabled(n uint) bool {
	return a.STATUS.Bit(n)
}

// FRAMECOUNTER: $4017
func (a *APU) WriteFRAMECOUNTER(_ uint16, val uint8) {
	log.ModSound.DebugZ("write frame counter").Hex8("val", val).End()
	a.FrameCounter.Write8(0x4017, val)
}

// FiveStepMode reports whether the frame counter runs the 5-step sequence.
func (a *APU) FiveStepMode() bool { return a.FrameCounter.Bit(7) }

func (a *APU) IRQInhibit() bool { return a.FrameCounter.Bit(6) }
