package hw

import "nescore/hw/hwio"

// InitBus builds the CPU memory map:
//
//	$0000-$1FFF  2KB internal RAM, mirrored every $800
//	$2000-$3FFF  PPU registers, mirrored every 8 bytes
//	$4000-$4017  APU and I/O registers
//	$4018-$401F  APU and I/O functionality normally disabled
//	$4020-$FFFF  cartridge space, served by the mapper
//
// PPU, APU and controller registers are bus hooks, installed for the non-nil
// collaborators. InitBus panics if an address is left unmapped.
func (c *CPU) InitBus(m Mapper, apu *APU, in *InputPorts) {
	c.Bus.Reset()
	c.Bus.MapMem(0x0000, &c.RAM)
	c.Bus.MapMirrored(0x2000, 0x3FFF, 8, hwio.OpenBus("PPU"))
	c.Bus.MapDevice(0x4000, 0x4017, hwio.OpenBus("IO"))
	c.Bus.MapDevice(0x4018, 0x401F, hwio.OpenBus("test"))
	c.Bus.MapDevice(0x4020, 0xFFFF, &hwio.Device{
		Name:    "cartridge",
		ReadCb:  m.Read8,
		PeekCb:  m.Read8,
		WriteCb: m.Write8,
	})
	c.Bus.CheckCoverage()

	if c.PPU != nil {
		c.PPU.CPU = c
		c.PPU.hookRegisters(c.Bus)
	}
	if apu != nil {
		apu.hookRegisters(c.Bus)
	}
	if in != nil {
		in.hookRegisters(c.Bus)
	}
}
