package mappers

import "nescore/hw"

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

// NROM has no registers, PRG ROM is mirrored if 16KB.
func loadNROM(b *base) (hw.Mapper, error) {
	b.init(func(addr uint16, val uint8) {
		modMapper.DebugZ("write to PRG ROM").String("mapper", b.desc.Name).Hex16("addr", addr).Hex8("val", val).End()
	})
	return b, nil
}
