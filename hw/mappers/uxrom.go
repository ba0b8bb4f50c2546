package mappers

import "nescore/hw"

var UxROM = MapperDesc{
	Name: "UxROM",
	Load: loadUxROM,
}

type uxrom struct {
	*base

	prgbank  uint8
	bankmask uint8
}

func (m *uxrom) writeBank(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = val & m.bankmask
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, int(m.prgbank))
		modMapper.DebugZ("PRG bank switch").String("mapper", m.desc.Name).Uint8("prev", prev).Uint8("new", m.prgbank).End()
	}
}

func loadUxROM(b *base) (hw.Mapper, error) {
	uxrom := &uxrom{
		base:     b,
		bankmask: uint8(len(b.rom.PRG)>>14) - 1,
	}
	b.init(uxrom.writeBank)

	b.selectPRGPage16KB(0, 0)
	b.selectPRGPage16KB(1, -1)
	return uxrom, nil
}
