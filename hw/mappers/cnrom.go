package mappers

import "nescore/hw"

var CNROM = MapperDesc{
	Name: "CNROM",
	Load: loadCNROM,
}

type cnrom struct {
	*base

	chrbank uint8
}

func (m *cnrom) writeBank(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// cccc ccCC
	// |||| ||||
	// ++++-++++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	// CNROM only uses lowest 2 bits
	prev := m.chrbank
	m.chrbank = val & 0b11
	if prev != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
		modMapper.DebugZ("CHR bank switch").String("mapper", m.desc.Name).Uint8("prev", prev).Uint8("new", m.chrbank).End()
	}
}

func loadCNROM(b *base) (hw.Mapper, error) {
	cnrom := &cnrom{base: b}
	b.init(cnrom.writeBank)
	return cnrom, nil
}
