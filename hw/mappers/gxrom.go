package mappers

import "nescore/hw"

var GxROM = MapperDesc{
	Name: "GxROM",
	Load: loadGxROM,
}

type gxrom struct {
	*base

	chrbank uint8
	prgbank uint8
}

func (m *gxrom) writeBank(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxPP xxCC
	//   ||   ||
	//   ||   ++- Select 8 KB CHR ROM bank for PPU $0000-$1FFF
	//   ++------ Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	prevchr := m.chrbank
	m.chrbank = val & 0x3
	if prevchr != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
		modMapper.DebugZ("CHR bank switch").String("mapper", m.desc.Name).Uint8("prev", prevchr).Uint8("new", m.chrbank).End()
	}

	prevprg := m.prgbank
	m.prgbank = (val >> 4) & 0x3
	if prevprg != m.prgbank {
		m.selectPRGPage32KB(int(m.prgbank))
		modMapper.DebugZ("PRG bank switch").String("mapper", m.desc.Name).Uint8("prev", prevprg).Uint8("new", m.prgbank).End()
	}
}

func loadGxROM(b *base) (hw.Mapper, error) {
	gxrom := &gxrom{base: b}
	b.init(gxrom.writeBank)
	return gxrom, nil
}
