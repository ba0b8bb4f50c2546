package mappers

import (
	"nescore/hw"
	"nescore/ines"
)

var AxROM = MapperDesc{
	Name: "AxROM",
	Load: loadAxROM,
}

type axrom struct {
	*base

	prgbank uint8
}

func (m *axrom) writeBank(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxM xPPP
	//    |  |||
	//    |  +++- Select 32 KB PRG ROM bank for CPU $8000-$FFFF
	//    +------ Select 1 KB VRAM page for all 4 nametables
	prev := m.prgbank
	m.prgbank = val & 0x7
	if prev != m.prgbank {
		m.selectPRGPage32KB(int(m.prgbank))
	}

	if val&0x10 != 0 {
		m.setNTMirroring(ines.SingleUpper)
	} else {
		m.setNTMirroring(ines.SingleLower)
	}
}

func loadAxROM(b *base) (hw.Mapper, error) {
	axrom := &axrom{base: b}
	b.init(axrom.writeBank)
	b.ntm = ines.SingleLower
	return axrom, nil
}
