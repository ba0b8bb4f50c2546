package mappers

import (
	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// ErrUnsupported is returned for cartridges using an unknown mapper.
var ErrUnsupported = errors.New("unsupported mapper")

// New returns the mapper of the given rom. cpu is used by mappers sensitive
// to write timings, it can be nil.
func New(rom *ines.Rom, cpu *hw.CPU) (hw.Mapper, error) {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "mapper %d", rom.Mapper())
	}
	base, err := newbase(desc, rom, cpu)
	if err != nil {
		return nil, errors.Wrap(err, "mapper initialization failed")
	}
	m, err := desc.Load(base)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load mapper %s", desc.Name)
	}
	modMapper.InfoZ("loaded").String("mapper", desc.Name).Int("prg", len(rom.PRG)).Int("chr", len(rom.CHR)).End()
	return m, nil
}

type MapperDesc struct {
	Name string
	Load func(*base) (hw.Mapper, error)
}

var All = map[uint16]MapperDesc{
	0:  NROM,
	1:  MMC1,
	2:  UxROM,
	3:  CNROM,
	7:  AxROM,
	66: GxROM,
}
