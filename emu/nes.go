package emu

import (
	"github.com/go-faster/errors"

	"nescore/hw"
	"nescore/hw/mappers"
	"nescore/hw/snapshot"
	"nescore/ines"
)

type NES struct {
	CPU    *hw.CPU
	PPU    *hw.PPU
	APU    *hw.APU
	Input  *hw.InputPorts
	Mapper hw.Mapper
	Rom    *ines.Rom
}

func powerUp(rom *ines.Rom) (*NES, error) {
	ppu := hw.NewPPU()
	cpu := hw.NewCPU(ppu)
	apu := hw.NewAPU()
	input := hw.NewInputPorts()

	mapper, err := mappers.New(rom, cpu)
	if err != nil {
		return nil, errors.Wrap(err, "mapper")
	}

	cpu.InitBus(mapper, apu, input)
	ppu.InitBus(mapper)

	nes := &NES{
		CPU:    cpu,
		PPU:    ppu,
		APU:    apu,
		Input:  input,
		Mapper: mapper,
		Rom:    rom,
	}
	nes.Reset()
	return nes, nil
}

func (nes *NES) Reset() {
	nes.PPU.Reset()
	nes.CPU.Reset()
}

// State returns a snapshot of the console. It must not be called while the
// emulation loop is running.
func (nes *NES) State() *snapshot.NES {
	return &snapshot.NES{
		Version: snapshot.Version,
		CPU:     nes.CPU.State(),
		PPU:     nes.PPU.State(),
	}
}

// SetState restores a console snapshot.
func (nes *NES) SetState(s *snapshot.NES) error {
	if s.Version != snapshot.Version {
		return errors.Wrapf(snapshot.ErrVersion, "got %d", s.Version)
	}
	if s.CPU == nil {
		return errors.Wrap(snapshot.ErrMissing, "cpu")
	}
	nes.CPU.SetState(s.CPU)
	if s.PPU != nil {
		nes.PPU.SetState(s.PPU)
	}
	return nil
}
