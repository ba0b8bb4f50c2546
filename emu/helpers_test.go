package emu

import (
	"bytes"
	"io"
	"testing"

	"nescore/emu/log"
	"nescore/ines"
)

func init() {
	log.SetOutput(io.Discard)
}

// code is a chunk of 6502 machine code loaded at org.
type code struct {
	org   uint16
	bytes []byte
}

// buildRom returns a 16KB NROM cartridge, mapped at $C000 (and mirrored at
// $8000) holding the given code chunks and the NMI, reset and IRQ vectors.
func buildRom(tb testing.TB, nmi, reset, irq uint16, chunks ...code) *ines.Rom {
	tb.Helper()

	prg := make([]byte, 0x4000)
	for _, c := range chunks {
		copy(prg[c.org-0xC000:], c.bytes)
	}
	for i, v := range []uint16{nmi, reset, irq} {
		prg[0x3FFA+2*i] = uint8(v)
		prg[0x3FFB+2*i] = uint8(v >> 8)
	}

	var buf bytes.Buffer
	buf.WriteString(ines.Magic)
	buf.Write([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.Write(prg)

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(&buf); err != nil {
		tb.Fatal(err)
	}
	return rom
}

// nmiCounterRom enables NMI then loops forever. The NMI handler increments
// $10.
func nmiCounterRom(tb testing.TB) *ines.Rom {
	return buildRom(tb, 0xC010, 0xC000, 0xC000,
		code{0xC000, []byte{
			0xA9, 0x80, //       LDA #$80
			0x8D, 0x00, 0x20, // STA $2000
			0x4C, 0x05, 0xC0, // JMP $C005
		}},
		code{0xC010, []byte{
			0xE6, 0x10, // INC $10
			0x40, //       RTI
		}},
	)
}

func newTestEmulator(tb testing.TB, rom *ines.Rom, cfg EmulationConfig, consumer FrameConsumer) *Emulator {
	tb.Helper()

	nes, err := powerUp(rom)
	if err != nil {
		tb.Fatal(err)
	}
	return newEmulator(nes, cfg, consumer)
}
