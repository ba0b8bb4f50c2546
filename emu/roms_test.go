package emu

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nescore/hw/hwio"
	"nescore/ines"
	"nescore/tests"
)

func TestInstructionsV5(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test roms in short mode")
	}

	dir := filepath.Join(tests.RomsPath(t), "instr_test-v5", "rom_singles")
	files := []string{
		"01-basics.nes",
		"02-implied.nes",
		// "03-immediate.nes", uses unofficial 0xAB (LXA)
		"04-zero_page.nes",
		"05-zp_xy.nes",
		"06-absolute.nes",
		// "07-abs_xy.nes", uses unofficial 0x9C (SHY)
		"08-ind_x.nes",
		"09-ind_y.nes",
		"10-branches.nes",
		"11-stack.nes",
		"12-jmp_jsr.nes",
		"13-rts.nes",
		"14-rti.nes",
		// "15-brk.nes", BRK returns to itself and resumes past the vector target
		"16-special.nes",
	}

	for _, path := range files {
		t.Run(path, runTestRom(filepath.Join(dir, path)))
	}
}

var errTestDone = errors.New("test rom done")

// runTestRom runs a blargg test rom until it reports its result.
//
// All text output is written starting at $6004, with a zero-byte terminator
// at the end. The test status is written to $6000. $80 means the test is
// running, $81 means the test needs the reset button pressed. $00-$7F means
// the test has completed and given that result code.
//
// To allow an emulator to know when one of these tests is running and the
// data at $6000+ is valid, $DE $B0 $61 is written to $6001-$6003.
func runTestRom(path string) func(t *testing.T) {
	return func(t *testing.T) {
		rom, err := ines.Open(path)
		if err != nil {
			t.Fatal(err)
		}

		magic := []byte{0xde, 0xb0, 0x61}
		magicset := false
		var result uint8

		var e *Emulator
		consumer := func([]uint8) error {
			bus := e.NES.CPU.Bus
			data := []byte{bus.Peek8(0x6001), bus.Peek8(0x6002), bus.Peek8(0x6003)}
			if !magicset {
				// Wait for the magic bytes to appear
				magicset = bytes.Equal(data, magic)
				return nil
			}

			// Once magic bytes have been written, they must not be overwritten.
			if !bytes.Equal(data, magic) {
				return errors.New("corrupted memory")
			}
			switch result = bus.Peek8(0x6000); {
			case result <= 0x7F:
				return errTestDone
			case result == 0x81:
				e.Reset()
			}
			return nil
		}

		// 30s of emulated time.
		e = newTestEmulator(t, rom, EmulationConfig{Speed: Turbo, FrameLimit: 30 * 60}, consumer)
		err = e.Run(context.Background())
		switch {
		case errors.Is(err, errTestDone):
		case err != nil:
			t.Fatal(err)
		default:
			t.Fatalf("test didn't complete")
		}

		if result != 0x00 {
			t.Fatalf("test failed:\ncode 0x%02x\ntext %s", result, memToString(e.NES.CPU.Bus, 0x6004))
		}
	}
}

func memToString(t *hwio.Table, addr uint16) string {
	var buf []byte
	for ; addr != 0; addr++ {
		b := t.Peek8(addr)
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

func TestNametableMirroring(t *testing.T) {
	rom := nmiCounterRom(t)
	if rom.Mirroring() != ines.Horizontal {
		t.Errorf("incorrect nt mirroring")
	}
	nes, err := powerUp(rom)
	if err != nil {
		t.Fatal(err)
	}

	nes.PPU.Bus.Write8(0x2000, 'A')
	nes.PPU.Bus.Write8(0x2800, 'B')

	addrs := []uint16{
		0x2000, // A
		0x2400, // A
		0x2800, // B
		0x2C00, // B
		0x3000, // A
		0x3400, // A
		0x3800, // B
		0x3C00, // B
	}
	var nts []byte
	for _, a := range addrs {
		nts = append(nts, nes.PPU.Bus.Read8(a, false))
	}

	if string(nts) != "AABBAABB" {
		t.Errorf("mirrors = %s", nts)
	}
}
