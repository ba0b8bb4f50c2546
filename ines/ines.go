// package ines implements a Reader for roms in the iNES file format, used for
// the distribution of NES binary programs.
package ines

import (
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
)

var (
	ErrInvalidMagic = errors.New("invalid magic number")
	ErrTruncated    = errors.New("truncated rom")
)

type Rom struct {
	header
	Trainer []byte // Trainer, 512 bytes if present, or empty.
	PRG     []byte // PRG is PRG ROM data (length is multiples of 16k)
	CHR     []byte // CHR is CHR ROM data (length is multiples of 8k)
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	// header
	var off int
	if err := rom.decode(buf); err != nil {
		return 0, errors.Wrap(err, "failed to decode header")
	}
	off += 16

	// trainer
	if rom.HasTrainer() {
		if len(buf) < off+512 {
			return 0, errors.Wrap(ErrTruncated, "incomplete TRAINER section")
		}
		rom.Trainer = buf[off : off+512]
		off += 512
	}

	// PRG rom data
	if len(buf) < off+rom.prgsz {
		return 0, errors.Wrap(ErrTruncated, "incomplete PRG section")
	}
	rom.PRG = buf[off : off+rom.prgsz]
	off += rom.prgsz

	// CHR rom data
	if len(buf) < off+rom.chrsz {
		return 0, errors.Wrap(ErrTruncated, "incomplete CHR section")
	}
	rom.CHR = buf[off : off+rom.chrsz]
	off += rom.chrsz

	return int64(len(buf)), nil
}

const Magic = "NES\x1a"

func (hdr *header) decode(p []byte) error {
	if len(p) < 16 {
		return errors.Wrap(ErrTruncated, "header needs 16 bytes")
	}
	if string(p[:4]) != Magic {
		return ErrInvalidMagic
	}
	copy(hdr.raw[:], p[:16])

	hdr.prgsz = int(hdr.raw[4]) * 16384
	hdr.chrsz = int(hdr.raw[5]) * 8192
	if hdr.prgsz == 0 {
		return errors.New("rom has no PRG data")
	}
	return nil
}

type header struct {
	raw   [16]byte
	prgsz int
	chrsz int
}

// Has Trainer indicates the presence of a trainer section in the rom.
func (hdr *header) HasTrainer() bool {
	return hdr.raw[6]&0x04 != 0
}

// HasPersistent indicates the presence of battery-backed memory in the rom.
func (hdr *header) HasPersistent() bool {
	return hdr.raw[6]&0x02 != 0
}

// Mapper returns the mapper number.
func (hdr *header) Mapper() uint16 {
	return uint16(hdr.raw[7]&0xF0 | hdr.raw[6]>>4)
}

// PRGRAMSize returns the size of the PRG RAM, 8KB when unspecified.
func (hdr *header) PRGRAMSize() int {
	if hdr.raw[8] == 0 {
		return 0x2000
	}
	return int(hdr.raw[8]) * 0x2000
}

// HasCHRRAM reports whether the cartridge uses 8KB of CHR RAM instead of CHR
// ROM.
func (hdr *header) HasCHRRAM() bool {
	return hdr.chrsz == 0
}

// Mirroring returns the nametable mirroring set by the cartridge
// wiring.
func (hdr *header) Mirroring() Mirroring {
	switch {
	case hdr.raw[6]&0x08 != 0:
		return FourScreen
	case hdr.raw[6]&0x01 != 0:
		return Vertical
	}
	return Horizontal
}

// PrintInfos writes a summary of the rom header.
func (rom *Rom) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "PRG ROM:   %d x 16KB\n", rom.prgsz/16384)
	if rom.HasCHRRAM() {
		fmt.Fprintf(w, "CHR RAM:   8KB\n")
	} else {
		fmt.Fprintf(w, "CHR ROM:   %d x 8KB\n", rom.chrsz/8192)
	}
	fmt.Fprintf(w, "PRG RAM:   %dKB\n", rom.PRGRAMSize()/1024)
	fmt.Fprintf(w, "Mapper:    %d\n", rom.Mapper())
	fmt.Fprintf(w, "Mirroring: %s\n", rom.Mirroring())
	fmt.Fprintf(w, "Trainer:   %t\n", rom.HasTrainer())
	fmt.Fprintf(w, "Battery:   %t\n", rom.HasPersistent())
}

// Mirroring describes how the 4 logical nametables map to the 2KB of video
// RAM.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleLower
	SingleUpper
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleLower:
		return "single-screen lower"
	case SingleUpper:
		return "single-screen upper"
	case FourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("Mirroring(%d)", uint8(m))
}

// Nametable returns the physical nametable (0-3) of the logical nametable
// nt (0-3).
func (m Mirroring) Nametable(nt int) int {
	switch m {
	case Horizontal:
		return nt >> 1
	case Vertical:
		return nt & 1
	case SingleLower:
		return 0
	case SingleUpper:
		return 1
	}
	return nt & 3
}
