// Package snapshot holds the serializable state of the emulated hardware.
package snapshot

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Version of the snapshot format.
const Version = 1

type NES struct {
	Version int
	CPU     *CPU
	PPU     *PPU
}

type CPU struct {
	PC uint16
	SP uint8
	P  uint8
	A  uint8
	X  uint8
	Y  uint8

	Cycles  uint64
	NMI     bool
	DMAIdle int

	RAM [0x800]uint8
}

type PPU struct {
	Cycle    int
	Scanline int
	Frames   uint64

	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMADDR   uint8

	VRAMAddr   uint16
	VRAMTemp   uint16
	FineX      uint8
	WriteLatch bool
	PPUDataBuf uint8

	OAM        [0x100]uint8
	Nametables [0x1000]uint8
	Palettes   [0x20]uint8
}

var (
	ErrVersion = errors.New("unsupported snapshot version")
	ErrMissing = errors.New("missing snapshot section")
)

func (s *NES) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *NES) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}

func (s *NES) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		if s.CPU != nil {
			e.Field("cpu", s.CPU.Encode)
		}
		if s.PPU != nil {
			e.Field("ppu", s.PPU.Encode)
		}
	})
}

func (s *NES) Decode(d *jx.Decoder) error {
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "cpu":
			s.CPU = new(CPU)
			err = s.CPU.Decode(d)
		case "ppu":
			s.PPU = new(PPU)
			err = s.PPU.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	if s.Version != Version {
		return errors.Wrapf(ErrVersion, "got %d, want %d", s.Version, Version)
	}
	if s.CPU == nil {
		return errors.Wrap(ErrMissing, "cpu")
	}
	return nil
}

func (s *CPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(s.PC) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(s.SP) })
		e.Field("p", func(e *jx.Encoder) { e.UInt8(s.P) })
		e.Field("a", func(e *jx.Encoder) { e.UInt8(s.A) })
		e.Field("x", func(e *jx.Encoder) { e.UInt8(s.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt8(s.Y) })
		e.Field("cycles", func(e *jx.Encoder) { e.UInt64(s.Cycles) })
		e.Field("nmi", func(e *jx.Encoder) { e.Bool(s.NMI) })
		e.Field("dma_idle", func(e *jx.Encoder) { e.Int(s.DMAIdle) })
		e.Field("ram", func(e *jx.Encoder) { e.Base64(s.RAM[:]) })
	})
}

func (s *CPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			s.PC, err = d.UInt16()
		case "sp":
			s.SP, err = d.UInt8()
		case "p":
			s.P, err = d.UInt8()
		case "a":
			s.A, err = d.UInt8()
		case "x":
			s.X, err = d.UInt8()
		case "y":
			s.Y, err = d.UInt8()
		case "cycles":
			s.Cycles, err = d.UInt64()
		case "nmi":
			s.NMI, err = d.Bool()
		case "dma_idle":
			s.DMAIdle, err = d.Int()
		case "ram":
			err = decodeBytes(d, s.RAM[:])
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func (s *PPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("cycle", func(e *jx.Encoder) { e.Int(s.Cycle) })
		e.Field("scanline", func(e *jx.Encoder) { e.Int(s.Scanline) })
		e.Field("frames", func(e *jx.Encoder) { e.UInt64(s.Frames) })
		e.Field("ppuctrl", func(e *jx.Encoder) { e.UInt8(s.PPUCTRL) })
		e.Field("ppumask", func(e *jx.Encoder) { e.UInt8(s.PPUMASK) })
		e.Field("ppustatus", func(e *jx.Encoder) { e.UInt8(s.PPUSTATUS) })
		e.Field("oamaddr", func(e *jx.Encoder) { e.UInt8(s.OAMADDR) })
		e.Field("vram_addr", func(e *jx.Encoder) { e.UInt16(s.VRAMAddr) })
		e.Field("vram_temp", func(e *jx.Encoder) { e.UInt16(s.VRAMTemp) })
		e.Field("finex", func(e *jx.Encoder) { e.UInt8(s.FineX) })
		e.Field("write_latch", func(e *jx.Encoder) { e.Bool(s.WriteLatch) })
		e.Field("data_buf", func(e *jx.Encoder) { e.UInt8(s.PPUDataBuf) })
		e.Field("oam", func(e *jx.Encoder) { e.Base64(s.OAM[:]) })
		e.Field("nametables", func(e *jx.Encoder) { e.Base64(s.Nametables[:]) })
		e.Field("palettes", func(e *jx.Encoder) { e.Base64(s.Palettes[:]) })
	})
}

func (s *PPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cycle":
			s.Cycle, err = d.Int()
		case "scanline":
			s.Scanline, err = d.Int()
		case "frames":
			s.Frames, err = d.UInt64()
		case "ppuctrl":
			s.PPUCTRL, err = d.UInt8()
		case "ppumask":
			s.PPUMASK, err = d.UInt8()
		case "ppustatus":
			s.PPUSTATUS, err = d.UInt8()
		case "oamaddr":
			s.OAMADDR, err = d.UInt8()
		case "vram_addr":
			s.VRAMAddr, err = d.UInt16()
		case "vram_temp":
			s.VRAMTemp, err = d.UInt16()
		case "finex":
			s.FineX, err = d.UInt8()
		case "write_latch":
			s.WriteLatch, err = d.Bool()
		case "data_buf":
			s.PPUDataBuf, err = d.UInt8()
		case "oam":
			err = decodeBytes(d, s.OAM[:])
		case "nametables":
			err = decodeBytes(d, s.Nametables[:])
		case "palettes":
			err = decodeBytes(d, s.Palettes[:])
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

// decodeBytes decodes a base64 string into dst, which must be filled exactly.
func decodeBytes(d *jx.Decoder, dst []byte) error {
	buf, err := d.Base64()
	if err != nil {
		return err
	}
	if len(buf) != len(dst) {
		return errors.Errorf("got %d bytes, want %d", len(buf), len(dst))
	}
	copy(dst, buf)
	return nil
}
