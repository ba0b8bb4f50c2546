package hwio

import "testing"

func TestReg8Write(t *testing.T) {
	tests := []struct {
		name   string
		value  uint8
		romask uint8
		flags  RWFlags
		write  uint8
		want   uint8
	}{
		{"plain", 0x11, 0x00, ReadWriteFlag, 0x77, 0x77},
		{"romask", 0x11, 0xF0, ReadWriteFlag, 0x77, 0x17},
		// PPUSTATUS-like: only the low bits are writable.
		{"status", 0xE0, 0xE0, ReadWriteFlag, 0x1F, 0xFF},
		{"readonly", 0x11, 0x00, ReadOnlyFlag, 0x77, 0x11},
		{"writeonly", 0x11, 0x00, WriteOnlyFlag, 0x77, 0x77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reg8{Name: tt.name, Value: tt.value, RoMask: tt.romask, Flags: tt.flags}
			// The register ignores the bus address it's mapped at.
			r.Write8(0x2006, tt.write)
			if r.Value != tt.want {
				t.Errorf("Value = %02X, want %02X", r.Value, tt.want)
			}
		})
	}
}

func TestReg8Callbacks(t *testing.T) {
	var (
		reads      int
		oldv, newv uint8
	)
	r := Reg8{Name: "ppudata", Value: 0x40, RoMask: 0x01}
	r.ReadCb = func(val uint8) uint8 {
		reads++
		return val | 0x80
	}
	r.WriteCb = func(old, val uint8) { oldv, newv = old, val }

	if got := r.Read8(0x2007, false); got != 0xC0 {
		t.Errorf("Read8 = %02X, want C0", got)
	}
	if got := r.Read8(0x2007, true); got != 0x40 {
		t.Errorf("peek = %02X, want 40", got)
	}
	if reads != 1 {
		t.Errorf("read callback called %d times, want 1", reads)
	}

	r.Write8(0x2007, 0x33)
	if oldv != 0x40 || newv != 0x32 {
		t.Errorf("write callback got old=%02X new=%02X, want old=40 new=32", oldv, newv)
	}

	if s := r.String(); s != "ppudata{32,r!,w!}" {
		t.Errorf("String() = %q", s)
	}
}

func TestReg8WriteOnlyRead(t *testing.T) {
	r := Reg8{Name: "oamdma", Value: 0x02, Flags: WriteOnlyFlag}
	r.ReadCb = func(uint8) uint8 {
		t.Fatal("read callback called on a write-only register")
		return 0
	}
	if got := r.Read8(0x4014, false); got != 0 {
		t.Errorf("Read8 = %02X, want 0", got)
	}
	if got := r.Read8(0x4014, true); got != 0 {
		t.Errorf("peek = %02X, want 0", got)
	}
}

func TestReg8Bits(t *testing.T) {
	// PPUCTRL with NMI enable, 8x16 sprites and nametable 2.
	r := Reg8{Name: "ppuctrl", Value: 0b1010_0010}

	if got := r.Bits(0, 2); got != 2 {
		t.Errorf("Bits(0, 2) = %d, want 2", got)
	}
	if got := r.Bits(5, 3); got != 0b101 {
		t.Errorf("Bits(5, 3) = %03b, want 101", got)
	}
	for n, want := range []bool{false, true, false, false, false, true, false, true} {
		if got := r.Bit(uint(n)); got != want {
			t.Errorf("Bit(%d) = %t, want %t", n, got, want)
		}
	}
}
