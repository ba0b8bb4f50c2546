package hw

import "testing"

func TestPflag(t *testing.T) {
	p := P(0x40)
	p.setFlags(Interrupt)
	if p != 0x44 {
		t.Errorf("got P = %q, want %q", p.String(), P(0x44))
	}

	p.setFlags(Break)
	if p != 0x54 {
		t.Errorf("got P = %q, want %q", p.String(), P(0x54))
	}

	// Negative flag
	p.checkNZ(0xff)
	if !p.Has(Negative) {
		t.Error("N bit should be set")
	}
	p.checkNZ(0x7f)
	if p.Has(Negative) {
		t.Error("N bit should not be set")
	}
	p.checkNZ(0x80)
	if !p.Has(Negative) {
		t.Error("N bit should be set")
	}

	// Zero flag
	p.checkNZ(0)
	if !p.Has(Zero) {
		t.Error("Z bit should be set")
	}
	p.checkNZ(1)
	if p.Has(Zero) {
		t.Error("Z bit should not be set")
	}
}

func TestPString(t *testing.T) {
	p := P(0b00110100)
	if got := p.String(); got != "nvUBdIzc" {
		t.Errorf("got P = %s, want %s", got, "nvUBdIzc")
	}
	p = P(0b00000100)
	if p.String() != "nvubdIzc" {
		t.Errorf("got P = %s, want %s", p.String(), "nvubdIzc")
	}
}

func TestPByteRoundTrip(t *testing.T) {
	for b := range 256 {
		got := FromByte(uint8(b)).ToByte()
		if want := uint8(b) | Reserved; got != want {
			t.Errorf("FromByte(%02x).ToByte() = %02x, want %02x", b, got, want)
		}
	}
	if got := FromByte(0x00).ToByte(); got != 0x20 {
		t.Errorf("ToByte of cleared register = %02x, want 20", got)
	}
}

// Carry and overflow of ADC are computed from the unsigned sum, check they
// agree with the signed interpretation of the operation, for ADC and SBC.
func TestCarryOverflowFormulas(t *testing.T) {
	for a := range 256 {
		for m := range 256 {
			for c := range 2 {
				var p P
				p.checkCV(uint8(a), uint8(m), uint16(a)+uint16(m)+uint16(c))

				wantC := a+m+c > 0xFF
				sres := int(int8(a)) + int(int8(m)) + c
				wantV := sres < -128 || sres > 127
				if p.Has(Carry) != wantC || p.Has(Overflow) != wantV {
					t.Fatalf("ADC a=%02x m=%02x c=%d: got C=%t V=%t, want C=%t V=%t",
						a, m, c, p.Has(Carry), p.Has(Overflow), wantC, wantV)
				}

				// SBC is ADC of the one's complement.
				p = 0
				nm := ^uint8(m)
				p.checkCV(uint8(a), nm, uint16(a)+uint16(nm)+uint16(c))

				borrow := 1 - c
				wantC = a-m-borrow >= 0
				sres = int(int8(a)) - int(int8(m)) - borrow
				wantV = sres < -128 || sres > 127
				if p.Has(Carry) != wantC || p.Has(Overflow) != wantV {
					t.Fatalf("SBC a=%02x m=%02x c=%d: got C=%t V=%t, want C=%t V=%t",
						a, m, c, p.Has(Carry), p.Has(Overflow), wantC, wantV)
				}
			}
		}
	}
}
