package hwio_test

import (
	"bytes"
	"testing"

	"nescore/hw/hwio"
)

type testTable struct {
	t testing.TB
	*hwio.Table
	RAM  hwio.Mem
	Reg1 hwio.Reg8
}

func newTestTable(tb testing.TB) *testTable {
	tbl := &testTable{t: tb, Table: hwio.NewTable("bus")}
	tbl.RAM = hwio.Mem{Name: "ram", Data: make([]byte, 0x800), VSize: 0x2000}
	tbl.Reg1 = hwio.Reg8{Name: "reg1", Value: 0x99, RoMask: 0x0F}
	tbl.Reg1.ReadCb = func(val uint8) uint8 {
		tbl.Reg1.Value++
		return tbl.Reg1.Value
	}
	tbl.MapMem(0x0000, &tbl.RAM)
	tbl.MapMirrored(0x2000, 0x3FFF, 8, hwio.OpenBus("regs"))
	tbl.MapReg8(0x2001, &tbl.Reg1)
	return tbl
}

func (tbl *testTable) wantRead8(addr uint16, want uint8) {
	tbl.t.Helper()
	if got := tbl.Read8(addr, false); got != want {
		tbl.t.Errorf("Read8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func (tbl *testTable) wantPeek8(addr uint16, want uint8) {
	tbl.t.Helper()
	if got := tbl.Peek8(addr); got != want {
		tbl.t.Errorf("Peek8(%04X) = %02X, want %02X", addr, got, want)
	}
}

func TestTableMapMem(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead8(0x00, 0)
	tbl.Write8(0x00, 0x12)
	tbl.wantRead8(0x00, 0x12)
	tbl.wantRead8(0x800, 0x12)
	tbl.wantRead8(0x1800, 0x12)

	tbl.Write8(0x1FFF, 0x34)
	tbl.wantRead8(0x07FF, 0x34)
}

func TestTableRegs(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead8(0x2001, 0x9A)
	tbl.wantRead8(0x2001, 0x9B)
	tbl.wantPeek8(0x2001, 0x9B)
	tbl.Write8(0x2001, 0xFF)
	tbl.wantPeek8(0x2001, 0xFB)

	// the register is mapped on a single address, the rest of the window
	// is open bus.
	tbl.wantRead8(0x2009, 0x00)
}

func TestTableUnmapped(t *testing.T) {
	tbl := newTestTable(t)
	tbl.wantRead8(0x5000, 0x00)
	tbl.Write8(0x5000, 0xFF)
	tbl.wantPeek8(0x5000, 0x00)
}

func TestTableMapMemorySlice(t *testing.T) {
	tbl := newTestTable(t)

	rom := bytes.Repeat([]byte("\x12\x34"), 0x100)
	tbl.MapMemorySlice(0x8000, 0x81FF, rom, true)

	tbl.wantRead8(0x8000, 0x12)
	tbl.wantRead8(0x8001, 0x34)
	tbl.wantRead8(0x81FF, 0x34)
	tbl.wantRead8(0x8200, 0x00)

	// read-only
	tbl.Write8(0x8000, 0xFF)
	tbl.wantRead8(0x8000, 0x12)
}

func TestTableUnmap(t *testing.T) {
	tbl := newTestTable(t)
	tbl.Write8(0x0010, 0xAA)

	tbl.Unmap(0x0800, 0x0FFF)
	tbl.wantRead8(0x0010, 0xAA)
	tbl.wantRead8(0x0810, 0x00)
	tbl.wantRead8(0x1010, 0xAA)
}

func TestTableHooks(t *testing.T) {
	tbl := newTestTable(t)

	var (
		writes []uint16
		reads  []uint16
	)
	tbl.HookWriteRange(0x2000, 0x2007, func(addr uint16, val uint8) {
		writes = append(writes, addr)
	})
	tbl.HookRead(0x2002, func(addr uint16) uint8 {
		reads = append(reads, addr)
		return 0x80
	})

	// Hooks are triggered for all mirrors, with the folded address.
	tbl.Write8(0x2000, 1)
	tbl.Write8(0x3FF9, 1)
	tbl.wantRead8(0x200A, 0x80)
	tbl.wantRead8(0x2002, 0x80)

	// Peeking bypasses hooks.
	tbl.wantPeek8(0x2002, 0x00)

	if want := []uint16{0x2000, 0x2001}; !equal(writes, want) {
		t.Errorf("write hook addresses = %04X, want %04X", writes, want)
	}
	if want := []uint16{0x2002, 0x2002}; !equal(reads, want) {
		t.Errorf("read hook addresses = %04X, want %04X", reads, want)
	}

	// A hook on a raw, non-mirrored address.
	var got uint8
	tbl.HookWrite(0x0100, func(addr uint16, val uint8) { got = val })
	tbl.Write8(0x0100, 0x42)
	if got != 0x42 {
		t.Errorf("hook got %02X, want 42", got)
	}
	tbl.wantRead8(0x0100, 0x00)
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTableOverlappingHooks(t *testing.T) {
	tbl := newTestTable(t)
	tbl.HookWriteRange(0x4000, 0x4003, func(uint16, uint8) {})

	defer func() {
		if recover() == nil {
			t.Fatal("overlapping hook should panic")
		}
	}()
	tbl.HookWrite(0x4002, func(uint16, uint8) {})
}

func TestTableCheckCoverage(t *testing.T) {
	tbl := newTestTable(t)
	tbl.MapDevice(0x4000, 0xFFFF, hwio.OpenBus("rest"))
	tbl.CheckCoverage()

	tbl.Unmap(0x4018, 0x401F)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("CheckCoverage should panic")
		}
		if s, _ := r.(string); !bytes.Contains([]byte(s), []byte("4018")) {
			t.Errorf("panic message %q should name address 4018", s)
		}
	}()
	tbl.CheckCoverage()
}

func panicMessage(f func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg, _ = r.(string)
			if msg == "" {
				msg = "non string panic"
			}
		}
	}()
	f()
	return ""
}

// A 14-bit bus only needs handlers for its own range.
func TestTableCheckRange(t *testing.T) {
	tbl := newTestTable(t)

	if msg := panicMessage(func() { tbl.CheckRange(0x0000, 0x3FFF) }); msg != "" {
		t.Fatalf("CheckRange(0000, 3FFF) panicked: %s", msg)
	}
	for _, tt := range []struct {
		name  string
		check func()
		addr  string
	}{
		{"range", func() { tbl.CheckRange(0x3000, 0x4000) }, "4000"},
		{"whole bus", tbl.CheckCoverage, "4000"},
		{"single address", func() { tbl.CheckRange(0xFFFF, 0xFFFF) }, "FFFF"},
	} {
		msg := panicMessage(tt.check)
		if !bytes.Contains([]byte(msg), []byte(tt.addr)) {
			t.Errorf("%s: panic message %q should name address %s", tt.name, msg, tt.addr)
		}
	}
}
