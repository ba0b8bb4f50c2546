package hwio

import (
	"fmt"
	"slices"

	"nescore/emu/log"
)

// log unmapped accesses (useful for debugging but verbose since many
// programs read from open bus)
const logUnmapped = false

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	b.Write8(addr, lo)
	b.Write8(addr+1, hi)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr, false)
	hi := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

// ReadHook intercepts reads of an address range, addr is the address
// after mirror folding.
type ReadHook func(addr uint16) uint8

// WriteHook intercepts writes to an address range, addr is the address after
// mirror folding.
type WriteHook func(addr uint16, val uint8)

// region is an inclusive address range served by a single handler. When
// mirror is non zero, addresses are folded into [base, base+mirror) before
// being forwarded.
type region struct {
	lo, hi uint16
	base   uint16
	mirror uint16
	io     BankIO8
}

func (r *region) fold(addr uint16) uint16 {
	if r.mirror == 0 {
		return addr
	}
	return r.base + (addr-r.base)%r.mirror
}

type hook[F any] struct {
	lo, hi uint16
	fn     F
}

type Table struct {
	Name string

	regions []region // sorted, non overlapping

	rhooks []hook[ReadHook]
	whooks []hook[WriteHook]
	rmask  Bitset // addresses with a read hook
	wmask  Bitset // addresses with a write hook
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps everything and removes all hooks.
func (t *Table) Reset() {
	t.regions = nil
	t.rhooks = nil
	t.whooks = nil
	t.rmask.Reset()
	t.wmask.Reset()
}

func (t *Table) mapBus8(lo, hi, mirror uint16, io BankIO8) {
	if hi < lo {
		panic(fmt.Sprintf("hwio: invalid range [%04X-%04X] on bus %q", lo, hi, t.Name))
	}
	// Remapping a range replaces whatever was there.
	t.Unmap(lo, hi)
	idx, _ := slices.BinarySearchFunc(t.regions, lo, func(r region, addr uint16) int {
		return int(r.lo) - int(addr)
	})
	t.regions = slices.Insert(t.regions, idx, region{lo: lo, hi: hi, base: lo, mirror: mirror, io: io})
}

// MapDevice maps io on the inclusive range [lo, hi].
func (t *Table) MapDevice(lo, hi uint16, io BankIO8) {
	t.mapBus8(lo, hi, 0, io)
}

// MapMirrored maps io on [lo, hi], folding every address into the first
// size bytes of the range.
func (t *Table) MapMirrored(lo, hi, size uint16, io BankIO8) {
	if size == 0 {
		panic("hwio: mirror size must be non zero")
	}
	t.mapBus8(lo, hi, size, io)
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, addr, 0, io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize-1)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, addr+uint16(mem.VSize-1), 0, mem.BankIO8())
}

func (t *Table) MapMemorySlice(addr, end uint16, mem []uint8, readonly bool) {
	log.ModHwIo.DebugZ("mapping slice").
		Hex16("addr", addr).
		Hex16("end", end).
		String("bus", t.Name).
		Bool("ro", readonly).
		End()

	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  mem,
		Flags: flags,
		VSize: int(end) - int(addr) + 1,
	})
}

// Unmap removes the mapping of all addresses in [begin, end]. Regions
// partially covered are trimmed.
func (t *Table) Unmap(begin, end uint16) {
	var kept []region
	for _, r := range t.regions {
		if r.hi < begin || r.lo > end {
			kept = append(kept, r)
			continue
		}
		if r.lo < begin {
			left := r
			left.hi = begin - 1
			kept = append(kept, left)
		}
		if r.hi > end {
			right := r
			right.lo = end + 1
			kept = append(kept, right)
		}
	}
	t.regions = kept
}

func (t *Table) search(addr uint16) *region {
	i, found := slices.BinarySearchFunc(t.regions, addr, func(r region, addr uint16) int {
		return int(r.lo) - int(addr)
	})
	if found {
		return &t.regions[i]
	}
	if i == 0 {
		return nil
	}
	if r := &t.regions[i-1]; addr <= r.hi {
		return r
	}
	return nil
}

// CheckCoverage panics if any address of the 16-bit space has no handler.
// Unmapped addresses are a configuration error, not a runtime condition.
func (t *Table) CheckCoverage() {
	t.CheckRange(0x0000, 0xFFFF)
}

// CheckRange panics if any address of [lo, hi] has no handler. Buses
// narrower than 16 bits check their own address range.
func (t *Table) CheckRange(lo, hi uint16) {
	var mapped Bitset
	for _, r := range t.regions {
		mapped.SetRange(uint(r.lo), uint(r.hi)+1)
	}
	if addr, ok := mapped.FirstClear(uint(lo), uint(hi)+1); ok {
		panic(fmt.Sprintf("hwio: bus %q has no handler for address %04X", t.Name, addr))
	}
}

// HookRead registers fn as the read interceptor of a single address.
func (t *Table) HookRead(addr uint16, fn ReadHook) {
	t.HookReadRange(addr, addr, fn)
}

// HookWrite registers fn as the write interceptor of a single address.
func (t *Table) HookWrite(addr uint16, fn WriteHook) {
	t.HookWriteRange(addr, addr, fn)
}

// HookReadRange registers fn as the read interceptor of all addresses in
// [lo, hi]. Overlapping another read interceptor panics.
func (t *Table) HookReadRange(lo, hi uint16, fn ReadHook) {
	t.rhooks = addHook(t, &t.rmask, t.rhooks, lo, hi, fn, "read")
}

// HookWriteRange registers fn as the write interceptor of all addresses in
// [lo, hi]. Overlapping another write interceptor panics.
func (t *Table) HookWriteRange(lo, hi uint16, fn WriteHook) {
	t.whooks = addHook(t, &t.wmask, t.whooks, lo, hi, fn, "write")
}

func addHook[F any](t *Table, mask *Bitset, hooks []hook[F], lo, hi uint16, fn F, kind string) []hook[F] {
	if hi < lo {
		panic(fmt.Sprintf("hwio: invalid %s hook range [%04X-%04X]", kind, lo, hi))
	}
	if a, ok := mask.FirstSet(uint(lo), uint(hi)+1); ok {
		log.ModHwIo.ErrorZ("overlapping hook").
			String("bus", t.Name).
			String("kind", kind).
			Hex16("addr", uint16(a)).
			End()
		panic(fmt.Sprintf("hwio: %s hook already registered at %04X on bus %q", kind, a, t.Name))
	}
	mask.SetRange(uint(lo), uint(hi)+1)
	return append(hooks, hook[F]{lo: lo, hi: hi, fn: fn})
}

func findHook[F any](hooks []hook[F], addr uint16) F {
	for _, h := range hooks {
		if addr >= h.lo && addr <= h.hi {
			return h.fn
		}
	}
	var zero F
	return zero
}

// Read8 searches in the table for the device mapped at the given address and
// forward the read to it. A read interceptor registered on the address (or on
// its mirror-folded value) replaces the device. Peeking never triggers
// interceptors.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	r := t.search(addr)
	if r == nil {
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	folded := r.fold(addr)
	if !peek {
		if t.rmask.Test(uint(folded)) {
			return findHook(t.rhooks, folded)(folded)
		}
		if folded != addr && t.rmask.Test(uint(addr)) {
			return findHook(t.rhooks, addr)(addr)
		}
	}
	return r.io.Read8(folded, peek)
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	r := t.search(addr)
	if r == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	folded := r.fold(addr)
	if t.wmask.Test(uint(folded)) {
		findHook(t.whooks, folded)(folded, val)
		return
	}
	if folded != addr && t.wmask.Test(uint(addr)) {
		findHook(t.whooks, addr)(addr, val)
		return
	}
	r.io.Write8(folded, val)
}
