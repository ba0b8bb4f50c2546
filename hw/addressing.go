package hw

import "fmt"

// AddrMode is the way an instruction locates its operand.
type AddrMode uint8

const (
	Implicit AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (d,X)
	IndirectIndexed // (d),Y
)

var addrModeNames = [...]string{
	Implicit:        "imp",
	Accumulator:     "acc",
	Immediate:       "imm",
	ZeroPage:        "zpg",
	ZeroPageX:       "zpx",
	ZeroPageY:       "zpy",
	Relative:        "rel",
	Absolute:        "abs",
	AbsoluteX:       "abx",
	AbsoluteY:       "aby",
	Indirect:        "ind",
	IndexedIndirect: "izx",
	IndirectIndexed: "izy",
}

func (m AddrMode) String() string {
	if int(m) < len(addrModeNames) {
		return addrModeNames[m]
	}
	return fmt.Sprintf("AddrMode(%d)", m)
}

// Size returns the number of bytes occupied by an instruction, opcode
// included, using this addressing mode.
func (m AddrMode) Size() uint8 {
	switch m {
	case Implicit, Accumulator:
		return 1
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndexedIndirect, IndirectIndexed:
		return 2
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	}
	panic(fmt.Sprintf("unknown addressing mode %d", m))
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// resolve computes the effective address of the operand of the instruction
// at PC. crossed reports whether indexing (or branching) moved the address to
// another page than its base.
func (c *CPU) resolve(mode AddrMode) (addr uint16, crossed bool) {
	pc := c.PC
	switch mode {
	case Immediate:
		return pc + 1, false
	case ZeroPage:
		return uint16(c.Read8(pc + 1)), false
	case ZeroPageX:
		return uint16(c.Read8(pc+1) + c.X), false
	case ZeroPageY:
		return uint16(c.Read8(pc+1) + c.Y), false
	case Absolute:
		return c.Read16(pc + 1), false
	case AbsoluteX:
		base := c.Read16(pc + 1)
		addr = base + uint16(c.X)
		return addr, pageCrossed(base, addr)
	case AbsoluteY:
		base := c.Read16(pc + 1)
		addr = base + uint16(c.Y)
		return addr, pageCrossed(base, addr)
	case Relative:
		off := int8(c.Read8(pc + 1))
		next := pc + 2
		addr = next + uint16(off)
		return addr, pageCrossed(next, addr)
	case Indirect:
		ptr := c.Read16(pc + 1)
		// The pointer high byte is fetched without carrying into the
		// pointer page: JMP ($30FF) reads $30FF and $3000.
		lo := c.Read8(ptr)
		hi := c.Read8(ptr&0xFF00 | uint16(uint8(ptr)+1))
		return uint16(hi)<<8 | uint16(lo), false
	case IndexedIndirect:
		zp := c.Read8(pc+1) + c.X
		return c.readZP16(zp), false
	case IndirectIndexed:
		base := c.readZP16(c.Read8(pc + 1))
		// wraps past $FFFF: ($FF),Y with pointer $FFFF gives Y-1.
		addr = base + uint16(c.Y)
		return addr, pageCrossed(base, addr)
	}
	panic(fmt.Sprintf("addressing mode %s has no operand address", mode))
}

// readZP16 reads a little-endian pointer in zero page, the high byte wraps
// to $00 when zp is $FF.
func (c *CPU) readZP16(zp uint8) uint16 {
	lo := c.Read8(uint16(zp))
	hi := c.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// operand returns the effective address of the current instruction operand,
// resolving it once per instruction. Indexed modes charge one cycle when
// crossing a page, if the opcode is subject to it.
func (c *CPU) operand() uint16 {
	if !c.resolved {
		addr, crossed := c.resolve(c.inst.Mode)
		if crossed && c.inst.PageCheck {
			c.extra++
		}
		c.addr, c.resolved = addr, true
	}
	return c.addr
}

// fetch reads the operand value of the current instruction.
func (c *CPU) fetch() uint8 {
	return c.Read8(c.operand())
}
