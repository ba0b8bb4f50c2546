package hw

import "nescore/emu/log"

/* value-level primitives, composed by the opcodes below */

func (c *CPU) setreg(reg *uint8, val uint8) {
	*reg = val
	c.P.checkNZ(val)
}

func (c *CPU) adc(val uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(c.P.ibit(Carry))
	c.P.checkCV(c.A, val, sum)
	c.setreg(&c.A, uint8(sum))
}

// Subtraction is the addition of the one's complement, decimal mode has no
// effect on this CPU.
func (c *CPU) sbc(val uint8) {
	c.adc(^val)
}

func (c *CPU) and(val uint8) { c.setreg(&c.A, c.A&val) }
func (c *CPU) ora(val uint8) { c.setreg(&c.A, c.A|val) }
func (c *CPU) eor(val uint8) { c.setreg(&c.A, c.A^val) }

func (c *CPU) compare(reg, val uint8) {
	c.P.writeFlag(Carry, reg >= val)
	c.P.checkNZ(reg - val)
}

func (c *CPU) asl(val uint8) uint8 {
	c.P.writeFlag(Carry, val&0x80 != 0)
	val <<= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) lsr(val uint8) uint8 {
	c.P.writeFlag(Carry, val&0x01 != 0)
	val >>= 1
	c.P.checkNZ(val)
	return val
}

func (c *CPU) rol(val uint8) uint8 {
	carry := c.P.ibit(Carry)
	c.P.writeFlag(Carry, val&0x80 != 0)
	val = val<<1 | carry
	c.P.checkNZ(val)
	return val
}

func (c *CPU) ror(val uint8) uint8 {
	carry := c.P.ibit(Carry)
	c.P.writeFlag(Carry, val&0x01 != 0)
	val = val>>1 | carry<<7
	c.P.checkNZ(val)
	return val
}

func (c *CPU) inc(val uint8) uint8 {
	val++
	c.P.checkNZ(val)
	return val
}

func (c *CPU) dec(val uint8) uint8 {
	val--
	c.P.checkNZ(val)
	return val
}

// rmw performs a read-modify-write of the operand and returns the written
// value.
func (c *CPU) rmw(modify func(uint8) uint8) uint8 {
	addr := c.operand()
	val := modify(c.Read8(addr))
	c.Write8(addr, val)
	return val
}

func (c *CPU) branch(taken bool) {
	if !taken {
		return
	}
	target, crossed := c.resolve(Relative)
	c.extra++
	if crossed && c.inst.PageCheck {
		c.extra++
	}
	c.jump(target)
}

// sh implements the unstable SHA/SHX/SHY/TAS stores: the stored value is ANDed
// with the high byte of the base address plus one. When indexing crosses a
// page, that value also replaces the high byte of the target address.
func (c *CPU) sh(idx, val uint8) {
	addr := c.operand()
	base := addr - uint16(idx)
	val &= uint8(base>>8) + 1
	if pageCrossed(base, addr) {
		addr = uint16(val)<<8 | addr&0xFF
	}
	c.Write8(addr, val)
}

/* loads, stores and transfers */

func LDA(c *CPU) { c.setreg(&c.A, c.fetch()) }
func LDX(c *CPU) { c.setreg(&c.X, c.fetch()) }
func LDY(c *CPU) { c.setreg(&c.Y, c.fetch()) }
func STA(c *CPU) { c.Write8(c.operand(), c.A) }
func STX(c *CPU) { c.Write8(c.operand(), c.X) }
func STY(c *CPU) { c.Write8(c.operand(), c.Y) }
func TAX(c *CPU) { c.setreg(&c.X, c.A) }
func TAY(c *CPU) { c.setreg(&c.Y, c.A) }
func TXA(c *CPU) { c.setreg(&c.A, c.X) }
func TYA(c *CPU) { c.setreg(&c.A, c.Y) }
func TSX(c *CPU) { c.setreg(&c.X, c.SP) }
func TXS(c *CPU) { c.SP = c.X }

/* arithmetic and logic */

func ADC(c *CPU) { c.adc(c.fetch()) }
func SBC(c *CPU) { c.sbc(c.fetch()) }
func AND(c *CPU) { c.and(c.fetch()) }
func ORA(c *CPU) { c.ora(c.fetch()) }
func EOR(c *CPU) { c.eor(c.fetch()) }
func CMP(c *CPU) { c.compare(c.A, c.fetch()) }
func CPX(c *CPU) { c.compare(c.X, c.fetch()) }
func CPY(c *CPU) { c.compare(c.Y, c.fetch()) }

func BIT(c *CPU) {
	val := c.fetch()
	c.P.writeFlag(Zero, c.A&val == 0)
	c.P.writeFlag(Overflow, val&0x40 != 0)
	c.P.writeFlag(Negative, val&0x80 != 0)
}

func INC(c *CPU) { c.rmw(c.inc) }
func DEC(c *CPU) { c.rmw(c.dec) }
func INX(c *CPU) { c.setreg(&c.X, c.X+1) }
func INY(c *CPU) { c.setreg(&c.Y, c.Y+1) }
func DEX(c *CPU) { c.setreg(&c.X, c.X-1) }
func DEY(c *CPU) { c.setreg(&c.Y, c.Y-1) }

/* shifts and rotations */

func ASL(c *CPU)    { c.rmw(c.asl) }
func LSR(c *CPU)    { c.rmw(c.lsr) }
func ROL(c *CPU)    { c.rmw(c.rol) }
func ROR(c *CPU)    { c.rmw(c.ror) }
func ASLacc(c *CPU) { c.A = c.asl(c.A) }
func LSRacc(c *CPU) { c.A = c.lsr(c.A) }
func ROLacc(c *CPU) { c.A = c.rol(c.A) }
func RORacc(c *CPU) { c.A = c.ror(c.A) }

/* flags */

func CLC(c *CPU) { c.P.clearFlags(Carry) }
func SEC(c *CPU) { c.P.setFlags(Carry) }
func CLI(c *CPU) { c.P.clearFlags(Interrupt) }
func SEI(c *CPU) { c.P.setFlags(Interrupt) }
func CLV(c *CPU) { c.P.clearFlags(Overflow) }
func CLD(c *CPU) { c.P.clearFlags(Decimal) }
func SED(c *CPU) { c.P.setFlags(Decimal) }

/* branches */

func BPL(c *CPU) { c.branch(!c.P.Has(Negative)) }
func BMI(c *CPU) { c.branch(c.P.Has(Negative)) }
func BVC(c *CPU) { c.branch(!c.P.Has(Overflow)) }
func BVS(c *CPU) { c.branch(c.P.Has(Overflow)) }
func BCC(c *CPU) { c.branch(!c.P.Has(Carry)) }
func BCS(c *CPU) { c.branch(c.P.Has(Carry)) }
func BNE(c *CPU) { c.branch(!c.P.Has(Zero)) }
func BEQ(c *CPU) { c.branch(c.P.Has(Zero)) }

/* stack and control flow */

func PHA(c *CPU) { c.push8(c.A) }
func PLA(c *CPU) { c.setreg(&c.A, c.pull8()) }
func PHP(c *CPU) { c.push8(c.P.ToByte() | Break) }

func PLP(c *CPU) {
	c.P = FromByte(c.pull8())
	c.P.clearFlags(Break)
}

func JMP(c *CPU) { c.jump(c.operand()) }

// JSR pushes the address of the last byte of its operand.
func JSR(c *CPU) {
	target := c.operand()
	c.push16(c.PC + 2)
	c.jump(target)
}

func RTS(c *CPU) { c.jump(c.pull16() + 1) }

func RTI(c *CPU) {
	c.P = FromByte(c.pull8())
	c.jump(c.pull16())
}

// BRK pushes PC and the status with the break bit set, then loads PC from
// the IRQ vector. As BRK occupies one byte in the table and doesn't mark PC
// as explicitly set, execution resumes one byte past the vector target.
func BRK(c *CPU) {
	c.push16(c.PC)
	c.push8(c.P.ToByte() | Break)
	c.P.setFlags(Interrupt)
	c.PC = c.Read16(IRQVector)
}

// NOP reads its operand, if any, and does nothing else.
func NOP(c *CPU) {
	if c.inst.Mode != Implicit {
		c.fetch()
	}
}

// JAM locks the CPU: PC stays on the opcode forever.
func JAM(c *CPU) {
	if !c.jammed {
		log.ModCPU.WarnZ("CPU jammed").
			Hex16("PC", c.PC).
			Hex8("opcode", c.inst.Opcode).
			End()
	}
	c.jammed = true
	c.jump(c.PC)
}

/* unofficial opcodes */

func SLO(c *CPU) { c.ora(c.rmw(c.asl)) }
func RLA(c *CPU) { c.and(c.rmw(c.rol)) }
func SRE(c *CPU) { c.eor(c.rmw(c.lsr)) }
func RRA(c *CPU) { c.adc(c.rmw(c.ror)) }
func DCP(c *CPU) { c.compare(c.A, c.rmw(c.dec)) }
func ISC(c *CPU) { c.sbc(c.rmw(c.inc)) }
func SAX(c *CPU) { c.Write8(c.operand(), c.A&c.X) }

func LAX(c *CPU) {
	LDA(c)
	TAX(c)
}

func ANC(c *CPU) {
	c.and(c.fetch())
	c.P.writeFlag(Carry, c.P.Has(Negative))
}

func ALR(c *CPU) {
	c.and(c.fetch())
	c.A = c.lsr(c.A)
}

func ARR(c *CPU) {
	c.A &= c.fetch()
	c.A = c.A>>1 | c.P.ibit(Carry)<<7
	c.P.checkNZ(c.A)
	c.P.writeFlag(Carry, c.A&0x40 != 0)
	c.P.writeFlag(Overflow, (c.A>>6^c.A>>5)&0x01 != 0)
}

// ANE and LXA are unstable, the magic constants are those observed on most
// NES consoles.
func ANE(c *CPU) { c.setreg(&c.A, (c.A|0xEE)&c.X&c.fetch()) }

func LXA(c *CPU) {
	val := (c.A | 0xFF) & c.fetch()
	c.A = val
	c.setreg(&c.X, val)
}

func SBX(c *CPU) {
	ax := c.A & c.X
	val := c.fetch()
	c.P.writeFlag(Carry, ax >= val)
	c.setreg(&c.X, ax-val)
}

func LAS(c *CPU) {
	val := c.fetch() & c.SP
	c.A, c.SP = val, val
	c.setreg(&c.X, val)
}

func SHA(c *CPU) { c.sh(c.Y, c.A&c.X) }
func SHX(c *CPU) { c.sh(c.Y, c.X) }
func SHY(c *CPU) { c.sh(c.X, c.Y) }

func TAS(c *CPU) {
	c.SP = c.A & c.X
	c.sh(c.Y, c.SP)
}
