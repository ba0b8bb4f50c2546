package hw

// Instruction describes an opcode of the instruction set.
type Instruction struct {
	Opcode uint8
	Name   string
	Mode   AddrMode

	// Length is the number of bytes PC advances after execution. It's 0 for
	// instructions setting PC themselves.
	Length uint8

	// Cycles is the base cycle cost of the instruction. When PageCheck is
	// set, indexing across a page costs one more cycle.
	Cycles    uint8
	PageCheck bool

	// Unofficial opcodes, not part of the documented instruction set.
	Unofficial bool

	exec func(*CPU)
}

// Lookup returns the instruction decoded from opcode.
func Lookup(opcode uint8) *Instruction {
	return &instructions[opcode]
}

func op(name string, mode AddrMode, cycles uint8, f func(*CPU)) Instruction {
	return Instruction{Name: name, Mode: mode, Length: mode.Size(), Cycles: cycles, exec: f}
}

// opp is an op paying the page crossing penalty.
func opp(name string, mode AddrMode, cycles uint8, f func(*CPU)) Instruction {
	in := op(name, mode, cycles, f)
	in.PageCheck = true
	return in
}

func unof(name string, mode AddrMode, cycles uint8, f func(*CPU)) Instruction {
	in := op(name, mode, cycles, f)
	in.Unofficial = true
	return in
}

func unofp(name string, mode AddrMode, cycles uint8, f func(*CPU)) Instruction {
	in := opp(name, mode, cycles, f)
	in.Unofficial = true
	return in
}

// flow is a control flow instruction which sets PC explicitly.
func flow(name string, mode AddrMode, length, cycles uint8, f func(*CPU)) Instruction {
	return Instruction{Name: name, Mode: mode, Length: length, Cycles: cycles, exec: f}
}

var jam = unof("JAM", Implicit, 2, JAM)

var instructions = [256]Instruction{
	0x00: flow("BRK", Implicit, 1, 7, BRK),
	0x01: op("ORA", IndexedIndirect, 6, ORA),
	0x02: jam,
	0x03: unof("SLO", IndexedIndirect, 8, SLO),
	0x04: unof("NOP", ZeroPage, 3, NOP),
	0x05: op("ORA", ZeroPage, 3, ORA),
	0x06: op("ASL", ZeroPage, 5, ASL),
	0x07: unof("SLO", ZeroPage, 5, SLO),
	0x08: op("PHP", Implicit, 3, PHP),
	0x09: op("ORA", Immediate, 2, ORA),
	0x0A: op("ASL", Accumulator, 2, ASLacc),
	0x0B: unof("ANC", Immediate, 2, ANC),
	0x0C: unof("NOP", Absolute, 4, NOP),
	0x0D: op("ORA", Absolute, 4, ORA),
	0x0E: op("ASL", Absolute, 6, ASL),
	0x0F: unof("SLO", Absolute, 6, SLO),
	0x10: opp("BPL", Relative, 2, BPL),
	0x11: opp("ORA", IndirectIndexed, 5, ORA),
	0x12: jam,
	0x13: unof("SLO", IndirectIndexed, 8, SLO),
	0x14: unof("NOP", ZeroPageX, 4, NOP),
	0x15: op("ORA", ZeroPageX, 4, ORA),
	0x16: op("ASL", ZeroPageX, 6, ASL),
	0x17: unof("SLO", ZeroPageX, 6, SLO),
	0x18: op("CLC", Implicit, 2, CLC),
	0x19: opp("ORA", AbsoluteY, 4, ORA),
	0x1A: unof("NOP", Implicit, 2, NOP),
	0x1B: unof("SLO", AbsoluteY, 7, SLO),
	0x1C: unofp("NOP", AbsoluteX, 4, NOP),
	0x1D: opp("ORA", AbsoluteX, 4, ORA),
	0x1E: op("ASL", AbsoluteX, 7, ASL),
	0x1F: unof("SLO", AbsoluteX, 7, SLO),
	0x20: flow("JSR", Absolute, 0, 6, JSR),
	0x21: op("AND", IndexedIndirect, 6, AND),
	0x22: jam,
	0x23: unof("RLA", IndexedIndirect, 8, RLA),
	0x24: op("BIT", ZeroPage, 3, BIT),
	0x25: op("AND", ZeroPage, 3, AND),
	0x26: op("ROL", ZeroPage, 5, ROL),
	0x27: unof("RLA", ZeroPage, 5, RLA),
	0x28: op("PLP", Implicit, 4, PLP),
	0x29: op("AND", Immediate, 2, AND),
	0x2A: op("ROL", Accumulator, 2, ROLacc),
	0x2B: unof("ANC", Immediate, 2, ANC),
	0x2C: op("BIT", Absolute, 4, BIT),
	0x2D: op("AND", Absolute, 4, AND),
	0x2E: op("ROL", Absolute, 6, ROL),
	0x2F: unof("RLA", Absolute, 6, RLA),
	0x30: opp("BMI", Relative, 2, BMI),
	0x31: opp("AND", IndirectIndexed, 5, AND),
	0x32: jam,
	0x33: unof("RLA", IndirectIndexed, 8, RLA),
	0x34: unof("NOP", ZeroPageX, 4, NOP),
	0x35: op("AND", ZeroPageX, 4, AND),
	0x36: op("ROL", ZeroPageX, 6, ROL),
	0x37: unof("RLA", ZeroPageX, 6, RLA),
	0x38: op("SEC", Implicit, 2, SEC),
	0x39: opp("AND", AbsoluteY, 4, AND),
	0x3A: unof("NOP", Implicit, 2, NOP),
	0x3B: unof("RLA", AbsoluteY, 7, RLA),
	0x3C: unofp("NOP", AbsoluteX, 4, NOP),
	0x3D: opp("AND", AbsoluteX, 4, AND),
	0x3E: op("ROL", AbsoluteX, 7, ROL),
	0x3F: unof("RLA", AbsoluteX, 7, RLA),
	0x40: flow("RTI", Implicit, 0, 6, RTI),
	0x41: op("EOR", IndexedIndirect, 6, EOR),
	0x42: jam,
	0x43: unof("SRE", IndexedIndirect, 8, SRE),
	0x44: unof("NOP", ZeroPage, 3, NOP),
	0x45: op("EOR", ZeroPage, 3, EOR),
	0x46: op("LSR", ZeroPage, 5, LSR),
	0x47: unof("SRE", ZeroPage, 5, SRE),
	0x48: op("PHA", Implicit, 3, PHA),
	0x49: op("EOR", Immediate, 2, EOR),
	0x4A: op("LSR", Accumulator, 2, LSRacc),
	0x4B: unof("ALR", Immediate, 2, ALR),
	0x4C: flow("JMP", Absolute, 0, 3, JMP),
	0x4D: op("EOR", Absolute, 4, EOR),
	0x4E: op("LSR", Absolute, 6, LSR),
	0x4F: unof("SRE", Absolute, 6, SRE),
	0x50: opp("BVC", Relative, 2, BVC),
	0x51: opp("EOR", IndirectIndexed, 5, EOR),
	0x52: jam,
	0x53: unof("SRE", IndirectIndexed, 8, SRE),
	0x54: unof("NOP", ZeroPageX, 4, NOP),
	0x55: op("EOR", ZeroPageX, 4, EOR),
	0x56: op("LSR", ZeroPageX, 6, LSR),
	0x57: unof("SRE", ZeroPageX, 6, SRE),
	0x58: op("CLI", Implicit, 2, CLI),
	0x59: opp("EOR", AbsoluteY, 4, EOR),
	0x5A: unof("NOP", Implicit, 2, NOP),
	0x5B: unof("SRE", AbsoluteY, 7, SRE),
	0x5C: unofp("NOP", AbsoluteX, 4, NOP),
	0x5D: opp("EOR", AbsoluteX, 4, EOR),
	0x5E: op("LSR", AbsoluteX, 7, LSR),
	0x5F: unof("SRE", AbsoluteX, 7, SRE),
	0x60: flow("RTS", Implicit, 0, 6, RTS),
	0x61: op("ADC", IndexedIndirect, 6, ADC),
	0x62: jam,
	0x63: unof("RRA", IndexedIndirect, 8, RRA),
	0x64: unof("NOP", ZeroPage, 3, NOP),
	0x65: op("ADC", ZeroPage, 3, ADC),
	0x66: op("ROR", ZeroPage, 5, ROR),
	0x67: unof("RRA", ZeroPage, 5, RRA),
	0x68: op("PLA", Implicit, 4, PLA),
	0x69: op("ADC", Immediate, 2, ADC),
	0x6A: op("ROR", Accumulator, 2, RORacc),
	0x6B: unof("ARR", Immediate, 2, ARR),
	0x6C: flow("JMP", Indirect, 0, 5, JMP),
	0x6D: op("ADC", Absolute, 4, ADC),
	0x6E: op("ROR", Absolute, 6, ROR),
	0x6F: unof("RRA", Absolute, 6, RRA),
	0x70: opp("BVS", Relative, 2, BVS),
	0x71: opp("ADC", IndirectIndexed, 5, ADC),
	0x72: jam,
	0x73: unof("RRA", IndirectIndexed, 8, RRA),
	0x74: unof("NOP", ZeroPageX, 4, NOP),
	0x75: op("ADC", ZeroPageX, 4, ADC),
	0x76: op("ROR", ZeroPageX, 6, ROR),
	0x77: unof("RRA", ZeroPageX, 6, RRA),
	0x78: op("SEI", Implicit, 2, SEI),
	0x79: opp("ADC", AbsoluteY, 4, ADC),
	0x7A: unof("NOP", Implicit, 2, NOP),
	0x7B: unof("RRA", AbsoluteY, 7, RRA),
	0x7C: unofp("NOP", AbsoluteX, 4, NOP),
	0x7D: opp("ADC", AbsoluteX, 4, ADC),
	0x7E: op("ROR", AbsoluteX, 7, ROR),
	0x7F: unof("RRA", AbsoluteX, 7, RRA),
	0x80: unof("NOP", Immediate, 2, NOP),
	0x81: op("STA", IndexedIndirect, 6, STA),
	0x82: unof("NOP", Immediate, 2, NOP),
	0x83: unof("SAX", IndexedIndirect, 6, SAX),
	0x84: op("STY", ZeroPage, 3, STY),
	0x85: op("STA", ZeroPage, 3, STA),
	0x86: op("STX", ZeroPage, 3, STX),
	0x87: unof("SAX", ZeroPage, 3, SAX),
	0x88: op("DEY", Implicit, 2, DEY),
	0x89: unof("NOP", Immediate, 2, NOP),
	0x8A: op("TXA", Implicit, 2, TXA),
	0x8B: unof("ANE", Immediate, 2, ANE),
	0x8C: op("STY", Absolute, 4, STY),
	0x8D: op("STA", Absolute, 4, STA),
	0x8E: op("STX", Absolute, 4, STX),
	0x8F: unof("SAX", Absolute, 4, SAX),
	0x90: opp("BCC", Relative, 2, BCC),
	0x91: op("STA", IndirectIndexed, 6, STA),
	0x92: jam,
	0x93: unof("SHA", IndirectIndexed, 6, SHA),
	0x94: op("STY", ZeroPageX, 4, STY),
	0x95: op("STA", ZeroPageX, 4, STA),
	0x96: op("STX", ZeroPageY, 4, STX),
	0x97: unof("SAX", ZeroPageY, 4, SAX),
	0x98: op("TYA", Implicit, 2, TYA),
	0x99: op("STA", AbsoluteY, 5, STA),
	0x9A: op("TXS", Implicit, 2, TXS),
	0x9B: unof("TAS", AbsoluteY, 5, TAS),
	0x9C: unof("SHY", AbsoluteX, 5, SHY),
	0x9D: op("STA", AbsoluteX, 5, STA),
	0x9E: unof("SHX", AbsoluteY, 5, SHX),
	0x9F: unof("SHA", AbsoluteY, 5, SHA),
	0xA0: op("LDY", Immediate, 2, LDY),
	0xA1: op("LDA", IndexedIndirect, 6, LDA),
	0xA2: op("LDX", Immediate, 2, LDX),
	0xA3: unof("LAX", IndexedIndirect, 6, LAX),
	0xA4: op("LDY", ZeroPage, 3, LDY),
	0xA5: op("LDA", ZeroPage, 3, LDA),
	0xA6: op("LDX", ZeroPage, 3, LDX),
	0xA7: unof("LAX", ZeroPage, 3, LAX),
	0xA8: op("TAY", Implicit, 2, TAY),
	0xA9: op("LDA", Immediate, 2, LDA),
	0xAA: op("TAX", Implicit, 2, TAX),
	0xAB: unof("LXA", Immediate, 2, LXA),
	0xAC: op("LDY", Absolute, 4, LDY),
	0xAD: op("LDA", Absolute, 4, LDA),
	0xAE: op("LDX", Absolute, 4, LDX),
	0xAF: unof("LAX", Absolute, 4, LAX),
	0xB0: opp("BCS", Relative, 2, BCS),
	0xB1: opp("LDA", IndirectIndexed, 5, LDA),
	0xB2: jam,
	0xB3: unofp("LAX", IndirectIndexed, 5, LAX),
	0xB4: op("LDY", ZeroPageX, 4, LDY),
	0xB5: op("LDA", ZeroPageX, 4, LDA),
	0xB6: op("LDX", ZeroPageY, 4, LDX),
	0xB7: unof("LAX", ZeroPageY, 4, LAX),
	0xB8: op("CLV", Implicit, 2, CLV),
	0xB9: opp("LDA", AbsoluteY, 4, LDA),
	0xBA: op("TSX", Implicit, 2, TSX),
	0xBB: unofp("LAS", AbsoluteY, 4, LAS),
	0xBC: opp("LDY", AbsoluteX, 4, LDY),
	0xBD: opp("LDA", AbsoluteX, 4, LDA),
	0xBE: opp("LDX", AbsoluteY, 4, LDX),
	0xBF: unofp("LAX", AbsoluteY, 4, LAX),
	0xC0: op("CPY", Immediate, 2, CPY),
	0xC1: op("CMP", IndexedIndirect, 6, CMP),
	0xC2: unof("NOP", Immediate, 2, NOP),
	0xC3: unof("DCP", IndexedIndirect, 8, DCP),
	0xC4: op("CPY", ZeroPage, 3, CPY),
	0xC5: op("CMP", ZeroPage, 3, CMP),
	0xC6: op("DEC", ZeroPage, 5, DEC),
	0xC7: unof("DCP", ZeroPage, 5, DCP),
	0xC8: op("INY", Implicit, 2, INY),
	0xC9: op("CMP", Immediate, 2, CMP),
	0xCA: op("DEX", Implicit, 2, DEX),
	0xCB: unof("SBX", Immediate, 2, SBX),
	0xCC: op("CPY", Absolute, 4, CPY),
	0xCD: op("CMP", Absolute, 4, CMP),
	0xCE: op("DEC", Absolute, 6, DEC),
	0xCF: unof("DCP", Absolute, 6, DCP),
	0xD0: opp("BNE", Relative, 2, BNE),
	0xD1: opp("CMP", IndirectIndexed, 5, CMP),
	0xD2: jam,
	0xD3: unof("DCP", IndirectIndexed, 8, DCP),
	0xD4: unof("NOP", ZeroPageX, 4, NOP),
	0xD5: op("CMP", ZeroPageX, 4, CMP),
	0xD6: op("DEC", ZeroPageX, 6, DEC),
	0xD7: unof("DCP", ZeroPageX, 6, DCP),
	0xD8: op("CLD", Implicit, 2, CLD),
	0xD9: opp("CMP", AbsoluteY, 4, CMP),
	0xDA: unof("NOP", Implicit, 2, NOP),
	0xDB: unof("DCP", AbsoluteY, 7, DCP),
	0xDC: unofp("NOP", AbsoluteX, 4, NOP),
	0xDD: opp("CMP", AbsoluteX, 4, CMP),
	0xDE: op("DEC", AbsoluteX, 7, DEC),
	0xDF: unof("DCP", AbsoluteX, 7, DCP),
	0xE0: op("CPX", Immediate, 2, CPX),
	0xE1: op("SBC", IndexedIndirect, 6, SBC),
	0xE2: unof("NOP", Immediate, 2, NOP),
	0xE3: unof("ISC", IndexedIndirect, 8, ISC),
	0xE4: op("CPX", ZeroPage, 3, CPX),
	0xE5: op("SBC", ZeroPage, 3, SBC),
	0xE6: op("INC", ZeroPage, 5, INC),
	0xE7: unof("ISC", ZeroPage, 5, ISC),
	0xE8: op("INX", Implicit, 2, INX),
	0xE9: op("SBC", Immediate, 2, SBC),
	0xEA: op("NOP", Implicit, 2, NOP),
	0xEB: unof("SBC", Immediate, 2, SBC),
	0xEC: op("CPX", Absolute, 4, CPX),
	0xED: op("SBC", Absolute, 4, SBC),
	0xEE: op("INC", Absolute, 6, INC),
	0xEF: unof("ISC", Absolute, 6, ISC),
	0xF0: opp("BEQ", Relative, 2, BEQ),
	0xF1: opp("SBC", IndirectIndexed, 5, SBC),
	0xF2: jam,
	0xF3: unof("ISC", IndirectIndexed, 8, ISC),
	0xF4: unof("NOP", ZeroPageX, 4, NOP),
	0xF5: op("SBC", ZeroPageX, 4, SBC),
	0xF6: op("INC", ZeroPageX, 6, INC),
	0xF7: unof("ISC", ZeroPageX, 6, ISC),
	0xF8: op("SED", Implicit, 2, SED),
	0xF9: opp("SBC", AbsoluteY, 4, SBC),
	0xFA: unof("NOP", Implicit, 2, NOP),
	0xFB: unof("ISC", AbsoluteY, 7, ISC),
	0xFC: unofp("NOP", AbsoluteX, 4, NOP),
	0xFD: opp("SBC", AbsoluteX, 4, SBC),
	0xFE: op("INC", AbsoluteX, 7, INC),
	0xFF: unof("ISC", AbsoluteX, 7, ISC),
}

func init() {
	for i := range instructions {
		instructions[i].Opcode = uint8(i)
	}
}
