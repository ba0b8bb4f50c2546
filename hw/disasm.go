package hw

import "fmt"

type DisasmOp struct {
	Opcode string // mnemonic, prefixed with '*' for unofficial opcodes
	Oper   string
	Buf    []byte
	PC     uint16
}

func (d DisasmOp) String() string {
	return string(d.Bytes())
}

// Bytes returns the string representation of a DisasmOp, this is optimized
// version, suitable for the execution tracer.
func (d DisasmOp) Bytes() []byte {
	const totalLen = 48
	buf := make([]byte, totalLen)

	hexEncode(buf[0:], byte(d.PC>>8))
	hexEncode(buf[2:], byte(d.PC))
	buf[4] = ' '
	buf[5] = ' '

	off := 6
	for i := range d.Buf {
		hexEncode(buf[off:], d.Buf[i])
		buf[off+2] = ' '
		off += 3
	}

	for ; off < 16; off++ {
		buf[off] = ' '
	}

	// The star of unofficial opcodes sits in the last column of the bytes.
	if len(d.Opcode) > 0 && d.Opcode[0] == '*' {
		off--
	}
	off += copy(buf[off:], d.Opcode)
	buf[off] = ' '
	off++

	buf = append(buf[:off], d.Oper...)
	off += len(d.Oper)
	if len(buf) >= totalLen {
		buf = append(buf, ' ')
	} else {
		buf = buf[:totalLen]
		for i := off; i < totalLen; i++ {
			buf[i] = ' '
		}
	}

	return buf
}

// Disasm decodes the instruction at pc. Memory is peeked so disassembling
// has no side effects.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	inst := Lookup(c.Bus.Peek8(pc))

	op := DisasmOp{
		PC:     pc,
		Opcode: inst.Name,
		Buf:    make([]byte, inst.Mode.Size()),
	}
	if inst.Unofficial {
		op.Opcode = "*" + inst.Name
	}
	for i := range op.Buf {
		op.Buf[i] = c.Bus.Peek8(pc + uint16(i))
	}

	var oper8 uint8
	var oper16 uint16
	if len(op.Buf) > 1 {
		oper8 = op.Buf[1]
		oper16 = uint16(oper8)
	}
	if len(op.Buf) > 2 {
		oper16 |= uint16(op.Buf[2]) << 8
	}

	switch inst.Mode {
	case Implicit:
	case Accumulator:
		op.Oper = "A"
	case Immediate:
		op.Oper = fmt.Sprintf("#$%02X", oper8)
	case ZeroPage:
		op.Oper = fmt.Sprintf("$%02X", oper8)
	case ZeroPageX:
		op.Oper = fmt.Sprintf("$%02X,X", oper8)
	case ZeroPageY:
		op.Oper = fmt.Sprintf("$%02X,Y", oper8)
	case Relative:
		op.Oper = fmt.Sprintf("$%04X", pc+2+uint16(int8(oper8)))
	case Absolute:
		op.Oper = formatAddr(oper16)
	case AbsoluteX:
		op.Oper = formatAddr(oper16) + ",X"
	case AbsoluteY:
		op.Oper = formatAddr(oper16) + ",Y"
	case Indirect:
		op.Oper = fmt.Sprintf("($%04X)", oper16)
	case IndexedIndirect:
		op.Oper = fmt.Sprintf("($%02X,X)", oper8)
	case IndirectIndexed:
		op.Oper = fmt.Sprintf("($%02X),Y", oper8)
	}
	return op
}

var addressLabels = map[uint16]string{
	0x2000: "PpuControl_2000",
	0x2001: "PpuMask_2001",
	0x2002: "PpuStatus_2002",
	0x2003: "OamAddr_2003",
	0x2004: "OamData_2004",
	0x2005: "PpuScroll_2005",
	0x2006: "PpuAddr_2006",
	0x2007: "PpuData_2007",
	0x4000: "Sq0Duty_4000",
	0x4001: "Sq0Sweep_4001",
	0x4002: "Sq0Timer_4002",
	0x4003: "Sq0Length_4003",
	0x4004: "Sq1Duty_4004",
	0x4005: "Sq1Sweep_4005",
	0x4006: "Sq1Timer_4006",
	0x4007: "Sq1Length_4007",
	0x4008: "TrgLinear_4008",
	0x400A: "TrgTimer_400A",
	0x400B: "TrgLength_400B",
	0x400C: "NoiseVolume_400C",
	0x400E: "NoisePeriod_400E",
	0x400F: "NoiseLength_400F",
	0x4010: "DmcFreq_4010",
	0x4011: "DmcCounter_4011",
	0x4012: "DmcAddress_4012",
	0x4013: "DmcLength_4013",
	0x4014: "SpriteDma_4014",
	0x4015: "ApuStatus_4015",
	0x4016: "Ctrl1_4016",
	0x4017: "Ctrl2_FrameCtr_4017",
}

func formatAddr(addr uint16) string {
	if label, ok := addressLabels[addr]; ok {
		return label
	}
	return fmt.Sprintf("$%04X", addr)
}
