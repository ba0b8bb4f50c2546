package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       P
	SP      uint8
	PC      uint16

	Clock    uint64
	PPUCycle int
	Scanline int
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d disasmer
	w io.Writer
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func appendReg(buf []byte, name string, v byte) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':', 0, 0, ' ')
	hexEncode(buf[len(buf)-3:], v)
	return buf
}

// write the execution trace for current instruction, in the format of the
// nestest log.
func (t *tracer) write(state cpuState) {
	const totalLen = 100

	dis := t.d.Disasm(state.PC)
	buf := make([]byte, 0, totalLen)
	buf = append(buf, dis.Bytes()...)

	buf = appendReg(buf, "A", state.A)
	buf = appendReg(buf, "X", state.X)
	buf = appendReg(buf, "Y", state.Y)
	buf = appendReg(buf, "P", state.P.ToByte())
	buf = appendReg(buf, "SP", state.SP)

	scanline := state.Scanline
	if scanline == NumScanlines-1 {
		scanline = -1
	}

	buf = fmt.Appendf(buf, "PPU:%3d,%3d CYC:%d\n", scanline, state.PPUCycle, state.Clock)
	t.w.Write(buf)
}
