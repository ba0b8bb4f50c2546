package hw

import (
	"io"

	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/hw/hwio"
	"nescore/hw/snapshot"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// PC is set to this address after a reset if the reset vector is zero,
// it's the automated entry point of test ROMs.
const testOrigin = uint16(0xC000)

// ErrJammed is reported when the CPU executed a JAM opcode.
var ErrJammed = errors.New("CPU jammed")

type CPU struct {
	Bus *hwio.Table

	RAM hwio.Mem

	PPU *PPU // non-nil when there's a PPU, for tracing.
	DMA DMA

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Cycles uint64 // CPU cycles since power up

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	nmi    bool // pending NMI
	jammed bool

	// current instruction state
	inst     *Instruction
	addr     uint16 // resolved operand address
	resolved bool
	jumped   bool  // PC set by the instruction
	extra    uint8 // penalty cycles
}

// NewCPU creates a new CPU at power-up state, on an empty bus.
func NewCPU(ppu *PPU) *CPU {
	cpu := &CPU{
		Bus: hwio.NewTable("cpu"),
		RAM: hwio.Mem{
			Name:  "RAM",
			Data:  make([]byte, 0x800),
			VSize: 0x2000,
		},
		SP:  0xFD,
		P:   0x24,
		PPU: ppu,
	}
	cpu.DMA.cpu = cpu
	return cpu
}

// Reset reinitializes registers, flags and cycle counter, zeroes internal RAM
// and loads PC from the reset vector.
func (c *CPU) Reset() {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = 0xFD
	c.P = 0x24
	c.Cycles = 0
	c.nmi = false
	c.jammed = false
	c.DMA.reset()

	for addr := range uint16(0x2000) {
		c.Bus.Write8(addr, 0x00)
	}

	c.PC = hwio.Read16(c.Bus, ResetVector)
	if c.PC == 0 {
		c.PC = testOrigin
	}

	log.ModCPU.InfoZ("reset").Hex16("PC", c.PC).End()
}

// SetNMI latches a non-maskable interrupt, serviced before the next
// instruction.
func (c *CPU) SetNMI() {
	c.nmi = true
}

func (c *CPU) NMIPending() bool { return c.nmi }

// Jammed reports whether the CPU is locked on a JAM opcode.
func (c *CPU) Jammed() bool { return c.jammed }

// Tick executes one instruction and returns its cycle cost, penalties
// included.
func (c *CPU) Tick() int {
	if c.nmi {
		c.push16(c.PC)
		c.push8(c.P.ToByte())
		c.P.setFlags(Interrupt)
		c.PC = c.Read16(NMIVector)
		c.nmi = false
	}

	if c.tracer != nil {
		c.traceOp()
	}

	opcode := c.Read8(c.PC)
	c.inst = &instructions[opcode]
	c.resolved, c.jumped, c.extra = false, false, 0

	c.inst.exec(c)

	if !c.jumped {
		c.PC += uint16(c.inst.Length)
	}

	cost := int(c.inst.Cycles) + int(c.extra)
	c.Cycles += uint64(cost)

	return cost
}

// TickN executes n instructions and returns the total cycle cost.
func (c *CPU) TickN(n int) int {
	total := 0
	for range n {
		total += c.Tick()
	}
	return total
}

func (c *CPU) jump(addr uint16) {
	c.PC = addr
	c.jumped = true
}

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr, false)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.Write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* tracing / state */

func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w, d: c}
}

func (c *CPU) traceOp() {
	state := cpuState{
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
		PC:    c.PC,
	}
	if c.PPU != nil {
		state.PPUCycle = c.PPU.Cycle
		state.Scanline = c.PPU.Scanline
	}
	c.tracer.write(state)
}

// AddLogContext adds the CPU position to log entries.
func (c *CPU) AddLogContext(z *log.EntryZ) {
	z.Hex16("pc", c.PC).Uint64("cycles", c.Cycles)
}

// State returns a snapshot of the CPU registers and internal RAM.
func (c *CPU) State() *snapshot.CPU {
	s := &snapshot.CPU{
		PC:      c.PC,
		SP:      c.SP,
		P:       c.P.ToByte(),
		A:       c.A,
		X:       c.X,
		Y:       c.Y,
		Cycles:  c.Cycles,
		NMI:     c.nmi,
		DMAIdle: c.DMA.idle,
	}
	copy(s.RAM[:], c.RAM.Data)
	return s
}

// SetState restores a CPU snapshot.
func (c *CPU) SetState(s *snapshot.CPU) {
	c.PC = s.PC
	c.SP = s.SP
	c.P = FromByte(s.P)
	c.A = s.A
	c.X = s.X
	c.Y = s.Y
	c.Cycles = s.Cycles
	c.nmi = s.NMI
	c.DMA.idle = s.DMAIdle
	copy(c.RAM.Data, s.RAM[:])
}
