package hw

import "nescore/emu/log"

var modDMA = log.NewModule("dma")

// Number of cycles the CPU is stalled after a 256 bytes DMA transfer, one more
// when the transfer starts on an odd CPU cycle.
const dmaStallCycles = 513

// DMA performs 256 bytes block transfers from CPU memory. During the transfer
// the CPU is suspended, the orchestrator consumes the idle cycles one by one
// instead of fetching instructions.
type DMA struct {
	cpu  *CPU
	idle int // remaining idle cycles
}

func (d *DMA) reset() {
	d.idle = 0
}

// Request copies the 256 bytes starting at src into a buffer and arms the
// idle cycle counter.
func (d *DMA) Request(src uint16) [256]byte {
	modDMA.DebugZ("start DMA transfer").
		Hex16("src", src).
		Uint64("cycle", d.cpu.Cycles).
		End()

	var buf [256]byte
	for i := range buf {
		buf[i] = d.cpu.Read8(src + uint16(i))
	}

	d.idle = dmaStallCycles
	if d.cpu.Cycles%2 == 1 {
		d.idle++
	}
	return buf
}

// Idle reports whether the CPU is stalled by a transfer.
func (d *DMA) Idle() bool {
	return d.idle > 0
}

// Step consumes one idle cycle, charged to the CPU clock.
func (d *DMA) Step() {
	d.idle--
	d.cpu.Cycles++
}

// Remaining returns the number of idle cycles left.
func (d *DMA) Remaining() int {
	return d.idle
}
