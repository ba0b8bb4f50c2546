package hw

import (
	"strings"
	"sync/atomic"

	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Button is a bit of the standard controller state, in the order the
// buttons are reported on the serial port.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	s := ""
	for i, name := range buttonNames {
		if b&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// ButtonByName returns the button with the given name (case-insensitive).
func ButtonByName(name string) (Button, bool) {
	for i, s := range buttonNames {
		if strings.EqualFold(s, name) {
			return Button(1 << i), true
		}
	}
	return 0, false
}

// InputPorts handles I/O with the 2 standard NES controllers.
type InputPorts struct {
	In  hwio.Reg8 // $4016
	Out hwio.Reg8 // $4017 (reads)

	buttons [2]atomic.Uint32 // written from outside the emulation loop

	prevStrobe, strobe bool     // to observe strobe falling edge.
	state              [2]uint8 // state shift registers.
}

func NewInputPorts() *InputPorts {
	return &InputPorts{
		In:  hwio.Reg8{Name: "IN"},
		Out: hwio.Reg8{Name: "OUT", Flags: hwio.ReadOnlyFlag},
	}
}

// SetButtons sets the pressed buttons of the given pad (0 or 1). It is safe
// to call concurrently with the emulation loop.
func (ip *InputPorts) SetButtons(pad int, mask Button) {
	prev := Button(ip.buttons[pad&1].Swap(uint32(mask)))
	if prev != mask {
		log.ModInput.DebugZ("buttons").Int("pad", pad&1).Stringer("pressed", mask).End()
	}
}

func (ip *InputPorts) hookRegisters(bus *hwio.Table) {
	bus.HookWrite(0x4016, ip.WriteIN)
	bus.HookRead(0x4016, ip.ReadIN)
	bus.HookRead(0x4017, ip.ReadOUT)
}

func (ip *InputPorts) regval(port uint8) uint8 {
	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// After 8 bits are read, all subsequent bits will report 1 on a standard
	// NES controller.
	ip.state[port] |= 0x80

	// Emulate open bus behavior.
	return 0x40 | ret
}

// capture state of both controllers.
func (ip *InputPorts) loadstate() {
	ip.state[0] = uint8(ip.buttons[0].Load())
	ip.state[1] = uint8(ip.buttons[1].Load())
}

// In: $4016
func (ip *InputPorts) WriteIN(_ uint16, val uint8) {
	ip.In.Write8(0x4016, val)
	ip.prevStrobe = ip.strobe
	ip.strobe = val&1 == 1
	if ip.prevStrobe && !ip.strobe {
		ip.loadstate()
	}
}

func (ip *InputPorts) ReadIN(_ uint16) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(0)
}

// Out: $4017
func (ip *InputPorts) ReadOUT(_ uint16) uint8 {
	if ip.strobe {
		ip.loadstate()
	}
	return ip.regval(1)
}
