// Package script runs Lua scripts alongside the emulation loop.
//
// A script may define a global on_frame(n) function, called after each frame
// with the number of frames completed so far. The following tables are
// available:
//
//	memory.readbyte(addr)        read a byte from the CPU bus (no side effects)
//	memory.writebyte(addr, val)  write a byte on the CPU bus
//	cpu.registers()              table with a, x, y, sp, pc, p and cycles
//	emu.framecount()             number of frames completed
//	emu.pause()                  pause emulation after the current frame
//	emu.stop()                   stop emulation
//	joypad.set(pad, mask)        set the pressed buttons of pad 1 or 2
package script

import (
	"github.com/go-faster/errors"
	lua "github.com/yuin/gopher-lua"

	"nescore/emu/log"
	"nescore/hw"
)

var modScript = log.NewModule("script")

// Host is the part of the emulator controllable from scripts.
type Host interface {
	Pause()
	Stop()
	Frames() uint64
}

type Script struct {
	L       *lua.LState
	name    string
	cpu     *hw.CPU
	input   *hw.InputPorts
	host    Host
	onFrame *lua.LFunction
}

// Load loads and runs the script at path.
func Load(path string, cpu *hw.CPU, input *hw.InputPorts, host Host) (*Script, error) {
	s := newScript(path, cpu, input, host)
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "script %s", path)
	}
	s.lookupCallbacks()
	return s, nil
}

// LoadString is like Load but reads the script from src.
func LoadString(name, src string, cpu *hw.CPU, input *hw.InputPorts, host Host) (*Script, error) {
	s := newScript(name, cpu, input, host)
	if err := s.L.DoString(src); err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "script %s", name)
	}
	s.lookupCallbacks()
	return s, nil
}

func newScript(name string, cpu *hw.CPU, input *hw.InputPorts, host Host) *Script {
	s := &Script{
		L:     lua.NewState(),
		name:  name,
		cpu:   cpu,
		input: input,
		host:  host,
	}
	s.register("memory", map[string]lua.LGFunction{
		"readbyte":  s.readbyte,
		"writebyte": s.writebyte,
	})
	s.register("cpu", map[string]lua.LGFunction{
		"registers": s.registers,
	})
	s.register("emu", map[string]lua.LGFunction{
		"framecount": s.framecount,
		"pause":      s.pause,
		"stop":       s.stop,
	})
	s.register("joypad", map[string]lua.LGFunction{
		"set": s.joypadSet,
	})
	return s
}

func (s *Script) register(name string, funcs map[string]lua.LGFunction) {
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

func (s *Script) lookupCallbacks() {
	if fn, ok := s.L.GetGlobal("on_frame").(*lua.LFunction); ok {
		s.onFrame = fn
	}
	modScript.InfoZ("script loaded").String("name", s.name).Bool("on_frame", s.onFrame != nil).End()
}

// OnFrame calls the script on_frame callback, if any.
func (s *Script) OnFrame(n uint64) error {
	if s.onFrame == nil {
		return nil
	}
	err := s.L.CallByParam(lua.P{
		Fn:      s.onFrame,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(n))
	if err != nil {
		return errors.Wrapf(err, "script %s: on_frame", s.name)
	}
	return nil
}

func (s *Script) Close() {
	s.L.Close()
}

func checkAddr(L *lua.LState, n int) uint16 {
	addr := L.CheckInt(n)
	if addr < 0 || addr > 0xFFFF {
		L.ArgError(n, "address out of range")
	}
	return uint16(addr)
}

func (s *Script) readbyte(L *lua.LState) int {
	addr := checkAddr(L, 1)
	L.Push(lua.LNumber(s.cpu.Bus.Peek8(addr)))
	return 1
}

func (s *Script) writebyte(L *lua.LState) int {
	addr := checkAddr(L, 1)
	val := L.CheckInt(2)
	s.cpu.Write8(addr, uint8(val))
	return 0
}

func (s *Script) registers(L *lua.LState) int {
	c := s.cpu
	t := L.NewTable()
	t.RawSetString("a", lua.LNumber(c.A))
	t.RawSetString("x", lua.LNumber(c.X))
	t.RawSetString("y", lua.LNumber(c.Y))
	t.RawSetString("sp", lua.LNumber(c.SP))
	t.RawSetString("pc", lua.LNumber(c.PC))
	t.RawSetString("p", lua.LNumber(c.P.ToByte()))
	t.RawSetString("cycles", lua.LNumber(c.Cycles))
	L.Push(t)
	return 1
}

func (s *Script) framecount(L *lua.LState) int {
	L.Push(lua.LNumber(s.host.Frames()))
	return 1
}

func (s *Script) pause(L *lua.LState) int {
	s.host.Pause()
	return 0
}

func (s *Script) stop(L *lua.LState) int {
	s.host.Stop()
	return 0
}

func (s *Script) joypadSet(L *lua.LState) int {
	pad := L.CheckInt(1)
	if pad != 1 && pad != 2 {
		L.ArgError(1, "pad must be 1 or 2")
	}
	mask := L.CheckInt(2)
	s.input.SetButtons(pad-1, hw.Button(mask))
	return 0
}
