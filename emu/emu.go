package emu

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"nescore/emu/log"
	"nescore/emu/script"
	"nescore/hw"
	"nescore/hw/snapshot"
	"nescore/ines"
)

// ErrStopped is returned by Run when the emulation loop has been stopped
// with Stop.
var ErrStopped = errors.New("emulator stopped")

// Speed sets the pacing of the emulation loop.
type Speed uint8

const (
	Normal Speed = iota // ~60 frames per second
	Half                // ~30 frames per second
	Turbo               // no pacing
)

var speedNames = [...]string{"normal", "half", "turbo"}

func (s Speed) String() string {
	if int(s) < len(speedNames) {
		return speedNames[s]
	}
	return "Speed(?)"
}

func (s Speed) MarshalText() ([]byte, error) {
	if int(s) >= len(speedNames) {
		return nil, errors.Errorf("invalid speed %d", s)
	}
	return []byte(speedNames[s]), nil
}

func (s *Speed) UnmarshalText(text []byte) error {
	for i, name := range speedNames {
		if string(text) == name {
			*s = Speed(i)
			return nil
		}
	}
	return errors.Errorf("unknown speed %q", text)
}

// frameDuration is the wall-clock target interval between 2 frames.
func (s Speed) frameDuration() time.Duration {
	switch s {
	case Normal:
		return 17 * time.Millisecond
	case Half:
		return 32 * time.Millisecond
	}
	return 0
}

// RunState is the state of the emulation loop.
type RunState uint8

const (
	Stopped RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "RunState(?)"
}

// FrameConsumer receives each completed frame (256x240 palette indices). It
// is called synchronously from the emulation loop and must not retain the
// slice. A non-nil error stops the loop.
type FrameConsumer func(frame []uint8) error

type Emulator struct {
	NES *NES

	cfg      EmulationConfig
	consumer FrameConsumer
	script   *script.Script

	mu    sync.Mutex
	cond  *sync.Cond
	state RunState

	// These are accessed concurrently by the emulation loop and its
	// controllers (keyboard, scripts, rpc).
	paused atomic.Bool
	quit   atomic.Bool
	reset  atomic.Bool
	frames atomic.Uint64

	lastFrame time.Time
}

// Launch powers up the console with the given rom. It doesn't start the
// emulation loop, call Run for that.
func Launch(rom *ines.Rom, cfg Config, consumer FrameConsumer) (*Emulator, error) {
	nes, err := powerUp(rom)
	if err != nil {
		return nil, errors.Wrap(err, "power up failed")
	}

	// CPU execution trace setup.
	if cfg.TraceOut != nil {
		nes.CPU.SetTraceOutput(cfg.TraceOut)
	}

	e := newEmulator(nes, cfg.Emulation, consumer)
	if cfg.Emulation.Script != "" {
		e.script, err = script.Load(cfg.Emulation.Script, nes.CPU, nes.Input, e)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func newEmulator(nes *NES, cfg EmulationConfig, consumer FrameConsumer) *Emulator {
	e := &Emulator{
		NES:      nes,
		cfg:      cfg,
		consumer: consumer,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Run runs the emulation loop until Stop is called, ctx is cancelled, the
// configured frame limit is reached, the CPU jams or the frame consumer or
// the script report an error. Reaching the frame limit returns nil.
func (e *Emulator) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Stopped {
		e.mu.Unlock()
		return errors.New("emulator already running")
	}
	e.state = Running
	e.paused.Store(false)
	e.quit.Store(false)
	e.mu.Unlock()

	log.AddContext(e.NES.CPU)
	defer log.RemoveContext(e.NES.CPU)

	stop := context.AfterFunc(ctx, e.Stop)
	defer stop()

	defer func() {
		e.mu.Lock()
		e.state = Stopped
		e.paused.Store(false)
		e.mu.Unlock()
	}()

	log.ModEmu.InfoZ("emulation loop started").Stringer("speed", e.cfg.Speed).End()
	err := e.loop(ctx)
	log.ModEmu.InfoZ("emulation loop exited").Uint64("frames", e.frames.Load()).Error("err", err).End()
	return err
}

func (e *Emulator) loop(ctx context.Context) error {
	e.lastFrame = time.Now()
	for {
		if e.paused.Load() {
			e.waitResume()
		}
		if e.quit.Load() {
			if err := ctx.Err(); err != nil {
				return err
			}
			return ErrStopped
		}

		e.step()

		if e.NES.CPU.Jammed() {
			log.ModEmu.WarnZ("CPU jammed, stopping").Hex16("PC", e.NES.CPU.PC).End()
			return errors.Wrapf(hw.ErrJammed, "PC=$%04X", e.NES.CPU.PC)
		}

		if e.NES.PPU.PollFrame() {
			done, err := e.endFrame()
			if err != nil || done {
				return err
			}
		}
	}
}

// step runs the CPU for one instruction, or one DMA idle cycle, and the PPU
// for 3 dots per CPU cycle.
func (e *Emulator) step() int {
	cpu, ppu := e.NES.CPU, e.NES.PPU

	cost := 1
	if cpu.DMA.Idle() {
		cpu.DMA.Step()
	} else {
		cost = cpu.Tick()
	}

	for range cost * 3 {
		ppu.Tick()
	}
	if ppu.PollNMI() {
		cpu.SetNMI()
	}
	return cost
}

// endFrame delivers the frame and paces the loop. It reports whether the
// frame limit has been reached.
func (e *Emulator) endFrame() (bool, error) {
	n := e.frames.Add(1)

	if e.consumer != nil {
		if err := e.consumer(e.NES.PPU.Frame()); err != nil {
			return false, errors.Wrapf(err, "frame %d", n)
		}
	}
	if e.script != nil {
		if err := e.script.OnFrame(n); err != nil {
			return false, err
		}
	}

	e.pace()
	e.handleReset()

	if e.cfg.FrameLimit != 0 && n >= e.cfg.FrameLimit {
		log.ModEmu.InfoZ("frame limit reached").Uint64("frames", n).End()
		return true, nil
	}
	return false, nil
}

func (e *Emulator) pace() {
	d := e.cfg.Speed.frameDuration()
	if d == 0 {
		return
	}
	if elapsed := time.Since(e.lastFrame); elapsed < d {
		time.Sleep(d - elapsed)
	}
	e.lastFrame = time.Now()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("performing reset").End()
		e.NES.Reset()
	}
}

func (e *Emulator) waitResume() {
	e.mu.Lock()
	for e.state == Paused && !e.quit.Load() {
		e.cond.Wait()
	}
	e.mu.Unlock()
	e.lastFrame = time.Now()
}

// Pause, Resume, Stop and Reset control the emulation loop in a
// concurrent-safe way.

func (e *Emulator) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Running {
		e.state = Paused
		e.paused.Store(true)
		log.ModEmu.InfoZ("paused").End()
	}
}

func (e *Emulator) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Paused {
		e.state = Running
		e.paused.Store(false)
		e.cond.Broadcast()
		log.ModEmu.InfoZ("resumed").End()
	}
}

// TogglePause pauses a running emulator, or resumes a paused one.
func (e *Emulator) TogglePause() {
	if e.RunState() == Paused {
		e.Resume()
	} else {
		e.Pause()
	}
}

func (e *Emulator) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Stopped {
		e.quit.Store(true)
		e.cond.Broadcast()
	}
}

// Reset requests a console reset, performed at the end of the current frame.
func (e *Emulator) Reset() { e.reset.Store(true) }

func (e *Emulator) RunState() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Frames returns the number of frames completed since the emulator started.
func (e *Emulator) Frames() uint64 { return e.frames.Load() }

// State returns a snapshot of the console. The loop must be paused or
// stopped.
func (e *Emulator) State() *snapshot.NES {
	return e.NES.State()
}

// Close releases the resources held by the emulator.
func (e *Emulator) Close() {
	if e.script != nil {
		e.script.Close()
	}
}
