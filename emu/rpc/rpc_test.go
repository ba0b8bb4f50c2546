package rpc

import (
	"io"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/snapshot"
)

type fakeEmu struct {
	mu     sync.Mutex
	calls  []string
	state  emu.RunState
	frames uint64
}

func (f *fakeEmu) record(name string, st emu.RunState) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.state = st
	f.mu.Unlock()
}

func (f *fakeEmu) Pause()         { f.record("pause", emu.Paused) }
func (f *fakeEmu) Resume()        { f.record("resume", emu.Running) }
func (f *fakeEmu) Stop()          { f.record("stop", emu.Stopped) }
func (f *fakeEmu) Reset()         { f.record("reset", f.RunState()) }
func (f *fakeEmu) Frames() uint64 { return f.frames }

func (f *fakeEmu) RunState() emu.RunState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeEmu) State() *snapshot.NES {
	return &snapshot.NES{
		Version: snapshot.Version,
		CPU:     &snapshot.CPU{PC: 0xC000, SP: 0xFD, P: 0x24, Cycles: 1234},
	}
}

func TestClientServer(t *testing.T) {
	log.SetOutput(io.Discard)

	fake := &fakeEmu{state: emu.Running, frames: 42}
	srv, err := NewServer(0, fake)
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	c, err := NewClient(srv.Port())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	frames, err := c.Frames()
	if err != nil || frames != 42 {
		t.Errorf("Frames() = %d, %v, want 42", frames, err)
	}

	// Can't snapshot a running emulator.
	if _, err := c.State(); err == nil {
		t.Errorf("State() of a running emulator should fail")
	}

	if err := c.Pause(); err != nil {
		t.Fatal(err)
	}
	st, err := c.RunState()
	if err != nil || st != "paused" {
		t.Errorf("RunState() = %q, %v, want paused", st, err)
	}

	got, err := c.State()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fake.State(), got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	for _, fn := range []func() error{c.Reset, c.Resume, c.Stop} {
		if err := fn(); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"pause", "reset", "resume", "stop"}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if diff := cmp.Diff(want, fake.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}
