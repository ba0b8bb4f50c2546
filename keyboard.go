package main

import (
	"time"

	"nescore/hw"
)

// Terminals don't report key releases, a pressed button is held for this
// duration after the last key press.
const holdDuration = 150 * time.Millisecond

type controls interface {
	TogglePause()
	Reset()
	Stop()
}

type buttonSetter interface {
	SetButtons(pad int, mask hw.Button)
}

// keyboard controls the emulator and the first controller from the terminal.
type keyboard struct {
	ctrl controls
	pad  buttonSetter
	keys map[byte]hw.Button

	held map[hw.Button]time.Time // release deadlines
	mask hw.Button
}

func newKeyboard(ctrl controls, pad buttonSetter, keys map[byte]hw.Button) *keyboard {
	return &keyboard{
		ctrl: ctrl,
		pad:  pad,
		keys: keys,
		held: make(map[hw.Button]time.Time),
	}
}

// handleKey processes a key press. It reports whether the keyboard reader
// should stop.
func (kb *keyboard) handleKey(c byte, now time.Time) bool {
	switch c {
	case 'p':
		kb.ctrl.TogglePause()
	case 'r':
		kb.ctrl.Reset()
	case 'q', 0x03: // ctrl-c isn't a signal in raw mode
		kb.ctrl.Stop()
		return true
	default:
		if b, ok := kb.keys[c]; ok {
			kb.held[b] = now.Add(holdDuration)
		}
	}
	return false
}

// update releases the buttons whose hold time has elapsed and sends the
// state of the controller if it changed.
func (kb *keyboard) update(now time.Time) {
	var mask hw.Button
	for b, deadline := range kb.held {
		if now.Before(deadline) {
			mask |= b
		} else {
			delete(kb.held, b)
		}
	}
	if mask != kb.mask {
		kb.mask = mask
		kb.pad.SetButtons(0, mask)
	}
}
