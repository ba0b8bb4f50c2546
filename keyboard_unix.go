//go:build unix

package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/term"
)

// run reads the keyboard in raw mode until ctx is done or the user quits.
func (kb *keyboard) run(ctx context.Context) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("interactive mode: stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "failed to set raw mode")
	}
	defer term.Restore(fd, oldState)

	// Non-blocking reads let the loop observe ctx.
	if err := syscall.SetNonblock(fd, true); err != nil {
		return errors.Wrap(err, "failed to set nonblocking stdin")
	}
	defer syscall.SetNonblock(fd, false)

	fmt.Print("p: pause/resume  r: reset  q: quit\r\n")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	buf := make([]byte, 16)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		n, err := syscall.Read(fd, buf)
		if err != nil && !errors.Is(err, syscall.EAGAIN) {
			return errors.Wrap(err, "read stdin")
		}

		now := time.Now()
		for _, c := range buf[:max(n, 0)] {
			if kb.handleKey(c, now) {
				return nil
			}
		}
		kb.update(now)
	}
}
