//go:build !unix

package main

import (
	"context"

	"github.com/go-faster/errors"
)

func (kb *keyboard) run(ctx context.Context) error {
	return errors.New("interactive mode is not supported on this platform")
}
