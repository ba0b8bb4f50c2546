package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/emu/rpc"
	"nescore/ines"
)

// runMain runs the emulator with the given rom until it stops.
func runMain(args Run) error {
	cfgPath := args.Config
	if cfgPath == "" {
		cfgPath = emu.DefaultConfigPath()
	}
	cfg, err := emu.LoadConfigOrDefault(cfgPath)
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, args); err != nil {
		return err
	}

	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return errors.Wrap(err, "error reading ROM")
	}

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	}

	emulator, err := emu.Launch(rom, cfg, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start emulator")
	}
	defer emulator.Close()

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	if args.Statsview {
		launchStatsview(cfg.Video.StatsviewAddr, os.Stdout)
	}

	if args.Port != 0 {
		server, err := rpc.NewServer(args.Port, emulator)
		if err != nil {
			return errors.Wrap(err, "RPC error")
		}
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Ending the emulation ends the keyboard reader.
		defer cancel()

		err := emulator.Run(ctx)
		if errors.Is(err, emu.ErrStopped) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if args.Interactive {
		keys, err := cfg.Input.KeyMap()
		if err != nil {
			return errors.Wrap(err, "input config")
		}
		kb := newKeyboard(emulator, emulator.NES.Input, keys)
		g.Go(func() error { return kb.run(ctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.ModEmu.InfoZ("emulation done").Uint64("frames", emulator.Frames()).End()

	if args.SaveState != "" {
		return saveState(emulator, args.SaveState)
	}
	return nil
}

// applyFlags overrides configuration values with the ones given on the
// command line.
func applyFlags(cfg *emu.Config, args Run) error {
	if args.Speed != "" {
		if err := cfg.Emulation.Speed.UnmarshalText([]byte(args.Speed)); err != nil {
			return err
		}
	}
	if args.Frames != 0 {
		cfg.Emulation.FrameLimit = args.Frames
	}
	if args.Script != "" {
		cfg.Emulation.Script = args.Script
	}
	return nil
}

func saveState(e *emu.Emulator, path string) error {
	buf, err := e.State().MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(err, "save state")
	}
	fmt.Printf("state saved to %s (%d bytes)\n", path, len(buf))
	return nil
}
