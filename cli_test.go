package main

import (
	"os"
	"path/filepath"
	"testing"

	"nescore/emu"
)

func TestApplyFlags(t *testing.T) {
	cfg := emu.DefaultConfig()
	cfg.Emulation.FrameLimit = 10

	err := applyFlags(&cfg, Run{Speed: "turbo", Script: "foo.lua"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Emulation.Speed != emu.Turbo || cfg.Emulation.FrameLimit != 10 || cfg.Emulation.Script != "foo.lua" {
		t.Errorf("got %+v", cfg.Emulation)
	}

	if err := applyFlags(&cfg, Run{Frames: 3}); err != nil {
		t.Fatal(err)
	}
	if cfg.Emulation.Speed != emu.Turbo || cfg.Emulation.FrameLimit != 3 {
		t.Errorf("got %+v", cfg.Emulation)
	}
}

func TestParseArgs(t *testing.T) {
	rom := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(rom, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		mode mode
	}{
		{[]string{rom}, runMode},
		{[]string{"run", "--speed", "half", "--frames", "10", rom}, runMode},
		{[]string{"rom-infos", rom}, romInfosMode},
		{[]string{"version"}, versionMode},
	}
	for _, tt := range tests {
		cli := parseArgs(tt.args)
		if cli.mode != tt.mode {
			t.Errorf("parseArgs(%q) mode = %d, want %d", tt.args, cli.mode, tt.mode)
		}
	}

	cli := parseArgs([]string{"run", "--speed", "half", "--frames", "10", rom})
	if cli.Run.Speed != "half" || cli.Run.Frames != 10 || cli.Run.RomPath != rom {
		t.Errorf("got %+v", cli.Run)
	}
}
