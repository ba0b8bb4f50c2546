package main

import (
	"fmt"
	"os"

	"nescore/ines"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		rom, err := ines.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
	case versionMode:
		fmt.Println("nescore", version)
	case runMode:
		checkf(runMain(cli.Run), "emulation failed")
	}
}
