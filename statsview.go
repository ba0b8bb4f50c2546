package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsviewURL = "/debug/statsview"

// launchStatsview starts a goroutine serving live runtime statistics (heap,
// goroutines, GC) at addr.
func launchStatsview(addr string, out io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(out, "stats server available at http://%s%s\n", addr, statsviewURL)
}
