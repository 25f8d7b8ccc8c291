// Command mxl interprets programs of integer scalars and integer matrices.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/mxl/cli"
)

func main() {
	var stop context.CancelFunc
	mxl.SignalContext, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	cli.Execute()
	stop()
	mxl.Exit(0)
}
