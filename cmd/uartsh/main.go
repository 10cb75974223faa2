package main

import (
	"github.com/robotalks/uartsim/pkg/cli/sh"
	"github.com/robotalks/uartsim/pkg/comm/mqtt"
	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"

	_ "github.com/robotalks/uartsim/pkg/cli/cmds/bench"
)

//go-build: CGO_ENABLED=0

func init() {
	uart.SetupFlags()
	sim.SetupFlags()
	mqtt.SetupFlags()
}

func main() {
	sh.Main()
}
