package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/uartsim/pkg/cli/simcmd"
)

func main() {
	err := simcmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
