// Package bench provides shell commands driving the simulated bench.
package bench

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uartsim/pkg/cli/sh"
)

var (
	// SendCmd queues text on a device.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "DEVICE TEXT...",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("DEVICE and TEXT required"))
				return
			}
			text := strings.Join(c.Args[1:], " ")
			if err := sh.ShellFrom(c).Send(c.Args[0], []byte(text)); err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string]int{"queued": len(text)}, fmt.Sprintf("queued %d bytes", len(text)))
		},
	}

	// NoiseCmd injects raw bits into a receive queue.
	NoiseCmd = ishell.Cmd{
		Name: "noise",
		Help: "DEVICE BITS(e.g. 1101)",
		Func: func(c *ishell.Context) {
			p, err := sh.Port(c)
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("BITS required"))
				return
			}
			n, err := sh.ShellFrom(c).Noise(p, c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Output(c, map[string]int{"injected": n}, fmt.Sprintf("injected %d bits", n))
		},
	}

	// RunCmd advances the simulation.
	RunCmd = ishell.Cmd{
		Name:    "run",
		Aliases: []string{"r"},
		Help:    "[TICKS], until idle if omitted",
		Func: func(c *ishell.Context) {
			var n uint64
			if len(c.Args) > 0 {
				val, err := strconv.ParseUint(c.Args[0], 10, 64)
				if err != nil {
					c.Err(fmt.Errorf("Invalid TICKS: %v", err))
					return
				}
				if val == 0 {
					return
				}
				n = val
			}
			res, err := sh.ShellFrom(c).RunTicks(n)
			if err != nil {
				c.Err(err)
				return
			}
			text := fmt.Sprintf("ran %d ticks (total %d)", res.Ticks, res.Total)
			if res.Idle {
				text += ", idle"
			}
			sh.Output(c, res, text)
		},
	}

	// RecvCmd prints and forgets bytes received by a device.
	RecvCmd = ishell.Cmd{
		Name: "recv",
		Help: "DEVICE",
		Func: func(c *ishell.Context) {
			p, err := sh.Port(c)
			if err != nil {
				c.Err(err)
				return
			}
			data := sh.ShellFrom(c).Recv(p)
			sh.Output(c, map[string]string{"data": string(data)}, strconv.Quote(string(data)))
		},
	}

	// StatusCmd prints the state of both devices.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Func: func(c *ishell.Context) {
			list := sh.ShellFrom(c).Status()
			var lines []string
			for _, st := range list {
				lines = append(lines, fmt.Sprintf("%s: %d baud %s clock=%.6fs tx=%d rx=%d queued=%d",
					st.Device, st.BaudRate, st.State, st.Clock, st.TxPending, st.RxPending, st.Queued))
			}
			sh.Output(c, list, strings.Join(lines, "\n"))
		},
	}

	// StatsCmd prints the counters of both devices.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Func: func(c *ishell.Context) {
			list := sh.ShellFrom(c).Stats()
			var lines []string
			for _, st := range list {
				lines = append(lines, fmt.Sprintf("%s: sent=%d received=%d framing=%d underruns=%d/%d lost=%d overflow=%d resets=%d attempts=%d",
					st.Device, st.FramesSent, st.BytesReceived, st.FramingErrors,
					st.TxUnderruns, st.RxUnderruns, st.BitsLost, st.TxOverflow, st.Resets, st.RxAttempts))
			}
			sh.Output(c, list, strings.Join(lines, "\n"))
		},
	}

	// ResetCmd resets both devices.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Func: func(c *ishell.Context) {
			sh.ShellFrom(c).Reset()
			sh.Output(c, map[string]bool{"reset": true}, "OK")
		},
	}

	// TraceCmd toggles event printing.
	TraceCmd = ishell.Cmd{
		Name: "trace",
		Help: "on|off",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) > 0 {
				switch c.Args[0] {
				case "on":
					s.Trace = true
				case "off":
					s.Trace = false
				default:
					c.Err(fmt.Errorf("on or off expected"))
					return
				}
			}
			sh.Output(c, map[string]bool{"trace": s.Trace}, fmt.Sprintf("trace %v", s.Trace))
		},
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&NoiseCmd,
		&RunCmd,
		&RecvCmd,
		&StatusCmd,
		&StatsCmd,
		&ResetCmd,
		&TraceCmd,
	)
}
