package sh

import (
	"context"
	"fmt"

	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

// Session is a bench driven step by step by shell commands.
type Session struct {
	Config *sim.Config
	Bench  *sim.Bench
	Loop   *fx.Loop
}

// PortStatus is the live state of a device.
type PortStatus struct {
	Device    string  `json:"device"`
	BaudRate  uint32  `json:"baud_rate"`
	State     string  `json:"state"`
	Clock     float64 `json:"clock"`
	TxPending int     `json:"tx_pending"`
	RxPending int     `json:"rx_pending"`
	Queued    int     `json:"queued"`
}

// PortStats is the counters of a device.
type PortStats struct {
	Device     string `json:"device"`
	RxAttempts uint64 `json:"rx_attempts"`
	uart.Stats
}

// RunResult is the outcome of a run command.
type RunResult struct {
	Ticks uint64 `json:"ticks"`
	Total uint64 `json:"total"`
	Idle  bool   `json:"idle"`
}

// NewSession creates a session on bench.
func NewSession(bench *sim.Bench, conf *sim.Config) *Session {
	return &Session{
		Config: conf,
		Bench:  bench,
		Loop:   fx.NewLoop().WithTimeStep(conf.TimeStep).Add(bench),
	}
}

// Send queues text on a device, it's loaded on the next tick.
func (s *Session) Send(device string, data []byte) error {
	if _, err := s.Bench.Port(device); err != nil {
		return err
	}
	s.Loop.PostMessage(&sim.SendMsg{Device: device, Data: data})
	return nil
}

// Noise injects raw bits like "0110" into the receive queue of p
// and returns how many fit.
func (s *Session) Noise(p *sim.Port, bits string) (int, error) {
	seq, err := ParseBits(bits)
	if err != nil {
		return 0, err
	}
	return p.Device.InjectReceive(seq...), nil
}

// ParseBits parses a string of 0 and 1.
func ParseBits(str string) ([]uart.Bit, error) {
	bits := make([]uart.Bit, 0, len(str))
	for _, ch := range str {
		switch ch {
		case '0':
			bits = append(bits, uart.Low)
		case '1':
			bits = append(bits, uart.High)
		default:
			return nil, fmt.Errorf("invalid bit %q", ch)
		}
	}
	return bits, nil
}

// RunTicks runs n ticks, or until the bench is idle within the tick budget
// when n is 0.
func (s *Session) RunTicks(n uint64) (*RunResult, error) {
	untilIdle := n == 0
	if untilIdle {
		n = s.Config.MaxTicks
		if n == 0 {
			n = sim.DefaultMaxTicks
		}
	}
	s.Bench.StopWhenIdle = untilIdle
	defer func() { s.Bench.StopWhenIdle = false }()
	start := s.Loop.Ticks()
	err := s.Loop.RunFor(context.Background(), n)
	return &RunResult{
		Ticks: s.Loop.Ticks() - start,
		Total: s.Loop.Ticks(),
		Idle:  s.Bench.Idle(),
	}, err
}

// Recv returns and forgets the bytes a device has received.
func (s *Session) Recv(p *sim.Port) []byte {
	return p.Device.DrainReceived()
}

// Status returns the state of both devices.
func (s *Session) Status() []PortStatus {
	var list []PortStatus
	for _, p := range []*sim.Port{s.Bench.A, s.Bench.B} {
		d := p.Device
		list = append(list, PortStatus{
			Device:    d.Name(),
			BaudRate:  d.Config().BaudRate,
			State:     d.State().String(),
			Clock:     d.Clock(),
			TxPending: d.TxPending(),
			RxPending: d.RxPending(),
			Queued:    p.Feeder.Pending(),
		})
	}
	return list
}

// Stats returns the counters of both devices.
func (s *Session) Stats() []PortStats {
	var list []PortStats
	for _, p := range []*sim.Port{s.Bench.A, s.Bench.B} {
		list = append(list, PortStats{
			Device:     p.Device.Name(),
			RxAttempts: p.RxAttempts,
			Stats:      p.Device.Stats(),
		})
	}
	return list
}

// Reset resets the bench. Queued sends are kept.
func (s *Session) Reset() {
	s.Bench.Reset()
}
