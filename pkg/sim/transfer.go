package sim

import (
	"context"

	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/uart"
)

// Scenario describes a one-way transfer from device a to device b.
type Scenario struct {
	Name    string
	A       uart.Config
	B       uart.Config
	Message []byte
	Feed    FeedPolicy
	Config  Config
}

// NewScenario creates a scenario with both devices on conf and defaults
// for everything else.
func NewScenario(name string, conf uart.Config, msg []byte) *Scenario {
	return &Scenario{
		Name:    name,
		A:       conf,
		B:       conf,
		Message: msg,
		Config:  *NewConfig(),
	}
}

// NewBench creates the bench of the scenario with Message queued on a.
func (sc *Scenario) NewBench() (*Bench, error) {
	b, err := NewBench(sc.Name, sc.A, sc.B, &sc.Config, sc.Feed)
	if err != nil {
		return nil, err
	}
	b.StopWhenIdle = true
	b.A.Feeder.Queue(sc.Message)
	return b, nil
}

// NewLoop creates a Loop configured by the scenario.
func (sc *Scenario) NewLoop() *fx.Loop {
	l := fx.NewLoop().WithTimeStep(sc.Config.TimeStep).WithMaxTicks(sc.Config.MaxTicks)
	l.Interval = sc.Config.Interval
	return l
}

// Result summarizes a transfer.
type Result struct {
	Name     string
	A        uart.Config
	B        uart.Config
	Sent     []byte
	Received []byte
	// Intact is the length of the longest common subsequence of
	// Sent and Received.
	Intact        int
	FramingErrors uint64
	TxUnderruns   uint64
	RxUnderruns   uint64
	BitsLost      uint64
	// StateResets counts frames the receiver discarded.
	StateResets uint64
	// Attempts counts receiver steps taken in a receiving state.
	Attempts  uint64
	IdleTicks uint64
	Ticks     uint64
	// Completed is false when the tick budget ran out first.
	Completed bool
	// TimingRatio is the frame period of a over that of b.
	TimingRatio float64
	StatsA      uart.Stats
	StatsB      uart.Stats
}

// Decoded is the number of bytes b reconstructed, garbled or not.
func (r *Result) Decoded() int {
	return len(r.Received)
}

// CompletionRate is Intact over the length of Sent, 1 for an empty message.
func (r *Result) CompletionRate() float64 {
	if len(r.Sent) == 0 {
		return 1
	}
	return float64(r.Intact) / float64(len(r.Sent))
}

// Result collects the outcome of sending sent from a to b.
func (b *Bench) Result(sent []byte) *Result {
	a, rx := b.A.Device, b.B.Device
	received := append([]byte(nil), rx.Received()...)
	statsA, statsB := a.Stats(), rx.Stats()
	return &Result{
		Name:          b.Name,
		A:             a.Config(),
		B:             rx.Config(),
		Sent:          sent,
		Received:      received,
		Intact:        CommonLength(sent, received),
		FramingErrors: statsB.FramingErrors,
		TxUnderruns:   statsA.TxUnderruns,
		RxUnderruns:   statsB.RxUnderruns,
		BitsLost:      statsA.BitsLost,
		StateResets:   statsB.Resets,
		Attempts:      b.B.RxAttempts,
		IdleTicks:     b.idleTicks,
		Ticks:         b.ticks,
		Completed:     b.completed,
		TimingRatio:   a.TimePerByte() / rx.TimePerByte(),
		StatsA:        statsA,
		StatsB:        statsB,
	}
}

// Transfer runs the scenario until b has decoded everything it can or the
// tick budget runs out. Running out of budget isn't an error, it's
// reported by Result.Completed.
func Transfer(ctx context.Context, sc *Scenario, listeners ...EventListener) (*Result, error) {
	bench, err := sc.NewBench()
	if err != nil {
		return nil, err
	}
	for _, ln := range listeners {
		bench.SubscribeEvents(ln)
	}
	err = sc.NewLoop().Add(bench).Run(ctx)
	if err != nil && err != fx.ErrBudgetExhausted {
		return nil, err
	}
	return bench.Result(sc.Message), nil
}

// CommonLength returns the length of the longest common subsequence.
func CommonLength(a, b []byte) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			switch {
			case a[i] == b[j]:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
