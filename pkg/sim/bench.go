package sim

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/uart"
)

// Device names on a Bench.
const (
	DeviceA = "a"
	DeviceB = "b"
)

// Port is a device on a bench with its feeder.
type Port struct {
	Device *uart.Device
	Feeder *Feeder
	// RxAttempts counts ready steps taken in a receiving state.
	RxAttempts uint64
}

// Bench is two connected devices stepped by a Loop.
type Bench struct {
	Name  string
	A     *Port
	B     *Port
	Order Order
	// StopWhenIdle stops the loop once nothing is left to send or decode.
	StopWhenIdle bool

	Caster

	ticks     uint64
	idleTicks uint64
	completed bool
}

// NewBench creates devices a and b and connects them.
func NewBench(name string, confA, confB uart.Config, conf *Config, feed FeedPolicy) (*Bench, error) {
	opts := []uart.Option{uart.WithQueueCapacity(conf.QueueCapacity)}
	a, err := uart.NewDevice(DeviceA, confA, opts...)
	if err != nil {
		return nil, err
	}
	b, err := uart.NewDevice(DeviceB, confB, opts...)
	if err != nil {
		return nil, err
	}
	uart.Connect(a, b)
	return &Bench{
		Name:  name,
		A:     &Port{Device: a, Feeder: NewFeeder(feed)},
		B:     &Port{Device: b, Feeder: NewFeeder(feed)},
		Order: conf.Order,
	}, nil
}

// Ports returns the ports in step order.
func (b *Bench) Ports() []*Port {
	if b.Order == OrderBA {
		return []*Port{b.B, b.A}
	}
	return []*Port{b.A, b.B}
}

// Port finds a port by device name.
func (b *Bench) Port(name string) (*Port, error) {
	switch name {
	case b.A.Device.Name():
		return b.A, nil
	case b.B.Device.Name():
		return b.B, nil
	}
	return nil, ErrUnknownDevice
}

// Send queues data on the feeder of the named device.
func (b *Bench) Send(name string, data []byte) error {
	p, err := b.Port(name)
	if err != nil {
		return err
	}
	p.Feeder.Queue(data)
	return nil
}

// Ticks returns the number of ticks the bench has advanced.
func (b *Bench) Ticks() uint64 {
	return b.ticks
}

// IdleTicks returns the number of ticks both devices ended Idle.
func (b *Bench) IdleTicks() uint64 {
	return b.idleTicks
}

// Completed indicates the loop was stopped because the bench went idle.
func (b *Bench) Completed() bool {
	return b.completed
}

// Idle indicates nothing is left to load, send or decode.
func (b *Bench) Idle() bool {
	for _, p := range b.Ports() {
		if p.Feeder.Pending() > 0 || p.Device.TxPending() > 0 || p.Device.RxPending() > 0 {
			return false
		}
	}
	return true
}

// Reset resets both devices and feeders and clears the counters.
// Devices stay connected.
func (b *Bench) Reset() {
	for _, p := range b.Ports() {
		p.Device.Reset()
		p.Feeder.Reset()
		p.RxAttempts = 0
	}
	b.ticks, b.idleTicks, b.completed = 0, 0, false
}

// AddToLoop implements LoopAdder.
func (b *Bench) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(b.Feed))
	l.AddController(fx.PrLvControl, fx.ControlFunc(b.Step))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(b.Advance))
}

// Feed takes SendMsg messages for this bench and loads the feeders.
func (b *Bench) Feed(cc fx.ControlContext) error {
	var err error
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		msg, ok := mc.CurrentMessage().(*SendMsg)
		if !ok {
			return
		}
		mc.MessageTaken()
		if e := b.Send(msg.Device, msg.Data); e != nil && err == nil {
			err = e
		}
	}))
	for _, p := range b.Ports() {
		p.Feeder.Feed(p.Device)
	}
	return err
}

// Step steps the devices in bench order and casts what happened.
func (b *Bench) Step(cc fx.ControlContext) error {
	for _, p := range b.Ports() {
		res := p.Device.Step()
		if !res.Ready {
			continue
		}
		if res.State.IsReceiving() {
			p.RxAttempts++
		}
		b.castStep(cc, p.Device.Name(), res)
	}
	return nil
}

// Advance ticks both clocks and stops the loop once the bench is idle.
func (b *Bench) Advance(cc fx.ControlContext) error {
	dt := cc.TimeStep()
	b.A.Device.Tick(dt)
	b.B.Device.Tick(dt)
	b.ticks++
	if b.A.Device.State() == uart.Idle && b.B.Device.State() == uart.Idle {
		b.idleTicks++
	}
	if b.StopWhenIdle && b.Idle() {
		glog.V(1).Infof("%s: idle after %d ticks", b.Name, b.ticks)
		b.completed = true
		cc.Stop()
	}
	return nil
}

func (b *Bench) castStep(cc fx.ControlContext, device string, res uart.StepResult) {
	event := func(kind EventKind) Event {
		return Event{
			Tick:   cc.Tick(),
			Time:   cc.Time(),
			Bench:  b.Name,
			Device: device,
			Kind:   kind,
			State:  res.State,
		}
	}
	if res.Tx.Sent {
		b.HandleEvent(event(FrameSent))
	}
	if res.Tx.Err == uart.ErrUnderrun {
		e := event(TxUnderrun)
		e.Err = res.Tx.Err
		b.HandleEvent(e)
	}
	if res.Tx.BitsLost > 0 {
		e := event(BitsLost)
		e.Count = res.Tx.BitsLost
		if res.Tx.Err != uart.ErrUnderrun {
			e.Err = res.Tx.Err
		}
		b.HandleEvent(e)
	}
	switch {
	case res.HasByte:
		e := event(ByteReceived)
		e.Byte = res.Byte
		b.HandleEvent(e)
	case res.RxErr == uart.ErrFraming:
		e := event(FramingError)
		e.Err = res.RxErr
		b.HandleEvent(e)
	case res.RxErr == uart.ErrUnderrun:
		e := event(RxUnderrun)
		e.Err = res.RxErr
		b.HandleEvent(e)
	}
}
