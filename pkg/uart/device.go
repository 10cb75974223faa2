package uart

import (
	"github.com/golang/glog"

	"github.com/robotalks/uartsim/pkg/ring"
)

// DefaultQueueCapacity is the number of bits each queue holds by default.
const DefaultQueueCapacity = 64

// Device is a UART with a transmit queue, a receive queue and its own clock.
type Device struct {
	name   string
	config Config
	state  State

	tx   *ring.Queue[Bit]
	rx   *ring.Queue[Bit]
	peer *Device

	clock       float64
	timePerByte float64

	received []byte
	stats    Stats
}

// Stats counts what happened on a device.
type Stats struct {
	ReadyTicks    uint64 `json:"ready_ticks"`
	FramesSent    uint64 `json:"frames_sent"`
	TxUnderruns   uint64 `json:"tx_underruns"`
	TxOverflow    uint64 `json:"tx_overflow"`
	BitsLost      uint64 `json:"bits_lost"`
	BytesReceived uint64 `json:"bytes_received"`
	FramingErrors uint64 `json:"framing_errors"`
	RxUnderruns   uint64 `json:"rx_underruns"`
	Resets        uint64 `json:"resets"`
}

// TxResult is the outcome of the transmit half of a step.
type TxResult struct {
	// Attempted is set when a frame was started.
	Attempted bool
	// Sent is set when the whole frame went out, possibly with bits lost.
	Sent     bool
	BitsSent int
	BitsLost int
	// Err is ErrUnderrun for an abandoned frame, otherwise the first
	// error of a lost bit (ErrNotConnected or ErrOverflow).
	Err error
}

// StepResult is the outcome of one Step.
type StepResult struct {
	// Ready is false when the clock hasn't elapsed and nothing was done.
	Ready bool
	// State is the state derived from the queues at the start of the step.
	State   State
	Byte    byte
	HasByte bool
	// RxErr is ErrFraming or ErrUnderrun when a frame was discarded.
	RxErr error
	Tx    TxResult
}

// Option customizes a Device.
type Option func(*options)

type options struct {
	queueCapacity int
}

// WithQueueCapacity sets the capacity (bits, power of two) of both queues.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		o.queueCapacity = n
	}
}

// NewDevice creates an idle device with its clock loaded.
func NewDevice(name string, config Config, opts ...Option) (*Device, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := options{queueCapacity: DefaultQueueCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	tx, err := ring.New[Bit](o.queueCapacity)
	if err != nil {
		return nil, err
	}
	rx, err := ring.New[Bit](o.queueCapacity)
	if err != nil {
		return nil, err
	}
	d := &Device{
		name:        name,
		config:      config,
		tx:          tx,
		rx:          rx,
		timePerByte: config.TimePerByte(),
	}
	d.clock = d.timePerByte
	return d, nil
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Config returns the configuration the device was created with.
func (d *Device) Config() Config {
	return d.config
}

// State returns the current state.
func (d *Device) State() State {
	return d.state
}

// Clock returns the remaining time before the device is ready.
func (d *Device) Clock() float64 {
	return d.clock
}

// TimePerByte returns the period of the device clock.
func (d *Device) TimePerByte() float64 {
	return d.timePerByte
}

// Peer returns the connected device, nil if not connected.
func (d *Device) Peer() *Device {
	return d.peer
}

// TxPending returns the number of bits waiting to be sent.
func (d *Device) TxPending() int {
	return d.tx.Len()
}

// TxFree returns the number of bits which can still be enqueued.
func (d *Device) TxFree() int {
	return d.tx.Free()
}

// RxPending returns the number of bits waiting to be decoded.
func (d *Device) RxPending() int {
	return d.rx.Len()
}

// Stats returns a snapshot of the counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// Tick advances the clock by dt. It runs whether or not the device is ready.
func (d *Device) Tick(dt float64) {
	d.clock -= dt
}

// IsReady indicates the clock has elapsed.
func (d *Device) IsReady() bool {
	return d.clock <= 0
}

// ResetClock reloads the clock with one frame period.
func (d *Device) ResetClock() {
	d.clock = d.timePerByte
}

// EnqueueTransmit appends bits to the transmit queue and returns
// how many fit. Bits beyond the capacity are dropped.
func (d *Device) EnqueueTransmit(bits []Bit) int {
	for n, bit := range bits {
		if !d.tx.Push(bit) {
			d.stats.TxOverflow += uint64(len(bits) - n)
			return n
		}
	}
	return len(bits)
}

// EnqueueByte queues the low DataBits bits of b, most-significant bit
// first. Nothing is queued and false is returned when they don't all fit.
func (d *Device) EnqueueByte(b byte) bool {
	n := int(d.config.DataBits)
	if d.tx.Free() < n {
		return false
	}
	for i := n - 1; i >= 0; i-- {
		d.tx.Push(Bit((b >> uint(i)) & 1))
	}
	return true
}

// InjectReceive pushes bits straight into the receive queue as if they
// arrived from the line, and returns how many fit.
func (d *Device) InjectReceive(bits ...Bit) int {
	for n, bit := range bits {
		if !d.rx.Push(bit) {
			return n
		}
	}
	return len(bits)
}

// Received returns the bytes reconstructed so far.
func (d *Device) Received() []byte {
	return d.received
}

// DrainReceived returns the bytes reconstructed so far and forgets them.
func (d *Device) DrainReceived() []byte {
	data := d.received
	d.received = nil
	return data
}

// Reset empties both queues, reloads the clock, returns to Idle and
// clears received bytes and counters. The connection is kept.
func (d *Device) Reset() {
	d.tx.Reset()
	d.rx.Reset()
	d.state = Idle
	d.clock = d.timePerByte
	d.received = nil
	d.stats = Stats{}
}

// Step runs one protocol step if the clock has elapsed: the clock is
// reloaded, the state is derived from the queues, then a frame is
// transmitted and a frame is decoded according to that state.
func (d *Device) Step() (res StepResult) {
	if !d.IsReady() {
		return
	}
	res.Ready = true
	d.stats.ReadyTicks++
	d.ResetClock()
	d.state = nextState(d.state, !d.tx.IsEmpty(), !d.rx.IsEmpty())
	res.State = d.state
	res.Tx = d.transmit(res.State)
	res.Byte, res.HasByte, res.RxErr = d.receive(res.State)
	return
}

func (d *Device) transmit(state State) (res TxResult) {
	if !state.IsTransmitting() {
		return
	}
	res.Attempted = true
	d.sendBit(&res, StartBit)
	for i := uint32(0); i < d.config.DataBits; i++ {
		bit, ok := d.tx.Pop()
		if !ok {
			// the partial frame is abandoned, bits already on the line stay there.
			d.state = Idle
			d.stats.TxUnderruns++
			res.Err = ErrUnderrun
			glog.V(3).Infof("%s: tx underrun after %d data bits", d.name, i)
			return
		}
		d.sendBit(&res, bit)
	}
	for i := uint32(0); i < d.config.StopBits; i++ {
		d.sendBit(&res, StopBit)
	}
	d.state = Idle
	d.stats.FramesSent++
	res.Sent = true
	return
}

func (d *Device) sendBit(res *TxResult, bit Bit) {
	if err := d.send(bit); err != nil {
		res.BitsLost++
		d.stats.BitsLost++
		if res.Err == nil {
			res.Err = err
		}
		return
	}
	res.BitsSent++
}

func (d *Device) send(bit Bit) error {
	if d.peer == nil {
		return ErrNotConnected
	}
	if !d.peer.rx.Push(bit) {
		return ErrOverflow
	}
	return nil
}

func (d *Device) receive(state State) (b byte, ok bool, err error) {
	if !state.IsReceiving() {
		return
	}
	head, ok := d.rx.Peek()
	if !ok {
		return 0, false, nil
	}
	if head != StartBit {
		return 0, false, d.discard(ErrFraming)
	}
	d.rx.Pop()
	for i := uint32(0); i < d.config.DataBits; i++ {
		bit, ok := d.rx.Pop()
		if !ok {
			return 0, false, d.discard(ErrUnderrun)
		}
		b = b<<1 | byte(bit&1)
	}
	for i := uint32(0); i < d.config.StopBits; i++ {
		if bit, ok := d.rx.Peek(); !ok || bit != StopBit {
			return 0, false, d.discard(ErrFraming)
		}
		d.rx.Pop()
	}
	d.state = Idle
	d.received = append(d.received, b)
	d.stats.BytesReceived++
	return b, true, nil
}

// discard drops everything buffered for receiving and returns to Idle.
func (d *Device) discard(err error) error {
	d.rx.Reset()
	d.state = Idle
	d.stats.Resets++
	switch err {
	case ErrFraming:
		d.stats.FramingErrors++
	case ErrUnderrun:
		d.stats.RxUnderruns++
	}
	glog.V(3).Infof("%s: rx %v, receive queue discarded", d.name, err)
	return err
}
