package sim

import (
	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/uart"
)

// FeedPolicy decides when and how much a Feeder loads.
type FeedPolicy struct {
	// Chunk is the maximum number of bytes per load, 0 loads as many as fit.
	Chunk int `json:"chunk" mapstructure:"chunk"`
	// OnEmpty only loads when the transmit queue is empty.
	OnEmpty bool `json:"on_empty" mapstructure:"on_empty"`
}

// IncrementalFeed loads 5 bytes at a time once the previous ones are sent.
var IncrementalFeed = FeedPolicy{Chunk: 5, OnEmpty: true}

// Feeder holds the bytes waiting to be loaded into a device's transmit queue.
// Only whole bytes are loaded.
type Feeder struct {
	Policy FeedPolicy

	pending []byte
	loaded  int
}

// NewFeeder creates a Feeder.
func NewFeeder(policy FeedPolicy) *Feeder {
	return &Feeder{Policy: policy}
}

// Queue appends data to be sent.
func (f *Feeder) Queue(data []byte) {
	f.pending = append(f.pending, data...)
}

// Pending returns the number of bytes not loaded yet.
func (f *Feeder) Pending() int {
	return len(f.pending)
}

// Loaded returns the number of bytes loaded since creation or Reset.
func (f *Feeder) Loaded() int {
	return f.loaded
}

// Reset drops pending bytes.
func (f *Feeder) Reset() {
	f.pending = nil
	f.loaded = 0
}

// Feed loads pending bytes into the device according to the policy and
// returns how many were loaded.
func (f *Feeder) Feed(d *uart.Device) int {
	if len(f.pending) == 0 {
		return 0
	}
	if f.Policy.OnEmpty && d.TxPending() > 0 {
		return 0
	}
	n := 0
	for n < len(f.pending) && (f.Policy.Chunk <= 0 || n < f.Policy.Chunk) {
		if !d.EnqueueByte(f.pending[n]) {
			break
		}
		n++
	}
	f.pending = f.pending[n:]
	f.loaded += n
	return n
}

// SendMsg asks a Bench to queue Data on the named device.
type SendMsg struct {
	Device string
	Data   []byte
}

// NewMessage implements fx.Message.
func (m *SendMsg) NewMessage() fx.Message {
	return &SendMsg{}
}
