package sim

import (
	"encoding/json"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/uartsim/pkg/uart"
)

// EventKind classifies an Event.
type EventKind string

// Event kinds
const (
	FrameSent    EventKind = "frame-sent"
	TxUnderrun   EventKind = "tx-underrun"
	BitsLost     EventKind = "bits-lost"
	ByteReceived EventKind = "byte-received"
	FramingError EventKind = "framing-error"
	RxUnderrun   EventKind = "rx-underrun"
)

// Event is something observable that happened to a device during a step.
type Event struct {
	Tick   uint64
	Time   float64
	Bench  string
	Device string
	Kind   EventKind
	State  uart.State
	Byte   byte
	// Count is the number of bits lost for BitsLost.
	Count int
	Err   error
}

// String prints the event in a friendly form for display.
func (e Event) String() string {
	text := fmt.Sprintf("[%d %.4fs] %s %s", e.Tick, e.Time, e.Device, e.Kind)
	switch e.Kind {
	case ByteReceived:
		text += fmt.Sprintf(" %q", e.Byte)
	case BitsLost:
		text += fmt.Sprintf(" %d", e.Count)
	}
	if e.Err != nil {
		text += ": " + e.Err.Error()
	}
	return text
}

type eventJSON struct {
	Tick   uint64    `json:"tick"`
	Time   float64   `json:"time"`
	Bench  string    `json:"bench,omitempty"`
	Device string    `json:"device"`
	Kind   EventKind `json:"kind"`
	State  string    `json:"state"`
	Byte   *byte     `json:"byte,omitempty"`
	Count  int       `json:"count,omitempty"`
	Err    string    `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	v := eventJSON{
		Tick:   e.Tick,
		Time:   e.Time,
		Bench:  e.Bench,
		Device: e.Device,
		Kind:   e.Kind,
		State:  e.State.String(),
		Count:  e.Count,
	}
	if e.Kind == ByteReceived {
		b := e.Byte
		v.Byte = &b
	}
	if e.Err != nil {
		v.Err = e.Err.Error()
	}
	return json.Marshal(&v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	var v eventJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Event{
		Tick:   v.Tick,
		Time:   v.Time,
		Bench:  v.Bench,
		Device: v.Device,
		Kind:   v.Kind,
		Count:  v.Count,
	}
	e.State, _ = uart.ParseState(v.State)
	if v.Byte != nil {
		e.Byte = *v.Byte
	}
	if v.Err != "" {
		e.Err = uart.ErrorFromString(v.Err)
	}
	return nil
}

// EventListener receives events from a Bench.
type EventListener interface {
	HandleEvent(Event)
}

// ListenerFunc is the func form of EventListener.
type ListenerFunc func(Event)

// HandleEvent implements EventListener.
func (f ListenerFunc) HandleEvent(e Event) {
	f(e)
}

// EventSubscriber subscribes event notifications.
type EventSubscriber interface {
	SubscribeEvents(EventListener)
}

// Caster provides a subscriber and implements
// listener to cast notifications.
type Caster struct {
	listeners []EventListener
}

// SubscribeEvents implements EventSubscriber.
func (c *Caster) SubscribeEvents(ln EventListener) {
	c.listeners = append(c.listeners, ln)
}

// HandleEvent implements EventListener.
func (c *Caster) HandleEvent(e Event) {
	if glog.V(2) {
		glog.Infof("%s: %s", e.Bench, e)
	}
	for _, ln := range c.listeners {
		ln.HandleEvent(e)
	}
}
