package sim

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/uart"
)

func newTestBench(t *testing.T) *Bench {
	b, err := NewBench("bench", uart.DefaultConfig(), uart.DefaultConfig(), NewConfig(), FeedPolicy{})
	require.NoError(t, err)
	return b
}

func TestBenchPorts(t *testing.T) {
	b := newTestBench(t)
	require.Equal(t, b.B.Device, b.A.Device.Peer())
	require.Equal(t, []*Port{b.A, b.B}, b.Ports())
	b.Order = OrderBA
	require.Equal(t, []*Port{b.B, b.A}, b.Ports())

	p, err := b.Port(DeviceB)
	require.NoError(t, err)
	require.Equal(t, b.B, p)
	_, err = b.Port("c")
	require.Equal(t, ErrUnknownDevice, err)
	require.Equal(t, ErrUnknownDevice, b.Send("c", []byte("x")))
}

func TestBenchFullDuplex(t *testing.T) {
	b := newTestBench(t)
	l := fx.NewLoop().Add(b)
	l.PostMessage(&SendMsg{Device: DeviceA, Data: []byte("ping")})
	l.PostMessage(&SendMsg{Device: DeviceB, Data: []byte("pong")})
	l.PostMessage(&SendMsg{Device: "nobody", Data: []byte("lost")})
	b.StopWhenIdle = true
	l.MaxTicks = 1000
	require.NoError(t, l.Run(context.Background()))
	require.True(t, b.Completed())
	require.Equal(t, "pong", string(b.A.Device.Received()))
	require.Equal(t, "ping", string(b.B.Device.Received()))
	require.Equal(t, uint64(4), b.A.RxAttempts)
	require.Equal(t, b.Ticks(), l.Ticks())
}

func TestBenchEvents(t *testing.T) {
	b := newTestBench(t)
	var events []Event
	b.SubscribeEvents(ListenerFunc(func(e Event) {
		events = append(events, e)
	}))
	// a lone stop bit is a framing error at b.
	b.B.Device.InjectReceive(uart.StopBit)
	require.NoError(t, b.Send(DeviceA, []byte("A")))
	l := fx.NewLoop().Add(b)
	require.NoError(t, l.RunFor(context.Background(), 30))

	kinds := make([]EventKind, 0, len(events))
	for _, e := range events {
		require.Equal(t, "bench", e.Bench)
		kinds = append(kinds, e.Kind)
	}
	// the frame from a lands behind the stop bit and is discarded with it.
	require.Equal(t, []EventKind{FrameSent, FramingError}, kinds)
	require.Equal(t, DeviceA, events[0].Device)
	require.Equal(t, DeviceB, events[1].Device)
	require.Equal(t, uart.ErrFraming, events[1].Err)
	require.Equal(t, events[0].Tick, events[1].Tick)
	require.Equal(t, 0, b.B.Device.RxPending())
}

func TestBenchReset(t *testing.T) {
	b := newTestBench(t)
	require.NoError(t, b.Send(DeviceA, []byte("Hello")))
	l := fx.NewLoop().Add(b)
	require.NoError(t, l.RunFor(context.Background(), 25))
	require.True(t, b.Ticks() > 0)
	b.Reset()
	require.Equal(t, uint64(0), b.Ticks())
	require.Equal(t, uint64(0), b.IdleTicks())
	require.True(t, b.Idle())
	require.Empty(t, b.B.Device.Received())
	require.Equal(t, b.B.Device, b.A.Device.Peer())
}

func TestEventJSON(t *testing.T) {
	data, err := json.Marshal(Event{
		Tick:   7,
		Device: DeviceB,
		Kind:   ByteReceived,
		State:  uart.Receiving,
		Byte:   0,
	})
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, float64(7), m["tick"])
	require.Equal(t, "byte-received", m["kind"])
	require.Equal(t, "receiving", m["state"])
	require.Equal(t, float64(0), m["byte"])
	_, ok := m["error"]
	require.False(t, ok)

	data, err = json.Marshal(Event{Kind: FramingError, Err: uart.ErrFraming})
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, uart.ErrFraming.Error(), m["error"])
	_, ok = m["byte"]
	require.False(t, ok)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, uart.ErrFraming, decoded.Err)
	require.Equal(t, FramingError, decoded.Kind)
}

func TestOrder(t *testing.T) {
	var o Order
	require.NoError(t, o.Set("BA"))
	require.Equal(t, OrderBA, o)
	require.Equal(t, "ba", o.String())
	require.Error(t, o.Set("ab?"))
	text, err := OrderAB.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "ab", string(text))
	require.NoError(t, o.UnmarshalText(text))
	require.Equal(t, OrderAB, o)
}

func TestEventString(t *testing.T) {
	text := Event{Tick: 11, Time: 0.0011, Device: DeviceB, Kind: ByteReceived, Byte: 'H'}.String()
	require.Equal(t, `[11 0.0011s] b byte-received 'H'`, text)
	text = Event{Tick: 1, Device: DeviceB, Kind: FramingError, Err: uart.ErrFraming}.String()
	require.Equal(t, `[1 0.0000s] b framing-error: framing error`, text)
	text = Event{Device: DeviceA, Kind: BitsLost, Count: 3}.String()
	require.Equal(t, `[0 0.0000s] a bits-lost 3`, text)
}
