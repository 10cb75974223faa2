package sim

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartsim/pkg/uart"
)

const longMessage = "This is a very long test message to demonstrate baud rate mismatch issues. " +
	"The transmitter is sending at 115200 baud while the receiver expects 1200 baud, " +
	"causing significant timing problems and buffer overflow issues."

func mismatched(baudB uint32) *Scenario {
	sc := NewScenario("mismatch", uart.DefaultConfig(), []byte(longMessage))
	sc.B = sc.B.WithBaudRate(baudB)
	sc.Feed = IncrementalFeed
	return sc
}

func TestTransferRoundTrip(t *testing.T) {
	for _, order := range []Order{OrderAB, OrderBA} {
		t.Run(order.String(), func(t *testing.T) {
			sc := NewScenario("hello", uart.DefaultConfig(), []byte("Hello World"))
			sc.Config.Order = order
			var received, sent int
			res, err := Transfer(context.Background(), sc, ListenerFunc(func(e Event) {
				switch e.Kind {
				case ByteReceived:
					require.Equal(t, DeviceB, e.Device)
					received++
				case FrameSent:
					require.Equal(t, DeviceA, e.Device)
					sent++
				}
			}))
			require.NoError(t, err)
			require.True(t, res.Completed)
			require.Equal(t, "Hello World", string(res.Received))
			require.Equal(t, uint64(0), res.FramingErrors)
			require.Equal(t, uint64(0), res.BitsLost)
			require.True(t, res.Ticks <= DefaultMaxTicks)
			require.Equal(t, 1.0, res.CompletionRate())
			require.Equal(t, 11, received)
			require.Equal(t, 11, sent)
			require.InDelta(t, 1.0, res.TimingRatio, 1e-9)
		})
	}
}

func TestTransferMismatchedBaud(t *testing.T) {
	var last float64 = 2
	for _, baud := range []uint32{9600, 4800, 2400, 1200, 300} {
		res, err := Transfer(context.Background(), mismatched(baud))
		require.NoError(t, err)
		require.True(t, res.Completed)
		rate := res.CompletionRate()
		if baud == 9600 {
			require.Equal(t, 1.0, rate)
			require.Equal(t, uint64(len(longMessage)), res.Attempts)
			require.Equal(t, uint64(0), res.StateResets)
		} else {
			require.True(t, rate < 1, "baud %d: completion %v", baud, rate)
			require.True(t, res.BitsLost > 0)
			require.True(t, res.StateResets > 0)
		}
		require.True(t, rate <= last, "baud %d: completion %v after %v", baud, rate, last)
		require.True(t, res.Intact <= res.Decoded())
		last = rate
	}
}

func TestTransferFasterReceiver(t *testing.T) {
	for _, baud := range []uint32{19200, 38400, 115200} {
		t.Run(strconv.Itoa(int(baud)), func(t *testing.T) {
			res, err := Transfer(context.Background(), mismatched(baud))
			require.NoError(t, err)
			require.True(t, res.Completed)
			require.True(t, res.TimingRatio > 1)
			require.Equal(t, 1.0, res.CompletionRate())
			require.Equal(t, longMessage, string(res.Received))
			require.Equal(t, uint64(0), res.StateResets)
			require.Equal(t, uint64(0), res.BitsLost)
			require.Equal(t, uint64(0), res.FramingErrors)
		})
	}
}

func TestTransferExtremeMismatch(t *testing.T) {
	sc := mismatched(50)
	sc.A = sc.A.WithBaudRate(56000)
	res, err := Transfer(context.Background(), sc)
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.True(t, res.CompletionRate() < 0.1)
	require.InDelta(t, 50.0/56000.0, res.TimingRatio, 1e-9)
}

func TestTransferDeterministic(t *testing.T) {
	first, err := Transfer(context.Background(), mismatched(2400))
	require.NoError(t, err)
	second, err := Transfer(context.Background(), mismatched(2400))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTransferBudget(t *testing.T) {
	sc := NewScenario("short", uart.DefaultConfig(), []byte("Hello World"))
	sc.Config.MaxTicks = 50
	res, err := Transfer(context.Background(), sc)
	require.NoError(t, err)
	require.False(t, res.Completed)
	require.Equal(t, uint64(50), res.Ticks)
	require.True(t, res.CompletionRate() < 1)
}

func TestTransferEmptyMessage(t *testing.T) {
	res, err := Transfer(context.Background(), NewScenario("empty", uart.DefaultConfig(), nil))
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.Equal(t, uint64(1), res.Ticks)
	require.Equal(t, 1.0, res.CompletionRate())
}

func TestTransferInvalidConfig(t *testing.T) {
	sc := NewScenario("bad", uart.DefaultConfig(), []byte("x"))
	sc.Config.QueueCapacity = 3
	_, err := Transfer(context.Background(), sc)
	require.Error(t, err)

	sc = NewScenario("bad", uart.Config{}, []byte("x"))
	_, err = Transfer(context.Background(), sc)
	require.Error(t, err)
}

func TestTransferCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Transfer(ctx, NewScenario("canceled", uart.DefaultConfig(), []byte("x")))
	require.Equal(t, context.Canceled, err)
}

func TestSweep(t *testing.T) {
	bauds := []uint32{9600, 1200, 4800}
	results, err := Sweep(context.Background(), mismatched(9600), bauds)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for n, res := range results {
		require.Equal(t, bauds[n], res.B.BaudRate)
		require.Equal(t, uint32(9600), res.A.BaudRate)
	}
	require.Equal(t, "mismatch@1200", results[1].Name)
	require.Equal(t, 1.0, results[0].CompletionRate())
	require.True(t, results[1].CompletionRate() < results[2].CompletionRate())
}

func TestCommonLength(t *testing.T) {
	cases := []struct {
		a, b string
		n    int
	}{
		{"", "", 0},
		{"abc", "", 0},
		{"abc", "abc", 3},
		{"abcdef", "ace", 3},
		{"ace", "abcdef", 3},
		{"Hello", "H?l?o", 3},
		{"abc", "xyz", 0},
	}
	for _, c := range cases {
		require.Equal(t, c.n, CommonLength([]byte(c.a), []byte(c.b)), "%q %q", c.a, c.b)
	}
}
