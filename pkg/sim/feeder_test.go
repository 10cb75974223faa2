package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartsim/pkg/uart"
)

func TestFeeder(t *testing.T) {
	cases := []struct {
		name    string
		policy  FeedPolicy
		pending int
		loads   []int
	}{
		{"fill", FeedPolicy{}, 3, []int{2, 0}},
		{"chunk", FeedPolicy{Chunk: 1}, 3, []int{1, 1, 0}},
		{"on-empty", FeedPolicy{Chunk: 1, OnEmpty: true}, 3, []int{1, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := uart.NewDevice("d", uart.DefaultConfig(), uart.WithQueueCapacity(16))
			require.NoError(t, err)
			f := NewFeeder(c.policy)
			f.Queue([]byte("abc"))
			require.Equal(t, c.pending, f.Pending())
			for n, expected := range c.loads {
				require.Equal(t, expected, f.Feed(d), "load %d", n)
			}
			require.Equal(t, f.Loaded()*8, d.TxPending())
			require.Equal(t, 3, f.Loaded()+f.Pending())
		})
	}
}

func TestFeederWholeBytes(t *testing.T) {
	conf := uart.DefaultConfig()
	conf.DataBits = 7
	d, err := uart.NewDevice("d", conf, uart.WithQueueCapacity(16))
	require.NoError(t, err)
	f := NewFeeder(FeedPolicy{})
	f.Queue([]byte("abc"))
	require.Equal(t, 2, f.Feed(d))
	require.Equal(t, 14, d.TxPending())

	f.Reset()
	require.Equal(t, 0, f.Pending())
	require.Equal(t, 0, f.Loaded())
	require.Equal(t, 0, f.Feed(d))
}
