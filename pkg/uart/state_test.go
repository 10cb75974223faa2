package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	for _, s := range []State{Idle, Transmitting, Receiving, TransmittingAndReceiving} {
		parsed, ok := ParseState(s.String())
		require.True(t, ok)
		require.Equal(t, s, parsed)
	}
	_, ok := ParseState("unknown")
	require.False(t, ok)
}

func TestErrorFromString(t *testing.T) {
	require.Equal(t, ErrFraming, ErrorFromString(ErrFraming.Error()))
	require.Equal(t, ErrOverflow, ErrorFromString("buffer overflow"))
	err := ErrorFromString("something else")
	require.Equal(t, "something else", err.Error())
}
