package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBenchID(t *testing.T) {
	id := BenchID()
	require.NotEmpty(t, id)
	require.True(t, len(id) <= BenchIDLen)
	require.True(t, strings.HasPrefix(MachineID(), id))
	require.Equal(t, id, BenchID())
}
