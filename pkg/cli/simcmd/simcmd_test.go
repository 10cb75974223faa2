package simcmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

func TestConfigKey(t *testing.T) {
	cases := map[string]string{
		"baud":          "baud",
		"max-ticks":     "max_ticks",
		"feed-chunk":    "feed.chunk",
		"feed-on-empty": "feed.on_empty",
		"mqtt":          "mqtt.url",
		"bench":         "mqtt.bench",
	}
	for flagName, key := range cases {
		require.Equal(t, key, configKey(flagName))
	}
}

func testViper() *viper.Viper {
	v := viper.New()
	v.Set("baud", 9600)
	v.Set("data_bits", 8)
	v.Set("stop_bits", 1)
	v.Set("start_bits", 1)
	v.Set("time_step", sim.DefaultTimeStep)
	v.Set("max_ticks", sim.DefaultMaxTicks)
	v.Set("queue_cap", 64)
	v.Set("order", "ab")
	v.Set("message", "Hello World")
	return v
}

func TestScenarioFromConfig(t *testing.T) {
	v := testViper()
	v.Set("baud_b", "1200")
	v.Set("order", "ba")
	v.Set("feed.chunk", 5)
	v.Set("feed.on_empty", true)
	v.Set("interval", "1ms")
	sc, err := scenarioFromConfig(v, "cfg")
	require.NoError(t, err)
	require.Equal(t, "cfg", sc.Name)
	require.Equal(t, uart.DefaultConfig(), sc.A)
	require.Equal(t, uint32(1200), sc.B.BaudRate)
	require.Equal(t, sim.OrderBA, sc.Config.Order)
	require.Equal(t, sim.IncrementalFeed, sc.Feed)
	require.Equal(t, "Hello World", string(sc.Message))
	require.Equal(t, uint64(sim.DefaultMaxTicks), sc.Config.MaxTicks)
	require.Equal(t, "1ms", sc.Config.Interval.String())

	v = testViper()
	v.Set("order", "xy")
	_, err = scenarioFromConfig(v, "bad")
	require.Error(t, err)

	v = testViper()
	v.Set("data_bits", 9)
	_, err = scenarioFromConfig(v, "bad")
	require.Equal(t, uart.ErrInvalidConfig, errors.Cause(err))
}

func TestSweepBauds(t *testing.T) {
	bauds, err := sweepBauds([]int{9600, 300})
	require.NoError(t, err)
	require.Equal(t, []uint32{9600, 300}, bauds)
	_, err = sweepBauds([]int{9600, 0})
	require.Equal(t, uart.ErrInvalidConfig, errors.Cause(err))
}

func TestWriteResults(t *testing.T) {
	sc, err := scenarioFromConfig(testViper(), "table")
	require.NoError(t, err)
	res, err := sim.Transfer(context.Background(), sc)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeResults(&out, []*sim.Result{res}, false))
	require.Contains(t, out.String(), "completion")
	require.Contains(t, out.String(), "100.0%")

	out.Reset()
	require.NoError(t, writeResults(&out, []*sim.Result{res}, true))
	require.Contains(t, out.String(), `"completion_rate": 1`)
	require.True(t, strings.HasPrefix(out.String(), "{"))
}

func TestRunCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "hello", "--message", "Hi there", "--json"})
	require.NoError(t, Execute())
	require.Contains(t, out.String(), `"name": "hello"`)
	require.Contains(t, out.String(), `"completed": true`)
}
