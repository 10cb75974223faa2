// Package simcmd implements the uartsim command line.
package simcmd

import (
	"flag"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

var rootCmd = &cobra.Command{
	Use:   "uartsim",
	Short: "Simulate two UARTs exchanging bytes over a line",
	Long: `uartsim steps two simulated UART devices in discrete time and
reports how much of a message survives the transfer, e.g. when the
receiver runs at a different baud rate than the transmitter.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./uartsim.yaml)")
	flags.Uint32("baud", uart.DefaultBaudRate, "baud rate of device a")
	flags.Uint32("baud-b", 0, "baud rate of device b, 0 uses --baud")
	flags.Uint32("data-bits", uart.DefaultDataBits, "data bits per frame (1-8)")
	flags.Uint32("stop-bits", uart.DefaultStopBits, "stop bits per frame")
	flags.Uint32("start-bits", uart.DefaultStartBits, "start bits per frame, used for timing")
	flags.Float64("time-step", sim.DefaultTimeStep, "simulated seconds per tick")
	flags.Uint64("max-ticks", sim.DefaultMaxTicks, "tick budget per transfer, 0 means unlimited")
	flags.Int("queue-cap", sim.DefaultQueueCapacity, "capacity (bits, power of 2) of each device queue")
	flags.String("order", sim.OrderAB.String(), "device step order within a tick: ab or ba")
	flags.Duration("interval", 0, "wall-clock time per tick, 0 means no pacing")
	flags.String("message", defaultMessage, "message sent from a to b")
	flags.Int("feed-chunk", 0, "bytes loaded per feed, 0 loads as many as fit")
	flags.Bool("feed-on-empty", false, "only load when the transmit queue is empty")
	flags.String("mqtt", "", "MQTT broker URL to publish events and reports, e.g. mqtt://localhost:1883/uartsim/")
	flags.String("bench", "", "bench name in MQTT topics (default is derived from the machine id)")
	flags.String("ws", "", "listen address serving live events on /events, e.g. :8080")
	flags.Bool("json", false, "print the report in JSON")
	flags.String("report", "", "write the protobuf report to this file")
	for _, name := range []string{
		"config", "baud", "baud-b", "data-bits", "stop-bits", "start-bits",
		"time-step", "max-ticks", "queue-cap", "order", "interval", "message",
		"feed-chunk", "feed-on-empty", "mqtt", "bench", "ws", "json", "report",
	} {
		_ = viper.BindPFlag(configKey(name), flags.Lookup(name))
	}

	// glog registers its flags on the standard flag set.
	flags.AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(runCmd, sweepCmd)
}

// configKey maps a flag name to its key in config files and env vars:
// --feed-chunk is feed.chunk in YAML and UARTSIM_FEED_CHUNK in env.
func configKey(flagName string) string {
	switch {
	case strings.HasPrefix(flagName, "feed-"):
		return "feed." + strings.ReplaceAll(strings.TrimPrefix(flagName, "feed-"), "-", "_")
	case flagName == "mqtt":
		return "mqtt.url"
	case flagName == "bench":
		return "mqtt.bench"
	}
	return strings.ReplaceAll(flagName, "-", "_")
}

func initConfig() {
	// glog complains about logging before flag.Parse otherwise,
	// the values were already set through pflag.
	_ = flag.CommandLine.Parse(nil)

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("uartsim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/uartsim")
	}

	viper.SetEnvPrefix("UARTSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
