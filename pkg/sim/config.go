package sim

import (
	"flag"
	"fmt"
	"strings"
	"time"

	fx "github.com/robotalks/uartsim/pkg/framework"
	"github.com/robotalks/uartsim/pkg/uart"
)

// Config defines the simulation parameters shared by both devices.
type Config struct {
	TimeStep      float64 `json:"time_step" mapstructure:"time_step"`
	MaxTicks      uint64  `json:"max_ticks" mapstructure:"max_ticks"`
	QueueCapacity int     `json:"queue_capacity" mapstructure:"queue_capacity"`
	Order         Order   `json:"order" mapstructure:"order"`
	// Interval paces ticks in wall-clock time, 0 runs as fast as possible.
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// Defaults
const (
	DefaultTimeStep      = fx.DefaultTimeStep
	DefaultMaxTicks      = 100000
	DefaultQueueCapacity = uart.DefaultQueueCapacity
)

var defaultConfig = Config{
	TimeStep:      DefaultTimeStep,
	MaxTicks:      DefaultMaxTicks,
	QueueCapacity: DefaultQueueCapacity,
	Order:         OrderAB,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.TimeStep, "time-step", defaultConfig.TimeStep, "Simulated time (seconds) of one tick.")
	flag.Uint64Var(&defaultConfig.MaxTicks, "max-ticks", defaultConfig.MaxTicks, "Tick budget of a run, 0 means unlimited.")
	flag.IntVar(&defaultConfig.QueueCapacity, "queue-cap", defaultConfig.QueueCapacity, "Capacity (bits, power of 2) of each device queue.")
	flag.Var(&defaultConfig.Order, "order", "Device step order within a tick: ab or ba.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Wall-clock time per tick, 0 means no pacing.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Order is the order devices are stepped within one tick.
type Order int

// Orders
const (
	OrderAB Order = iota
	OrderBA
)

// ParseOrder parses "ab" or "ba".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "ab", "":
		return OrderAB, nil
	case "ba":
		return OrderBA, nil
	}
	return OrderAB, fmt.Errorf("invalid order %q", s)
}

// String implements flag.Value.
func (o Order) String() string {
	if o == OrderBA {
		return "ba"
	}
	return "ab"
}

// Set implements flag.Value.
func (o *Order) Set(s string) error {
	v, err := ParseOrder(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Order) UnmarshalText(text []byte) error {
	return o.Set(string(text))
}
