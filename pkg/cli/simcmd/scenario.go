package simcmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

const defaultMessage = "This is a very long test message to demonstrate baud rate mismatch issues. " +
	"The transmitter is sending at 115200 baud while the receiver expects 1200 baud, " +
	"causing significant timing problems and buffer overflow issues."

// scenarioFromConfig builds the scenario from flags, env vars and the
// config file.
func scenarioFromConfig(v *viper.Viper, name string) (*sim.Scenario, error) {
	conf := uart.Config{
		BaudRate:  v.GetUint32("baud"),
		DataBits:  v.GetUint32("data_bits"),
		StopBits:  v.GetUint32("stop_bits"),
		StartBits: v.GetUint32("start_bits"),
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	confB := conf
	if baud := v.GetUint32("baud_b"); baud != 0 {
		confB.BaudRate = baud
	}
	order, err := sim.ParseOrder(v.GetString("order"))
	if err != nil {
		return nil, errors.Wrap(err, "order")
	}
	return &sim.Scenario{
		Name:    name,
		A:       conf,
		B:       confB,
		Message: []byte(v.GetString("message")),
		Feed: sim.FeedPolicy{
			Chunk:   v.GetInt("feed.chunk"),
			OnEmpty: v.GetBool("feed.on_empty"),
		},
		Config: sim.Config{
			TimeStep:      v.GetFloat64("time_step"),
			MaxTicks:      v.GetUint64("max_ticks"),
			QueueCapacity: v.GetInt("queue_cap"),
			Order:         order,
			Interval:      v.GetDuration("interval"),
		},
	}, nil
}

func sweepBauds(values []int) ([]uint32, error) {
	bauds := make([]uint32, 0, len(values))
	for _, v := range values {
		if v <= 0 {
			return nil, errors.Wrapf(uart.ErrInvalidConfig, "baud rate %d", v)
		}
		bauds = append(bauds, uint32(v))
	}
	return bauds, nil
}
