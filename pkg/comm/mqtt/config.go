// Package mqtt publishes simulation events and reports to an MQTT broker.
package mqtt

import (
	"flag"
	"os"

	"github.com/robotalks/uartsim/pkg/env"
)

// Config provides the options to connect a Publisher.
type Config struct {
	// BrokerURL specifies the MQTT broker to use, empty disables publishing.
	// e.g. mqtt://host:port/topic-prefix
	BrokerURL string `json:"broker_url" mapstructure:"broker_url"`
	// Bench is the first topic level under the prefix.
	Bench string `json:"bench" mapstructure:"bench"`
}

// DefaultBrokerURL is used by the monitor when nothing is configured.
const DefaultBrokerURL = "mqtt://localhost:1883/uartsim/"

var defaultConfig Config

func init() {
	defaultConfig.BrokerURL = os.Getenv("UARTSIM_MQTT_URL")
	defaultConfig.Bench = env.BenchID()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BrokerURL, "mqtt", defaultConfig.BrokerURL, "MQTT broker URL, e.g. "+DefaultBrokerURL)
	flag.StringVar(&defaultConfig.Bench, "bench", defaultConfig.Bench, "Bench name in topics.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled indicates a broker is configured.
func (c *Config) Enabled() bool {
	return c.BrokerURL != ""
}

// NewPublisher creates a Queue from BrokerURL and connects it.
func (c *Config) NewPublisher() (*Publisher, error) {
	q, err := NewQueueFromURL(c.BrokerURL)
	if err != nil {
		return nil, err
	}
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		return nil, token.Error()
	}
	return NewPublisher(q, c.Bench), nil
}
