package uart

import (
	"flag"
	"strconv"

	"github.com/pkg/errors"
)

// Config describes the frame shape and speed of a device.
// It's consumed once when a device is created.
type Config struct {
	BaudRate  uint32 `json:"baud_rate" mapstructure:"baud_rate"`
	DataBits  uint32 `json:"data_bits" mapstructure:"data_bits"`
	StopBits  uint32 `json:"stop_bits" mapstructure:"stop_bits"`
	StartBits uint32 `json:"start_bits" mapstructure:"start_bits"`
}

// Defaults
const (
	DefaultBaudRate  uint32 = 9600
	DefaultDataBits  uint32 = 8
	DefaultStopBits  uint32 = 1
	DefaultStartBits uint32 = 1

	// MaxDataBits is bounded by the size of the reconstructed byte.
	MaxDataBits uint32 = 8
)

var (
	config8N1 = Config{
		BaudRate:  DefaultBaudRate,
		DataBits:  DefaultDataBits,
		StopBits:  DefaultStopBits,
		StartBits: DefaultStartBits,
	}

	// defaultConfig starts as config8N1 and is changed by flags.
	defaultConfig = config8N1
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flagUint32(&defaultConfig.BaudRate, "baud", "Baud rate (bits/s).")
	flagUint32(&defaultConfig.DataBits, "data-bits", "Data bits per frame (1-8).")
	flagUint32(&defaultConfig.StopBits, "stop-bits", "Stop bits per frame.")
	flagUint32(&defaultConfig.StartBits, "start-bits", "Start bits per frame, used for timing.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// DefaultConfig returns the 9600 8N1 configuration.
func DefaultConfig() Config {
	return config8N1
}

// WithBaudRate returns a copy using a different baud rate.
func (c Config) WithBaudRate(baud uint32) Config {
	c.BaudRate = baud
	return c
}

// Validate checks every field is usable.
func (c Config) Validate() error {
	switch {
	case c.BaudRate == 0:
		return errors.Wrap(ErrInvalidConfig, "baud rate must be positive")
	case c.DataBits == 0:
		return errors.Wrap(ErrInvalidConfig, "data bits must be positive")
	case c.DataBits > MaxDataBits:
		return errors.Wrapf(ErrInvalidConfig, "data bits %d exceeds %d", c.DataBits, MaxDataBits)
	case c.StopBits == 0:
		return errors.Wrap(ErrInvalidConfig, "stop bits must be positive")
	case c.StartBits == 0:
		return errors.Wrap(ErrInvalidConfig, "start bits must be positive")
	}
	return nil
}

// BitsPerFrame is the number of bit periods one frame occupies.
func (c Config) BitsPerFrame() uint32 {
	return c.StartBits + c.DataBits + c.StopBits
}

// TimePerByte is the time (seconds) one frame occupies on the line.
func (c Config) TimePerByte() float64 {
	return float64(c.BitsPerFrame()) / float64(c.BaudRate)
}

// uint32Flag implements flag.Value for uint32 fields.
type uint32Flag struct {
	p *uint32
}

func (v uint32Flag) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*v.p), 10)
}

func (v uint32Flag) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*v.p = uint32(n)
	return nil
}

func flagUint32(p *uint32, name, usage string) {
	flag.Var(uint32Flag{p}, name, usage)
}
