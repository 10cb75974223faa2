package mqtt

import (
	"encoding/json"
	"flag"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/sim/report"
	"github.com/robotalks/uartsim/pkg/uart"
)

type published struct {
	topic   string
	payload []byte
}

type fakeSender struct {
	msgs   []published
	closed bool
}

func (s *fakeSender) Pub(topic string, payload []byte) paho.Token {
	s.msgs = append(s.msgs, published{topic: topic, payload: payload})
	return &paho.DummyToken{}
}

func (s *fakeSender) Close() error {
	s.closed = true
	return nil
}

func TestTopics(t *testing.T) {
	require.Equal(t, "bench/a/events", EventTopic("bench", "a"))
	require.Equal(t, "bench/report", ReportTopicOf("bench"))

	bench, device, ok := SplitTopic("bench/a/events")
	require.True(t, ok)
	require.Equal(t, "bench", bench)
	require.Equal(t, "a", device)

	bench, device, ok = SplitTopic("bench/report")
	require.True(t, ok)
	require.Equal(t, "bench", bench)
	require.Empty(t, device)

	_, _, ok = SplitTopic("bench/a/status")
	require.False(t, ok)
}

func TestPublisher(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, "host1")
	p.HandleEvent(sim.Event{Tick: 3, Bench: "hello", Device: sim.DeviceB, Kind: sim.ByteReceived, Byte: 'H'})
	require.Len(t, sender.msgs, 1)
	require.Equal(t, "host1/b/events", sender.msgs[0].topic)
	var e sim.Event
	require.NoError(t, json.Unmarshal(sender.msgs[0].payload, &e))
	require.Equal(t, byte('H'), e.Byte)
	require.Equal(t, "hello", e.Bench)

	r := &report.Report{Name: "hello", Sent: []byte("Hi"), A: &report.DeviceReport{BaudRate: uart.DefaultBaudRate}}
	require.NoError(t, p.PublishReport(r))
	require.Len(t, sender.msgs, 2)
	require.Equal(t, "host1/report", sender.msgs[1].topic)
	decoded, err := report.Unmarshal(sender.msgs[1].payload)
	require.NoError(t, err)
	require.Equal(t, "host1", decoded.Host)
	require.Equal(t, uart.DefaultBaudRate, decoded.A.BaudRate)

	require.NoError(t, p.Close())
	require.True(t, sender.closed)
}

func TestConfig(t *testing.T) {
	conf := NewConfig()
	require.NotEmpty(t, conf.Bench)
	conf.BrokerURL = ""
	require.False(t, conf.Enabled())
	conf.BrokerURL = DefaultBrokerURL
	require.True(t, conf.Enabled())
}

func TestSetupFlags(t *testing.T) {
	SetupFlags()
	require.NoError(t, flag.CommandLine.Set("bench", "lab"))
	require.NoError(t, flag.CommandLine.Set("mqtt", DefaultBrokerURL))
	conf := NewConfig()
	require.Equal(t, "lab", conf.Bench)
	require.True(t, conf.Enabled())
}
