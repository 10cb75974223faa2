package mqtt

import (
	"encoding/json"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/sim/report"
)

// Topic names under the bench level.
const (
	EventsTopic = "events"
	ReportTopic = "report"
)

// Sender publishes payloads. Queue implements it.
type Sender interface {
	Pub(topic string, payload []byte) paho.Token
	Close() error
}

// Publisher sends events as JSON on BENCH/DEVICE/events and reports
// as protobuf on BENCH/report.
type Publisher struct {
	Sender Sender
	Bench  string
}

// NewPublisher creates a Publisher.
func NewPublisher(sender Sender, bench string) *Publisher {
	return &Publisher{Sender: sender, Bench: bench}
}

// EventTopic is the topic events of a device are published on.
func EventTopic(bench, device string) string {
	return strings.Join([]string{bench, device, EventsTopic}, "/")
}

// ReportTopicOf is the topic reports of a bench are published on.
func ReportTopicOf(bench string) string {
	return bench + "/" + ReportTopic
}

// SplitTopic extracts bench and device from an event topic. Device is
// empty for a report topic.
func SplitTopic(topic string) (bench, device string, ok bool) {
	tokens := strings.Split(topic, "/")
	switch {
	case len(tokens) == 3 && tokens[2] == EventsTopic:
		return tokens[0], tokens[1], true
	case len(tokens) == 2 && tokens[1] == ReportTopic:
		return tokens[0], "", true
	}
	return "", "", false
}

// HandleEvent implements sim.EventListener.
func (p *Publisher) HandleEvent(e sim.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		glog.Errorf("encode event error: %v", err)
		return
	}
	p.Sender.Pub(EventTopic(p.Bench, e.Device), payload)
}

// PublishReport sends a report and waits until it's delivered.
func (p *Publisher) PublishReport(r *report.Report) error {
	if r.Host == "" {
		r.Host = p.Bench
	}
	payload, err := report.Marshal(r)
	if err != nil {
		return err
	}
	token := p.Sender.Pub(ReportTopicOf(p.Bench), payload)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (p *Publisher) Close() error {
	return p.Sender.Close()
}
