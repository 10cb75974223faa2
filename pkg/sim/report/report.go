// Package report encodes transfer results as protobuf messages.
package report

import (
	"bytes"

	"github.com/golang/protobuf/jsonpb"
	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/robotalks/uartsim/pkg/sim"
	"github.com/robotalks/uartsim/pkg/uart"
)

// FromResult converts a transfer result.
func FromResult(r *sim.Result) *Report {
	return &Report{
		Name:           r.Name,
		Sent:           r.Sent,
		Received:       r.Received,
		Intact:         uint32(r.Intact),
		CompletionRate: r.CompletionRate(),
		TimingRatio:    r.TimingRatio,
		Ticks:          r.Ticks,
		IdleTicks:      r.IdleTicks,
		Attempts:       r.Attempts,
		StateResets:    r.StateResets,
		Completed:      r.Completed,
		A:              deviceReport(sim.DeviceA, r.A, r.StatsA),
		B:              deviceReport(sim.DeviceB, r.B, r.StatsB),
	}
}

func deviceReport(name string, conf uart.Config, stats uart.Stats) *DeviceReport {
	return &DeviceReport{
		Name:          name,
		BaudRate:      conf.BaudRate,
		DataBits:      conf.DataBits,
		StopBits:      conf.StopBits,
		StartBits:     conf.StartBits,
		ReadyTicks:    stats.ReadyTicks,
		FramesSent:    stats.FramesSent,
		TxUnderruns:   stats.TxUnderruns,
		TxOverflow:    stats.TxOverflow,
		BitsLost:      stats.BitsLost,
		BytesReceived: stats.BytesReceived,
		FramingErrors: stats.FramingErrors,
		RxUnderruns:   stats.RxUnderruns,
		Resets:        stats.Resets,
	}
}

// Marshal encodes the report in protobuf wire format.
func Marshal(r *Report) ([]byte, error) {
	return proto.Marshal(r)
}

// Unmarshal decodes a report in protobuf wire format.
func Unmarshal(data []byte) (*Report, error) {
	r := &Report{}
	if err := proto.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(err, "decode report")
	}
	return r, nil
}

// MarshalJSON encodes the report in the protobuf JSON mapping with
// the proto field names.
func MarshalJSON(r *Report, indent string) ([]byte, error) {
	var buf bytes.Buffer
	m := jsonpb.Marshaler{OrigName: true, EmitDefaults: true, Indent: indent}
	if err := m.Marshal(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a report in the protobuf JSON mapping.
func UnmarshalJSON(data []byte) (*Report, error) {
	r := &Report{}
	if err := jsonpb.Unmarshal(bytes.NewReader(data), r); err != nil {
		return nil, errors.Wrap(err, "decode report json")
	}
	return r, nil
}
