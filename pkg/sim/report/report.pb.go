package report

import (
	proto "github.com/golang/protobuf/proto"
)

// DeviceReport is the configuration and counters of one device.
type DeviceReport struct {
	Name          string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	BaudRate      uint32 `protobuf:"varint,2,opt,name=baud_rate,json=baudRate,proto3" json:"baud_rate,omitempty"`
	DataBits      uint32 `protobuf:"varint,3,opt,name=data_bits,json=dataBits,proto3" json:"data_bits,omitempty"`
	StopBits      uint32 `protobuf:"varint,4,opt,name=stop_bits,json=stopBits,proto3" json:"stop_bits,omitempty"`
	StartBits     uint32 `protobuf:"varint,5,opt,name=start_bits,json=startBits,proto3" json:"start_bits,omitempty"`
	ReadyTicks    uint64 `protobuf:"varint,6,opt,name=ready_ticks,json=readyTicks,proto3" json:"ready_ticks,omitempty"`
	FramesSent    uint64 `protobuf:"varint,7,opt,name=frames_sent,json=framesSent,proto3" json:"frames_sent,omitempty"`
	TxUnderruns   uint64 `protobuf:"varint,8,opt,name=tx_underruns,json=txUnderruns,proto3" json:"tx_underruns,omitempty"`
	TxOverflow    uint64 `protobuf:"varint,9,opt,name=tx_overflow,json=txOverflow,proto3" json:"tx_overflow,omitempty"`
	BitsLost      uint64 `protobuf:"varint,10,opt,name=bits_lost,json=bitsLost,proto3" json:"bits_lost,omitempty"`
	BytesReceived uint64 `protobuf:"varint,11,opt,name=bytes_received,json=bytesReceived,proto3" json:"bytes_received,omitempty"`
	FramingErrors uint64 `protobuf:"varint,12,opt,name=framing_errors,json=framingErrors,proto3" json:"framing_errors,omitempty"`
	RxUnderruns   uint64 `protobuf:"varint,13,opt,name=rx_underruns,json=rxUnderruns,proto3" json:"rx_underruns,omitempty"`
	Resets        uint64 `protobuf:"varint,14,opt,name=resets,proto3" json:"resets,omitempty"`
}

// Reset implements proto.Message.
func (m *DeviceReport) Reset() { *m = DeviceReport{} }

// String implements proto.Message.
func (m *DeviceReport) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*DeviceReport) ProtoMessage() {}

// Report is the outcome of one transfer.
type Report struct {
	Name           string        `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Host           string        `protobuf:"bytes,2,opt,name=host,proto3" json:"host,omitempty"`
	Sent           []byte        `protobuf:"bytes,3,opt,name=sent,proto3" json:"sent,omitempty"`
	Received       []byte        `protobuf:"bytes,4,opt,name=received,proto3" json:"received,omitempty"`
	Intact         uint32        `protobuf:"varint,5,opt,name=intact,proto3" json:"intact,omitempty"`
	CompletionRate float64       `protobuf:"fixed64,6,opt,name=completion_rate,json=completionRate,proto3" json:"completion_rate,omitempty"`
	TimingRatio    float64       `protobuf:"fixed64,7,opt,name=timing_ratio,json=timingRatio,proto3" json:"timing_ratio,omitempty"`
	Ticks          uint64        `protobuf:"varint,8,opt,name=ticks,proto3" json:"ticks,omitempty"`
	IdleTicks      uint64        `protobuf:"varint,9,opt,name=idle_ticks,json=idleTicks,proto3" json:"idle_ticks,omitempty"`
	Attempts       uint64        `protobuf:"varint,10,opt,name=attempts,proto3" json:"attempts,omitempty"`
	StateResets    uint64        `protobuf:"varint,11,opt,name=state_resets,json=stateResets,proto3" json:"state_resets,omitempty"`
	Completed      bool          `protobuf:"varint,12,opt,name=completed,proto3" json:"completed,omitempty"`
	A              *DeviceReport `protobuf:"bytes,13,opt,name=a,proto3" json:"a,omitempty"`
	B              *DeviceReport `protobuf:"bytes,14,opt,name=b,proto3" json:"b,omitempty"`
}

// Reset implements proto.Message.
func (m *Report) Reset() { *m = Report{} }

// String implements proto.Message.
func (m *Report) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Report) ProtoMessage() {}
