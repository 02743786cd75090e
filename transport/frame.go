package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ChannelType is the kind of signal carried by one channel of a data frame.
type ChannelType int

const (
	ChannelCounter ChannelType = iota
	ChannelECG
	ChannelPPG
)

func (c ChannelType) String() string {
	switch c {
	case ChannelCounter:
		return "CNT"
	case ChannelECG:
		return "ECG"
	case ChannelPPG:
		return "PPG"
	default:
		return "UNKNOWN"
	}
}

// DataFrameLen is the fixed wire length of a data-characteristic
// notification: one sequence byte followed by three tuples of four
// little-endian uint16 samples.
const DataFrameLen = 25

const samplesPerNotification = 3

// ErrInvalidDataFrame is returned when a data-characteristic payload is
// not exactly DataFrameLen bytes.
var ErrInvalidDataFrame = errors.New("transport: data frame payload must be 25 bytes")

// Layout describes which channels a device's data frames carry. Channel
// layout inference lives behind this one function (see InferLayout)
// rather than scattered across the decode path, since the byte-sniffing
// heuristic it implements is expected to be replaced by an explicit
// descriptor characteristic.
type Layout struct {
	HasECG bool
}

// InferLayout decides whether a device's ECG slot is live by checking
// whether the two bytes of each of its three per-tuple ECG samples are
// all zero in the first received frame. This is a heuristic standing in for an explicit
// channel-descriptor characteristic the hardware does not yet expose.
func InferLayout(frame []byte) (Layout, error) {
	if len(frame) != DataFrameLen {
		return Layout{}, ErrInvalidDataFrame
	}
	allZero := frame[1] == 0 && frame[2] == 0 &&
		frame[9] == 0 && frame[10] == 0 &&
		frame[17] == 0 && frame[18] == 0
	return Layout{HasECG: !allZero}, nil
}

// Frame is one decoded data-characteristic notification: a sequence
// byte and three successive samples per channel.
type Frame struct {
	Seq      byte
	ECG      [samplesPerNotification]int16
	PPGGreen [samplesPerNotification]uint16
	PPGRed   [samplesPerNotification]uint16
	PPGIR    [samplesPerNotification]uint16
}

// DecodeFrame decodes a 25-byte data-characteristic payload. The ECG
// slot is always decoded; callers should ignore it for devices whose
// Layout.HasECG is false (its bytes will be zero for such devices).
func DecodeFrame(payload []byte) (Frame, error) {
	if len(payload) != DataFrameLen {
		return Frame{}, ErrInvalidDataFrame
	}
	var f Frame
	f.Seq = payload[0]
	for i := 0; i < samplesPerNotification; i++ {
		base := 1 + i*8
		f.ECG[i] = int16(binary.LittleEndian.Uint16(payload[base : base+2]))
		f.PPGGreen[i] = binary.LittleEndian.Uint16(payload[base+2 : base+4])
		f.PPGRed[i] = binary.LittleEndian.Uint16(payload[base+4 : base+6])
		f.PPGIR[i] = binary.LittleEndian.Uint16(payload[base+6 : base+8])
	}
	return f, nil
}

// ParseChannelMapping decodes the fallback channel-descriptor format, a
// comma-separated list of channel type tags such as "CNT,ECG,PPG,PPG,PPG".
// It is not consumed by InferLayout/DecodeFrame today (see Layout), but
// is kept ready for the descriptor characteristic the hardware is
// expected to eventually expose.
func ParseChannelMapping(s string) ([]ChannelType, error) {
	parts := strings.Split(s, ",")
	out := make([]ChannelType, 0, len(parts))
	for _, p := range parts {
		switch strings.TrimSpace(p) {
		case "CNT":
			out = append(out, ChannelCounter)
		case "ECG":
			out = append(out, ChannelECG)
		case "PPG":
			out = append(out, ChannelPPG)
		default:
			return nil, fmt.Errorf("transport: unknown channel mapping tag %q", p)
		}
	}
	return out, nil
}
