package peripheral

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vitalwear/vitalcore/store"
	"github.com/vitalwear/vitalcore/transport"
)

// serialFromMAC derives a Device.Serial from the last two octets of a
// colon-separated MAC address, read as a big-endian uint16. A malformed
// address yields 0
// rather than an error, since the serial is advisory identity, not a
// protocol value anything downstream depends on for correctness.
func serialFromMAC(mac string) uint16 {
	parts := strings.Split(mac, ":")
	if len(parts) < 2 {
		return 0
	}
	last := parts[len(parts)-2] + parts[len(parts)-1]
	v, err := strconv.ParseUint(last, 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

// channelSet records which channel id (mac-ordinal) carries which role
// within one device's data frames. ecgID is empty for a PPG-only device.
type channelSet struct {
	counterID string
	ecgID     string
	greenID   string
	redID     string
	irID      string
}

// buildChannels assigns ids and metadata to every channel a device's
// layout implies and returns both the channelSet used to route decoded
// frame fields and the store.Channel records published on
// DeviceConnected. The order follows the default mapping
// "CNT,ECG,PPG,PPG,PPG" (ECG omitted for PPG-only devices).
func buildChannels(mac string, layout transport.Layout) (channelSet, []store.Channel) {
	ordinal := 0
	var cs channelSet
	var channels []store.Channel

	add := func(name string, typ transport.ChannelType) string {
		id := fmt.Sprintf("%s-%d", mac, ordinal)
		ordinal++
		channels = append(channels, store.Channel{ID: id, Name: name, Type: typ})
		return id
	}

	cs.counterID = add("CNT", transport.ChannelCounter)
	if layout.HasECG {
		cs.ecgID = add("ECG", transport.ChannelECG)
	}
	cs.greenID = add("PPG Green", transport.ChannelPPG)
	cs.redID = add("PPG Red", transport.ChannelPPG)
	cs.irID = add("PPG IR", transport.ChannelPPG)

	return cs, channels
}

// frameSamples maps one decoded data frame onto the channel ids that
// should receive its per-tuple values. The counter channel receives a
// single sample per notification (the frame's sequence byte); every
// other channel receives the frame's full per-notification tuple.
func frameSamples(f transport.Frame, cs channelSet) map[string][]int32 {
	out := map[string][]int32{
		cs.counterID: {int32(f.Seq)},
		cs.greenID:   toInt32U(f.PPGGreen[:]),
		cs.redID:     toInt32U(f.PPGRed[:]),
		cs.irID:      toInt32U(f.PPGIR[:]),
	}
	if cs.ecgID != "" {
		out[cs.ecgID] = toInt32S(f.ECG[:])
	}
	return out
}

func toInt32U(src []uint16) []int32 {
	out := make([]int32, len(src))
	for i, v := range src {
		out[i] = int32(v)
	}
	return out
}

func toInt32S(src []int16) []int32 {
	out := make([]int32, len(src))
	for i, v := range src {
		out[i] = int32(v)
	}
	return out
}
