package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalwear/vitalcore/transport"
)

func fourChannelDevice(id string) Device {
	return Device{
		ID:        id,
		Serial:    1,
		Name:      "Device 1",
		Battery:   80,
		Connected: true,
		Channels: []Channel{
			{ID: id + "-1", Name: "PPG1", Type: transport.ChannelPPG},
			{ID: id + "-2", Name: "PPG2", Type: transport.ChannelPPG},
			{ID: id + "-3", Name: "PPG3", Type: transport.ChannelPPG},
			{ID: id + "-4", Name: "ECG", Type: transport.ChannelECG},
		},
	}
}

// TestConnectDisconnectInvariant runs a device through connect then
// disconnect: after both events the device store holds
// exactly one device, disconnected, with drift and all channel
// qualities cleared.
func TestConnectDisconnectInvariant(t *testing.T) {
	t.Parallel()

	s := NewDeviceStore()
	d := fourChannelDevice("00:11:22:33:00:01")
	d.DriftUs = 500
	for i := range d.Channels {
		d.Channels[i] = d.Channels[i].WithQuality(0.9)
	}
	s.Upsert(d)

	ok := s.MarkDisconnected(d.ID)
	assert.True(t, ok)

	values := s.Values()
	assert.Len(t, values, 1)
	got := values[0]
	assert.False(t, got.Connected)
	assert.Zero(t, got.DriftUs)
	for _, ch := range got.Channels {
		assert.Nil(t, ch.Quality)
	}
}

func TestMarkDisconnectedUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	s := NewDeviceStore()
	assert.False(t, s.MarkDisconnected("nonexistent"))
	assert.Empty(t, s.Values())
}

func TestChannelWithQualityDerivesStatus(t *testing.T) {
	t.Parallel()

	c := Channel{ID: "c"}
	ok := c.WithQuality(0.9)
	assert.Equal(t, ChannelOk, ok.Status)

	bad := c.WithQuality(0.5)
	assert.Equal(t, ChannelSignalIssue, bad.Status)
}
