package store

import (
	"sync"

	"github.com/vitalwear/vitalcore/transport"
)

// ChannelStatus is a coarse, threshold-derived summary of Channel.Quality
// intended to drive a UI badge without the observer recomputing the
// threshold itself.
type ChannelStatus int

const (
	ChannelOk ChannelStatus = iota
	ChannelSignalIssue
)

// channelStatusThreshold is the signal_quality cutoff below which a
// channel is reported as having a signal issue.
const channelStatusThreshold = 0.75

// Channel is one sampled signal within a Device.
type Channel struct {
	ID      string
	Name    string
	Type    transport.ChannelType
	Quality *float64
	Status  ChannelStatus
}

// WithQuality returns a copy of c with Quality and Status set from q.
func (c Channel) WithQuality(q float64) Channel {
	c.Quality = &q
	if q >= channelStatusThreshold {
		c.Status = ChannelOk
	} else {
		c.Status = ChannelSignalIssue
	}
	return c
}

// Device is one discovered/connected peripheral and its channels.
type Device struct {
	ID        string
	Serial    uint16
	Name      string
	Battery   uint8
	DriftUs   int64
	Connected bool
	Channels  []Channel
}

func cloneChannels(src []Channel) []Channel {
	out := make([]Channel, len(src))
	copy(out, src)
	return out
}

// DeviceStore holds the current record for every known device, keyed by
// device id. Entries are never removed: a disconnect only flips
// Connected to false, so that late-arriving events for a device id are
// ignored rather than resurrecting or panicking on an unknown id.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]Device
}

// NewDeviceStore constructs an empty DeviceStore.
func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[string]Device)}
}

// Upsert inserts or replaces the record for d.ID.
func (s *DeviceStore) Upsert(d Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Channels = cloneChannels(d.Channels)
	s.devices[d.ID] = d
}

// Get returns the device for id and whether it exists.
func (s *DeviceStore) Get(id string) (Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[id]
	if ok {
		d.Channels = cloneChannels(d.Channels)
	}
	return d, ok
}

// Mutate applies fn to the stored device for id, under the write lock,
// and reports whether id was known. fn receives a pointer to a working
// copy; the copy is written back only if id existed.
func (s *DeviceStore) Mutate(id string, fn func(*Device)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[id]
	if !ok {
		return false
	}
	d.Channels = cloneChannels(d.Channels)
	fn(&d)
	s.devices[id] = d
	return true
}

// MarkDisconnected resets a device's connection-derived fields per the
// disconnect invariant: Connected=false, DriftUs=0, every channel's
// Quality cleared. It is a no-op if id is unknown.
func (s *DeviceStore) MarkDisconnected(id string) bool {
	return s.Mutate(id, func(d *Device) {
		d.Connected = false
		d.DriftUs = 0
		for i := range d.Channels {
			d.Channels[i].Quality = nil
			d.Channels[i].Status = ChannelOk
		}
	})
}

// UpdateChannelQuality finds the channel with the given id across all
// devices and applies a new quality score to it. It reports whether a
// matching channel was found.
func (s *DeviceStore) UpdateChannelQuality(channelID string, quality float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.devices {
		for i := range d.Channels {
			if d.Channels[i].ID != channelID {
				continue
			}
			d.Channels[i] = d.Channels[i].WithQuality(quality)
			s.devices[id] = d
			return true
		}
	}
	return false
}

// Values returns a snapshot of every known device, in no particular order.
func (s *DeviceStore) Values() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		d.Channels = cloneChannels(d.Channels)
		out = append(out, d)
	}
	return out
}
