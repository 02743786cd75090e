package store

import (
	"sync"

	"github.com/vitalwear/vitalcore/ringbuf"
	"github.com/vitalwear/vitalcore/transport"
)

// Sample is one ring-buffer slot: Present is false for a gap (a slot
// never written, or a device disconnected before filling it).
type Sample struct {
	Value   int32
	Present bool
}

// channelBuffer is the per-channel ring buffer backing a sample stream.
// Physical capacity is max(histAPI, histAnalytics); ObserverView and
// AnalysisView are contiguous slices of that one buffer.
type channelBuffer struct {
	Type          transport.ChannelType
	buf           *ringbuf.Buffer[Sample]
	histAPI       int
	histAnalytics int
	counter       int
}

func newChannelBuffer(chType transport.ChannelType, histAPI, histAnalytics int) *channelBuffer {
	capacity := histAPI
	if histAnalytics > capacity {
		capacity = histAnalytics
	}
	return &channelBuffer{
		Type:          chType,
		buf:           ringbuf.New(capacity, Sample{}),
		histAPI:       histAPI,
		histAnalytics: histAnalytics,
	}
}

// SampleStore holds one channelBuffer per known channel, keyed by
// channel id. Like DeviceStore it is safe for concurrent readers; the
// event bus is the only writer.
type SampleStore struct {
	mu       sync.RWMutex
	channels map[string]*channelBuffer
}

// NewSampleStore constructs an empty SampleStore.
func NewSampleStore() *SampleStore {
	return &SampleStore{channels: make(map[string]*channelBuffer)}
}

// AddChannel creates a buffer for channelID sized to the given observer
// and analysis window lengths. It is a no-op if the channel already exists.
func (s *SampleStore) AddChannel(channelID string, chType transport.ChannelType, histAPI, histAnalytics int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[channelID]; ok {
		return
	}
	s.channels[channelID] = newChannelBuffer(chType, histAPI, histAnalytics)
}

// RemoveChannel drops a channel's buffer entirely, e.g. on device disconnect.
func (s *SampleStore) RemoveChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, channelID)
}

// AppendResult is the outcome of a successful Append.
type AppendResult struct {
	Type          transport.ChannelType
	ObserverView  []Sample
	AnalysisView  []Sample
	Counter       int
}

// Append writes samples (present values) into channelID's buffer,
// advances its datapoint counter by len(samples), and returns the
// current observer- and analysis-length views. ok is false if
// channelID is unknown -- e.g. the device disconnected between frame
// arrival and bus dispatch -- in which case the buffer is untouched.
func (s *SampleStore) Append(channelID string, samples []int32) (AppendResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb, ok := s.channels[channelID]
	if !ok {
		return AppendResult{}, false
	}
	for _, v := range samples {
		cb.buf.Write(Sample{Value: v, Present: true})
	}
	cb.counter += len(samples)
	return AppendResult{
		Type:         cb.Type,
		ObserverView: cloneSamples(cb.buf.Slice(cb.histAPI)),
		AnalysisView: cloneSamples(cb.buf.Slice(cb.histAnalytics)),
		Counter:      cb.counter,
	}, true
}

// ResetCounter zeroes channelID's datapoint counter after an analysis
// run. It is a no-op if channelID is unknown.
func (s *SampleStore) ResetCounter(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cb, ok := s.channels[channelID]; ok {
		cb.counter = 0
	}
}

func cloneSamples(src []Sample) []Sample {
	out := make([]Sample, len(src))
	copy(out, src)
	return out
}
