package timesync

import (
	"time"

	"github.com/vitalwear/vitalcore/transport"
)

// defaultMaxAttempts bounds the number of write/read exchanges Sync
// will perform before giving up and reporting the last measurement anyway.
const defaultMaxAttempts = 5

// Syncer runs the clock-alignment exchange against a device's time
// characteristic. A nil Now falls back to time.Now and a non-positive
// MaxAttempts to the default budget; with a zero MaxInitialRTTMs no
// reading is ever accepted. New fills in all three.
type Syncer struct {
	// Now returns the current host time. Defaults to time.Now; tests
	// substitute a deterministic clock.
	Now func() time.Time

	// MaxInitialRTTMs bounds |rtt| for a reading to be accepted.
	MaxInitialRTTMs int

	// MaxAttempts bounds retries. Defaults to 5 if <= 0.
	MaxAttempts int
}

// New constructs a Syncer with the given acceptance tolerance, using
// the real wall clock and the default retry budget.
func New(maxInitialRTTMs int) *Syncer {
	return &Syncer{
		Now:             time.Now,
		MaxInitialRTTMs: maxInitialRTTMs,
		MaxAttempts:     defaultMaxAttempts,
	}
}

// SyncOnce performs a single write/read exchange against ch and returns
// the derived drift in microseconds: host time immediately after the
// read, minus the device time decoded from the characteristic.
func (s *Syncer) SyncOnce(ch transport.Characteristic) (driftUs int64, err error) {
	now := s.now()
	payload := transport.EncodeTime(now)
	if _, err := ch.WriteWithoutResponse(payload); err != nil {
		return 0, err
	}

	buf := make([]byte, transport.TimeFrameLen)
	n, err := ch.Read(buf)
	if err != nil {
		return 0, err
	}
	readAt := s.now()

	decoded, err := transport.DecodeTime(buf[:n])
	if err != nil {
		return 0, err
	}

	return readAt.Sub(decoded).Microseconds(), nil
}

// Sync runs SyncOnce up to MaxAttempts times, stopping as soon as a
// reading's absolute value is within MaxInitialRTTMs milliseconds. It
// returns the last measurement and whether it was accepted; a
// transport error on any attempt aborts immediately and is returned.
func (s *Syncer) Sync(ch transport.Characteristic) (driftUs int64, accepted bool, err error) {
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	tolerance := int64(s.MaxInitialRTTMs) * 1000
	var last int64
	for i := 0; i < attempts; i++ {
		drift, serr := s.SyncOnce(ch)
		if serr != nil {
			return last, false, serr
		}
		last = drift
		if abs64(drift) < tolerance {
			return last, true, nil
		}
	}
	return last, false, nil
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
