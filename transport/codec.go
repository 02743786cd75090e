package transport

import (
	"errors"
	"math"
	"time"
)

// microsecondStep is the size, in microseconds, of one tick of the
// fractional-second field in the time characteristic: 1/65536 s.
const microsecondStep = 15.2587890625

// TimeFrameLen is the fixed wire length of the current-time characteristic.
const TimeFrameLen = 11

// ErrInvalidTimeFrame is returned by DecodeTime for any payload that is
// not exactly TimeFrameLen bytes.
var ErrInvalidTimeFrame = errors.New("transport: time characteristic payload must be 11 bytes")

// EncodeTime renders t (evaluated in UTC) as an 11-byte current-time
// characteristic payload: little-endian year, month, day, hour, minute,
// second, day-of-week (Monday=0..Sunday=6), little-endian fractional
// seconds in 1/65536s units, and a reserved zero byte.
func EncodeTime(t time.Time) []byte {
	u := t.UTC()

	year := uint16(u.Year())
	weekday := (int(u.Weekday()) + 6) % 7
	fractionUnits := uint16(math.Round(float64(u.Nanosecond()) / 1000.0 / microsecondStep))

	return []byte{
		byte(year),
		byte(year >> 8),
		byte(u.Month()),
		byte(u.Day()),
		byte(u.Hour()),
		byte(u.Minute()),
		byte(u.Second()),
		byte(weekday),
		byte(fractionUnits),
		byte(fractionUnits >> 8),
		0,
	}
}

// DecodeTime parses an 11-byte current-time characteristic payload back
// into a UTC time.Time. The day-of-week byte is validated for length
// only; it plays no part in reconstructing the instant.
func DecodeTime(data []byte) (time.Time, error) {
	if len(data) != TimeFrameLen {
		return time.Time{}, ErrInvalidTimeFrame
	}

	year := int(data[0]) | int(data[1])<<8
	month := time.Month(data[2])
	day := int(data[3])
	hour := int(data[4])
	minute := int(data[5])
	second := int(data[6])
	fractionUnits := uint16(data[8]) | uint16(data[9])<<8

	fractionUs := math.Round(float64(fractionUnits) * microsecondStep)
	nanos := int(fractionUs) * 1000

	return time.Date(year, month, day, hour, minute, second, nanos, time.UTC), nil
}
