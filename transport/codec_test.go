package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEncodeTimeLiteralVector(t *testing.T) {
	t.Parallel()

	tm := time.Date(2023, time.April, 1, 12, 34, 56, 789001000, time.UTC)
	got := EncodeTime(tm)
	want := []byte{0xE7, 0x07, 4, 1, 12, 34, 56, 5, 0xFC, 0xC9, 0}
	assert.Equal(t, want, got)
}

func TestDecodeTimeLiteralVector(t *testing.T) {
	t.Parallel()

	data := []byte{0xE7, 0x07, 4, 1, 12, 34, 56, 5, 0xFC, 0xC9, 0}
	got, err := DecodeTime(data)
	assert.NoError(t, err)
	want := time.Date(2023, time.April, 1, 12, 34, 56, 789001000, time.UTC)
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
}

func TestDecodeTimeRejectsWrongLength(t *testing.T) {
	t.Parallel()

	_, err := DecodeTime([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidTimeFrame)
}

// TestTimeCodecRoundTrip checks the codec's round-trip law
// encode(decode(b)) == b, where b is the encoding of a time whose
// fractional second already sits on a whole-unit boundary.
func TestTimeCodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(2000, 2099).Draw(t, "year")
		month := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 28).Draw(t, "day")
		hour := rapid.IntRange(0, 23).Draw(t, "hour")
		minute := rapid.IntRange(0, 59).Draw(t, "minute")
		second := rapid.IntRange(0, 59).Draw(t, "second")
		units := rapid.IntRange(0, 65535).Draw(t, "units")

		micros := float64(units) * microsecondStep
		nanos := int(micros) * 1000

		tm := time.Date(year, time.Month(month), day, hour, minute, second, nanos, time.UTC)
		encoded := EncodeTime(tm)
		decoded, err := DecodeTime(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		reencoded := EncodeTime(decoded)
		for i := range encoded {
			if encoded[i] != reencoded[i] {
				t.Fatalf("byte %d mismatch: %x vs %x", i, encoded[i], reencoded[i])
			}
		}
	})
}
