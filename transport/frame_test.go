package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildFrame(seq byte, ecg [3]int16, green, red, ir [3]uint16) []byte {
	payload := make([]byte, DataFrameLen)
	payload[0] = seq
	for i := 0; i < 3; i++ {
		base := 1 + i*8
		payload[base] = byte(ecg[i])
		payload[base+1] = byte(uint16(ecg[i]) >> 8)
		payload[base+2] = byte(green[i])
		payload[base+3] = byte(green[i] >> 8)
		payload[base+4] = byte(red[i])
		payload[base+5] = byte(red[i] >> 8)
		payload[base+6] = byte(ir[i])
		payload[base+7] = byte(ir[i] >> 8)
	}
	return payload
}

func TestInferLayoutWithECG(t *testing.T) {
	t.Parallel()

	frame := buildFrame(1, [3]int16{100, 101, 102}, [3]uint16{1, 2, 3}, [3]uint16{4, 5, 6}, [3]uint16{7, 8, 9})
	layout, err := InferLayout(frame)
	assert.NoError(t, err)
	assert.True(t, layout.HasECG)
}

func TestInferLayoutPPGOnly(t *testing.T) {
	t.Parallel()

	frame := buildFrame(1, [3]int16{0, 0, 0}, [3]uint16{1, 2, 3}, [3]uint16{4, 5, 6}, [3]uint16{7, 8, 9})
	layout, err := InferLayout(frame)
	assert.NoError(t, err)
	assert.False(t, layout.HasECG)
}

func TestDecodeFrame(t *testing.T) {
	t.Parallel()

	frame := buildFrame(42, [3]int16{-5, -6, -7}, [3]uint16{10, 20, 30}, [3]uint16{40, 50, 60}, [3]uint16{70, 80, 90})
	got, err := DecodeFrame(frame)
	assert.NoError(t, err)
	assert.Equal(t, byte(42), got.Seq)
	assert.Equal(t, [3]int16{-5, -6, -7}, got.ECG)
	assert.Equal(t, [3]uint16{10, 20, 30}, got.PPGGreen)
	assert.Equal(t, [3]uint16{40, 50, 60}, got.PPGRed)
	assert.Equal(t, [3]uint16{70, 80, 90}, got.PPGIR)
}

func TestDecodeFrameRejectsWrongLength(t *testing.T) {
	t.Parallel()

	_, err := DecodeFrame([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidDataFrame)
}

func TestParseChannelMapping(t *testing.T) {
	t.Parallel()

	got, err := ParseChannelMapping("CNT,ECG,PPG,PPG,PPG")
	assert.NoError(t, err)
	assert.Equal(t, []ChannelType{ChannelCounter, ChannelECG, ChannelPPG, ChannelPPG, ChannelPPG}, got)
}

func TestParseChannelMappingRejectsUnknownTag(t *testing.T) {
	t.Parallel()

	_, err := ParseChannelMapping("CNT,XYZ")
	assert.Error(t, err)
}
