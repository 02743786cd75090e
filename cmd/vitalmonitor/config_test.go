package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalwear/vitalcore/analysis"
)

func TestLoadFileConfigBlankPathIsNoOp(t *testing.T) {
	t.Parallel()

	fc, err := loadFileConfig("")
	require.NoError(t, err)
	assert.Nil(t, fc.HistSizeAPI)
	assert.Nil(t, fc.ECG)
}

func TestLoadFileConfigParsesOverlay(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vitalmonitor.yaml")
	contents := `
hist_size_api: 120
enable_mock_devices: true
sync_interval_sec: 60
ecg:
  hr_min: 45
ppg:
  fs_hz: 25
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	fc, err := loadFileConfig(path)
	require.NoError(t, err)
	require.NotNil(t, fc.HistSizeAPI)
	assert.Equal(t, 120, *fc.HistSizeAPI)
	require.NotNil(t, fc.EnableMockDevices)
	assert.True(t, *fc.EnableMockDevices)
	require.NotNil(t, fc.SyncIntervalSec)
	assert.Equal(t, 60, *fc.SyncIntervalSec)
	require.NotNil(t, fc.ECG)
	require.NotNil(t, fc.ECG.HRMin)
	assert.Equal(t, 45.0, *fc.ECG.HRMin)
	require.NotNil(t, fc.PPG)
	require.NotNil(t, fc.PPG.FsHz)
	assert.Equal(t, 25.0, *fc.PPG.FsHz)
}

func TestApplyToOverridesOnlySetFields(t *testing.T) {
	t.Parallel()

	base := analysis.ECGParams{FsHz: 130, HRMin: 40, HRMax: 180}
	hrMin := 50.0
	overlay := &ecgFileParams{HRMin: &hrMin}
	overlay.applyTo(&base)

	assert.Equal(t, 50.0, base.HRMin)
	assert.Equal(t, 180.0, base.HRMax)
	assert.Equal(t, 130.0, base.FsHz)
}
