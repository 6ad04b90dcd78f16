package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAverage(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.010)
	}
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)
	assert.Equal(t, uint8(0), m.FrameAVGCounter)
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	// 1/64 s is exact in binary: 64 frames reach 1000ms, the 65th crosses it
	for i := 0; i < 65; i++ {
		m.Update(1.0 / 64.0)
	}
	fps, _ := m.Frame()
	assert.Equal(t, float64(65), fps)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	assert.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
