package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStageAverageSpansFrames(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(time.Hour))

	p.Record("shadow", 2*time.Millisecond)
	assert.False(t, p.Tick())
	p.Record("shadow", 4*time.Millisecond)
	assert.False(t, p.Tick())

	assert.Equal(t, 3*time.Millisecond, p.StageAverage("shadow"))
	assert.Zero(t, p.StageAverage("capture"))
}

func TestTickReportsAndResets(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0))
	p.Record("final", time.Millisecond)

	assert.True(t, p.Tick())
	assert.Zero(t, p.StageAverage("final"))
}

func TestMeasureRecords(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(time.Hour))
	stop := p.Measure("light")
	time.Sleep(time.Millisecond)
	stop()
	assert.GreaterOrEqual(t, p.StageAverage("light"), time.Millisecond)
}
