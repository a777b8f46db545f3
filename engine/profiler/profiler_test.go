package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickBeforeInterval(t *testing.T) {
	p := NewProfiler()
	assert.False(t, p.Tick(), "should not log before the interval elapses")
}

func TestRecordCullAccumulatesAndResetsOnTick(t *testing.T) {
	p := NewProfiler()

	p.RecordCull(5000, 1200)
	p.RecordCull(5000, 800)
	assert.Equal(t, uint64(10000), p.cullSubmitted)
	assert.Equal(t, uint64(2000), p.cullDrawn)

	// Force the interval to elapse so this tick logs and resets.
	p.lastTime = time.Now().Add(-2 * time.Second)
	assert.True(t, p.Tick())

	assert.Zero(t, p.cullSubmitted)
	assert.Zero(t, p.cullDrawn)
	assert.Zero(t, p.frameCount)
}
