package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerTicksOncePerSecond(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var last atomic.Int64
	tm := NewTimer(fc, func(e int) { last.Store(int64(e)) })

	assert.False(t, tm.running())
	tm.Start()
	tm.Start() // no second ticker
	assert.True(t, tm.running())

	for i := 1; i <= 3; i++ {
		fc.Advance(time.Second)
		want := int64(i)
		require.Eventually(t, func() bool { return last.Load() == want }, time.Second, time.Millisecond)
	}
	assert.Equal(t, 3, tm.Elapsed())

	tm.Stop()
	assert.False(t, tm.running())
	fc.Advance(5 * time.Second)
	assert.Never(t, func() bool { return tm.Elapsed() != 3 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.EqualValues(t, 3, last.Load())
}

func TestTimerDoesNotResumeWithoutStart(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tm := NewTimer(fc, nil)
	fc.Advance(3 * time.Second)
	assert.Zero(t, tm.Elapsed())

	tm.Start()
	fc.Advance(time.Second)
	require.Eventually(t, func() bool { return tm.Elapsed() == 1 }, time.Second, time.Millisecond)
	tm.Stop()
	tm.Stop()

	tm.Start()
	fc.Advance(time.Second)
	require.Eventually(t, func() bool { return tm.Elapsed() == 2 }, time.Second, time.Millisecond)
	tm.Stop()
}
