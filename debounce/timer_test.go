package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

const waitFor = time.Second

func TestScheduleFiresAfterDelay(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Now())
	timer := New(fc)

	var fired int32
	timer.Schedule(300*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	require.True(t, timer.Pending())

	fc.Step(299 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&fired))

	fc.Step(time.Millisecond)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, waitFor, time.Millisecond)
	require.Eventually(t, func() bool { return !timer.Pending() }, waitFor, time.Millisecond)
}

func TestScheduleDebouncesBursts(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Now())
	timer := New(fc)

	var first, last int32
	timer.Schedule(300*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	for i := 0; i < 5; i++ {
		fc.Step(100 * time.Millisecond)
		timer.Schedule(300*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	}
	timer.Schedule(300*time.Millisecond, func() { atomic.AddInt32(&last, 1) })

	fc.Step(299 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&first)+atomic.LoadInt32(&last))

	fc.Step(time.Millisecond)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&last) == 1 }, waitFor, time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&first))
}

func TestCancel(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Now())
	timer := New(fc)

	var fired int32
	timer.Schedule(50*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	timer.Cancel()
	require.False(t, timer.Pending())

	fc.Step(time.Second)
	require.Never(t, func() bool { return atomic.LoadInt32(&fired) != 0 }, 50*time.Millisecond, 5*time.Millisecond)

	// cancelling twice is harmless
	timer.Cancel()
}
