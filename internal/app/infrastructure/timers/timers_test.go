package timers_test

import (
	"bytes"
	"chanmod/internal/app/infrastructure/timers"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newWheel(t *testing.T, slots int, opts ...timers.Option) *timers.TimingWheel {
	t.Helper()

	tw := timers.NewTimingWheel(logger.NewWithWriter(&bytes.Buffer{}), 5*time.Millisecond, slots, opts...)
	t.Cleanup(tw.Stop)
	return tw
}

func TestSchedule_FiresOnceNoEarlierThanDelay(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 16)

	var calls atomic.Int32
	var firedAt atomic.Int64
	delay := 40 * time.Millisecond
	start := time.Now()

	_, err := tw.Schedule(delay, map[string]any{"mask": "*!u@h"}, func(args map[string]any) error {
		assert.Equal(t, "*!u@h", args["mask"])
		calls.Add(1)
		firedAt.Store(time.Now().UnixNano())
		return nil
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, time.Duration(firedAt.Load()-start.UnixNano()), delay)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, tw.Pending())
}

func TestSchedule_NeverInline(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 16)

	var fired atomic.Bool
	_, err := tw.Schedule(time.Nanosecond, nil, func(map[string]any) error {
		fired.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, fired.Load())
	assert.Eventually(t, fired.Load, time.Second, time.Millisecond)
}

func TestSchedule_RejectsNonPositiveDelay(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 16)

	for _, d := range []time.Duration{0, -time.Second} {
		_, err := tw.Schedule(d, nil, func(map[string]any) error { return nil })
		assert.ErrorIs(t, err, timers.ErrInvalidDelay)
	}
	assert.Empty(t, tw.Pending())
}

func TestSchedule_BeyondOneRevolution(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 4)

	var calls atomic.Int32
	delay := 60 * time.Millisecond
	start := time.Now()
	_, err := tw.Schedule(delay, nil, func(map[string]any) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestCancel(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 16)

	var first, second atomic.Int32
	id1, err := tw.Schedule(30*time.Millisecond, map[string]any{"mask": "m"}, func(map[string]any) error {
		first.Add(1)
		return nil
	})
	require.NoError(t, err)
	id2, err := tw.Schedule(30*time.Millisecond, map[string]any{"mask": "m"}, func(map[string]any) error {
		second.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, tw.Pending(), 2)

	assert.True(t, tw.Cancel(id1))
	assert.False(t, tw.Cancel(id1))

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
	assert.False(t, tw.Cancel(id2))
}

func TestFailureIsReportedNotRetried(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var reported []error
	tw := newWheel(t, 16, timers.WithFailureHandler(func(_ ports.TaskID, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))

	var calls atomic.Int32
	boom := errors.New("channel gone")
	_, err := tw.Schedule(10*time.Millisecond, nil, func(map[string]any) error {
		calls.Add(1)
		return boom
	})
	require.NoError(t, err)
	_, err = tw.Schedule(10*time.Millisecond, nil, func(map[string]any) error {
		panic("unexpected")
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) == 2
	}, time.Second, time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, reported, 2)
	assert.Condition(t, func() bool {
		for _, err := range reported {
			if errors.Is(err, boom) {
				return true
			}
		}
		return false
	})
}

func TestPendingIsOrderedSnapshot(t *testing.T) {
	t.Parallel()
	tw := newWheel(t, 16)

	noop := func(map[string]any) error { return nil }
	args := map[string]any{"banmask": "a"}
	late, err := tw.Schedule(time.Hour, args, noop)
	require.NoError(t, err)
	early, err := tw.Schedule(time.Minute, map[string]any{"banmask": "b"}, noop)
	require.NoError(t, err)

	pending := tw.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, early, pending[0].ID)
	assert.Equal(t, late, pending[1].ID)

	pending[1].Args["banmask"] = "changed"
	assert.Equal(t, "a", args["banmask"])
}

func TestStopAbandonsPending(t *testing.T) {
	t.Parallel()
	tw := timers.NewTimingWheel(logger.NewWithWriter(&bytes.Buffer{}), 5*time.Millisecond, 8)

	var fired atomic.Bool
	_, err := tw.Schedule(20*time.Millisecond, nil, func(map[string]any) error {
		fired.Store(true)
		return nil
	})
	require.NoError(t, err)

	tw.Stop()
	tw.Stop()
	assert.Empty(t, tw.Pending())

	_, err = tw.Schedule(time.Millisecond, nil, func(map[string]any) error { return nil })
	assert.ErrorIs(t, err, timers.ErrStopped)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
