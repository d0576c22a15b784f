package pomodoro

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTickerSchedulerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	cancel := TickerScheduler{}.Every(time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	cancel()
}

func TestEngineWithTickerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := New(WithInterval(time.Millisecond))
	require.True(t, e.Start())

	require.Eventually(t, func() bool {
		return e.State().Remaining <= TotalSeconds-5
	}, time.Second, time.Millisecond)

	e.Close()
	frozen := e.State().Remaining
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, e.State().Remaining)
}
