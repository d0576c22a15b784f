package pomodoro

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattedTime(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
	}{
		{1500, "25:00"},
		{1499, "24:59"},
		{600, "10:00"},
		{61, "01:01"},
		{59, "00:59"},
		{0, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := State{Remaining: tt.remaining, Total: TotalSeconds}
			assert.Equal(t, tt.want, s.FormattedTime())
		})
	}
}

func TestFormattedTimeCoversWholeRange(t *testing.T) {
	for r := 0; r <= TotalSeconds; r++ {
		s := State{Remaining: r, Total: TotalSeconds}
		parts := strings.Split(s.FormattedTime(), ":")
		if !assert.Len(t, parts, 2, "remaining=%d", r) {
			continue
		}
		m, errM := strconv.Atoi(parts[0])
		sec, errS := strconv.Atoi(parts[1])
		assert.NoError(t, errM)
		assert.NoError(t, errS)
		assert.Equal(t, r, m*60+sec, "remaining=%d", r)
		assert.Len(t, parts[0], 2)
		assert.Len(t, parts[1], 2)
	}
}

func TestHandAngles(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		minute    int
		second    int
	}{
		{"full", 1500, 0, 0},
		{"one second in", 1499, 6, 6},
		{"half a minute in", 1470, 6, 180},
		{"five minutes left", 300, 120, 0},
		{"expired", 0, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Remaining: tt.remaining, Total: TotalSeconds}
			assert.Equal(t, tt.minute, s.MinuteHandAngle())
			assert.Equal(t, tt.second, s.SecondHandAngle())
		})
	}
}

func TestProgressPercent(t *testing.T) {
	assert.InDelta(t, 0, State{Remaining: 1500, Total: 1500}.ProgressPercent(), 1e-9)
	assert.InDelta(t, 20, State{Remaining: 1200, Total: 1500}.ProgressPercent(), 1e-9)
	assert.InDelta(t, 100, State{Remaining: 0, Total: 1500}.ProgressPercent(), 1e-9)
	assert.Zero(t, State{}.ProgressPercent())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "paused", StatusPaused.String())
	assert.Equal(t, "expired", StatusExpired.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
