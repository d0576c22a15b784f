package focuslog

import (
	"time"

	"ainotebook/internal/pomodoro"
)

// Session is one recorded pomodoro, finished or abandoned.
type Session struct {
	ID        int64
	NoteID    string
	StartedAt time.Time
	StoppedAt time.Time
	Focused   time.Duration
	Completed bool
}

// Tracker turns timer events into sessions. It is not safe for concurrent
// use; feed it from the goroutine that consumes the events.
type Tracker struct {
	open      bool
	startedAt time.Time
	noteID    string
}

// Observe returns a finished session when ev closes one, nil otherwise.
// noteID is attached to a session when it begins.
func (t *Tracker) Observe(ev pomodoro.Event, noteID string) *Session {
	switch ev.Type {
	case pomodoro.EventStarted:
		if ev.Previous.Status == pomodoro.StatusIdle || !t.open {
			t.open = true
			t.startedAt = ev.At
			t.noteID = noteID
		}
	case pomodoro.EventExpired:
		return t.finish(ev.At, ev.State.Elapsed(), true)
	case pomodoro.EventStopped:
		if ev.Previous.Status == pomodoro.StatusExpired {
			return nil
		}
		return t.finish(ev.At, ev.Previous.Elapsed(), false)
	}
	return nil
}

// Flush closes the open session, if any. It counts as completed when the
// timer already expired and the Expired event was never observed.
func (t *Tracker) Flush(state pomodoro.State, now time.Time) *Session {
	return t.finish(now, state.Elapsed(), state.Status == pomodoro.StatusExpired)
}

func (t *Tracker) Active() bool {
	return t.open
}

func (t *Tracker) finish(at time.Time, elapsedSeconds int, completed bool) *Session {
	if !t.open {
		return nil
	}
	s := &Session{
		NoteID:    t.noteID,
		StartedAt: t.startedAt,
		StoppedAt: at,
		Focused:   time.Duration(elapsedSeconds) * time.Second,
		Completed: completed,
	}
	*t = Tracker{}
	return s
}
