package pomodoro

import "fmt"

// TotalSeconds is the length of one focus session.
const TotalSeconds = 25 * 60

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusExpired:
		return "expired"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// State is a snapshot of the countdown. The display values below are
// computed from it and never stored.
type State struct {
	Remaining int
	Total     int
	Status    Status
}

func NewState() State {
	return State{
		Remaining: TotalSeconds,
		Total:     TotalSeconds,
		Status:    StatusIdle,
	}
}

// Initial reports whether the state is the untouched starting point.
func (s State) Initial() bool {
	return s.Status == StatusIdle && s.Remaining == s.Total
}

// Elapsed is the number of seconds counted down so far.
func (s State) Elapsed() int {
	return s.Total - s.Remaining
}

func (s State) FormattedTime() string {
	return fmt.Sprintf("%02d:%02d", s.Remaining/60, s.Remaining%60)
}

func (s State) MinuteHandAngle() int {
	return (25 - s.Remaining/60) * 6
}

// SecondHandAngle is normalised to [0, 360) so a full minute points at 12.
func (s State) SecondHandAngle() int {
	return ((60 - s.Remaining%60) * 6) % 360
}

func (s State) ProgressPercent() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Total-s.Remaining) / float64(s.Total) * 100
}
