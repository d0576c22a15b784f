package pomodoro

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType names the transition an Event reports.
type EventType string

const (
	EventStarted EventType = "started"
	EventPaused  EventType = "paused"
	EventStopped EventType = "stopped"
	EventTick    EventType = "tick"
	EventExpired EventType = "expired"
)

// Event describes a single transition. Previous is the state right before
// it, State the state right after.
type Event struct {
	Type     EventType
	State    State
	Previous State
	At       time.Time
}

// Option configures an Engine in New.
type Option func(*Engine)

// WithScheduler replaces the default TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithInterval sets the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithOnExpire registers a notifier run once each time the countdown
// reaches zero.
func WithOnExpire(fn func()) Option {
	return func(e *Engine) { e.onExpire = fn }
}

// WithLogger sets the logger for transitions. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine owns one countdown and at most one outstanding periodic callback.
type Engine struct {
	mu        sync.Mutex
	state     State
	scheduler Scheduler
	interval  time.Duration
	cancel    func()
	gen       uint64
	onExpire  func()
	events    []chan Event
	closed    bool
	logger    *zap.Logger
	now       func() time.Time
}

// New returns an idle engine with the full session remaining.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:     NewState(),
		scheduler: TickerScheduler{},
		interval:  time.Second,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers an observer. Events are dropped when the channel
// buffer is full.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.events = append(e.events, ch)
	return ch
}

// Start begins or resumes the countdown. It reports false when the engine
// is already running, expired, or closed.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.Status == StatusRunning || e.state.Remaining <= 0 {
		return false
	}

	prev := e.state
	e.cancelLocked()
	e.state.Status = StatusRunning
	e.gen++
	gen := e.gen
	e.cancel = e.scheduler.Every(e.interval, func() { e.tick(gen) })

	e.logger.Debug("pomodoro started", zap.Int("remaining", e.state.Remaining))
	e.emitLocked(EventStarted, prev)
	return true
}

// Pause holds the countdown. It reports false unless the engine is running.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.Status != StatusRunning {
		return false
	}

	prev := e.state
	e.cancelLocked()
	e.state.Status = StatusPaused

	e.logger.Debug("pomodoro paused", zap.Int("remaining", e.state.Remaining))
	e.emitLocked(EventPaused, prev)
	return true
}

// Stop resets the countdown. Stopping an untouched idle timer is a no-op.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state.Initial() {
		return false
	}

	prev := e.state
	e.cancelLocked()
	e.state = NewState()

	e.logger.Debug("pomodoro stopped", zap.Int("elapsed", prev.Elapsed()))
	e.emitLocked(EventStopped, prev)
	return true
}

// Close cancels any scheduled callback and closes all subscriptions.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.cancelLocked()
	for _, ch := range e.events {
		close(ch)
	}
	e.events = nil
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen || e.state.Status != StatusRunning {
		e.mu.Unlock()
		return
	}

	prev := e.state
	e.state.Remaining--
	if e.state.Remaining > 0 {
		e.emitLocked(EventTick, prev)
		e.mu.Unlock()
		return
	}

	e.state.Remaining = 0
	e.state.Status = StatusExpired
	e.cancelLocked()
	e.logger.Info("pomodoro expired")
	e.emitLocked(EventExpired, prev)
	notify := e.onExpire
	e.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// cancelLocked releases the owned handle. A bumped generation makes any
// callback already in flight a no-op.
func (e *Engine) cancelLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) emitLocked(typ EventType, prev State) {
	ev := Event{
		Type:     typ,
		State:    e.state,
		Previous: prev,
		At:       e.now(),
	}
	for _, ch := range e.events {
		select {
		case ch <- ev:
		default:
		}
	}
}
