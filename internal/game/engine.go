package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Sleeper suspends the calling goroutine for d. It returns early with the
// context's error when ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Engine drives every running game: it owns the registry, the timing table
// and the notification slots.
type Engine struct {
	store   *Store
	notify  *Notifications
	timings Timings
	rules   *Ruleset
	sleep   Sleeper
	pace    Sleeper
	shuffle func(n int, swap func(i, j int))
	now     func() time.Time

	loopsMu sync.Mutex
	loops   map[string]struct{}
}

type Option func(*Engine)

func WithTimings(t Timings) Option {
	return func(e *Engine) { e.timings = t }
}

func WithSleeper(sleep Sleeper) Option {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// WithMessageSleeper replaces the wait between queued message deliveries.
func WithMessageSleeper(sleep Sleeper) Option {
	return func(e *Engine) {
		if sleep != nil {
			e.pace = sleep
		}
	}
}

func WithRuleset(rules *Ruleset) Option {
	return func(e *Engine) {
		if rules != nil {
			e.rules = rules
		}
	}
}

// WithShuffle replaces the random permutation used for POI selection.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(e *Engine) {
		if shuffle != nil {
			e.shuffle = shuffle
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(store *Store, notify *Notifications, opts ...Option) *Engine {
	if store == nil {
		store = NewStore()
	}
	if notify == nil {
		notify = NewNotifications()
	}
	e := &Engine{
		store:   store,
		notify:  notify,
		timings: DefaultTimings(),
		rules:   DefaultRuleset(),
		sleep:   SleepContext,
		pace:    SleepContext,
		shuffle: rand.Shuffle,
		now:     func() time.Time { return time.Now().UTC() },
		loops:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Store() *Store                  { return e.store }
func (e *Engine) Notifications() *Notifications { return e.notify }
func (e *Engine) Timings() Timings              { return e.timings }
func (e *Engine) Ruleset() *Ruleset             { return e.rules }

// Running reports whether a loop currently owns the lobby.
func (e *Engine) Running(code string) bool {
	e.loopsMu.Lock()
	defer e.loopsMu.Unlock()
	_, ok := e.loops[code]
	return ok
}

func (e *Engine) claim(code string) bool {
	e.loopsMu.Lock()
	defer e.loopsMu.Unlock()
	if _, ok := e.loops[code]; ok {
		return false
	}
	e.loops[code] = struct{}{}
	return true
}

func (e *Engine) release(code string) {
	e.loopsMu.Lock()
	delete(e.loops, code)
	e.loopsMu.Unlock()
}

func (e *Engine) lookup(code string) (*Game, error) {
	game, ok := e.store.Get(code)
	if !ok {
		return nil, errGameNotFound(code)
	}
	return game, nil
}

func (e *Engine) announcePhase(code string, phase Phase) {
	e.notify.updateTimer(code, TimerUpdate{
		Phase:  phase,
		Length: e.timings.Duration(phase),
		Start:  e.now(),
	})
}
