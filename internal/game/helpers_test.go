package game

import (
	"context"
	"sync"
	"testing"
	"time"
)

func testTimings() Timings {
	return Timings{
		SetupGrace:       1 * time.Millisecond,
		InformationDelay: 2 * time.Millisecond,
		Information:      10 * time.Millisecond,
		Discussion:       20 * time.Millisecond,
		Action:           30 * time.Millisecond,
		ServerProcessing: 0,
		GameOver:         40 * time.Millisecond,
		MessageDelay:     5 * time.Millisecond,
	}
}

type sleepRecorder struct {
	mu        sync.Mutex
	durations []time.Duration
	onSleep   func(d time.Duration)
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	hook := r.onSleep
	r.mu.Unlock()
	if hook != nil {
		hook(d)
	}
	return ctx.Err()
}

func (r *sleepRecorder) calls() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.durations))
	copy(out, r.durations)
	return out
}

type timerLog struct {
	mu      sync.Mutex
	updates []TimerUpdate
}

func (l *timerLog) record(_ string, update TimerUpdate) {
	l.mu.Lock()
	l.updates = append(l.updates, update)
	l.mu.Unlock()
}

func (l *timerLog) phases() []Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Phase, 0, len(l.updates))
	for _, update := range l.updates {
		out = append(out, update.Phase)
	}
	return out
}

func keepOrder(int, func(i, j int)) {}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *sleepRecorder, *timerLog) {
	t.Helper()
	recorder := &sleepRecorder{}
	timers := &timerLog{}
	notify := NewNotifications()
	notify.SetTimerUpdateCallback(timers.record)
	base := []Option{
		WithTimings(testTimings()),
		WithSleeper(recorder.Sleep),
		WithMessageSleeper(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
		WithShuffle(keepOrder),
	}
	engine := NewEngine(NewStore(), notify, append(base, opts...)...)
	return engine, recorder, timers
}

// testPlayers returns a lobby of five in registry order: a minion, two crew,
// the leader and a smuggler.
func testPlayers() []*Player {
	rules := DefaultRuleset()
	return []*Player{
		{ID: "p1", Username: "Milo", Role: rules.Minion},
		{ID: "p2", Username: "Cass", Role: rules.Crew[0]},
		{ID: "p3", Username: "Lena", Role: rules.Leader},
		{ID: "p4", Username: "Drew", Role: rules.Crew[1]},
		{ID: "p5", Username: "Sam", Role: rules.Neutral[0]},
	}
}

func mustCreateGame(t *testing.T, engine *Engine, code string) *Game {
	t.Helper()
	game, err := engine.Store().Create(code, testPlayers(), engine.Ruleset())
	if err != nil {
		t.Fatalf("expected game to be created, got %v", err)
	}
	return game
}

func setPhase(game *Game, phase Phase) {
	game.mu.Lock()
	game.Phase = phase
	game.mu.Unlock()
}
