package game

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestStatusBarAccessors(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	mustCreateGame(t, engine, "BARS01")

	if err := engine.SetStatusBarValue("BARS01", BarHull, 150); err != nil {
		t.Fatalf("expected set to succeed, got %v", err)
	}
	if value, _ := engine.StatusBarValue("BARS01", BarHull); value != 100 {
		t.Fatalf("expected clamp to 100, got %d", value)
	}
	if err := engine.SetStatusBarValue("BARS01", "shields", 1); !errors.Is(err, ErrUnknownStatusBar) {
		t.Fatalf("expected ErrUnknownStatusBar, got %v", err)
	}
	if _, err := engine.StatusBars("MISSING"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := engine.ProcessTurn("MISSING"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestProcessTurnAppliesEffectsPerPoint(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "TURN01")
	setPhase(game, PhaseAction)
	SetNewPOIs(game, engine.ShufflePOIs())
	if err := game.SetPlayerPOIs("p1", map[string]int{"vents": 2}); err != nil {
		t.Fatalf("expected allocation, got %v", err)
	}
	if err := game.SetPlayerPOIs("p2", map[string]int{"engine_room": 1, "life_support": 1}); err != nil {
		t.Fatalf("expected allocation, got %v", err)
	}

	if err := engine.ProcessTurn("TURN01"); err != nil {
		t.Fatalf("expected turn to process, got %v", err)
	}
	bars, _ := engine.StatusBars("TURN01")
	if bars[BarSabotage] != 6 || bars[BarRepairs] != 3 {
		t.Fatalf("expected sabotage 6 and repairs 3, got %v", bars)
	}
	// vents drains 2, life support adds 2, capped at 100
	if bars[BarOxygen] != 100 {
		t.Fatalf("expected oxygen 100, got %d", bars[BarOxygen])
	}

	if err := engine.AutomaticStatusBarUpdates("TURN01"); err != nil {
		t.Fatalf("expected passive update, got %v", err)
	}
	if value, _ := engine.StatusBarValue("TURN01", BarOxygen); value != 95 {
		t.Fatalf("expected oxygen 95, got %d", value)
	}
}

func TestQueueStatusBarChangesAndBookends(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "QUEUE1")

	if err := engine.BookendMessageQueue("QUEUE1"); err != nil {
		t.Fatalf("expected bookend to succeed, got %v", err)
	}
	if len(game.PendingMessages()) != 0 {
		t.Fatalf("expected empty queue to stay empty, got %v", game.PendingMessages())
	}

	_ = engine.TakeStatusBarSnapshot("QUEUE1")
	_ = engine.SetStatusBarValue("QUEUE1", BarHull, 90)
	_ = engine.SetStatusBarValue("QUEUE1", BarCredits, 12)
	_ = engine.QueueStatusBarChanges("QUEUE1")
	_ = engine.BookendMessageQueue("QUEUE1")

	want := []string{
		"Round 0 report:",
		"Hull integrity fell by 10 (now 90).",
		"Smuggled credits rose by 12 (now 12).",
		"End of report.",
	}
	if got := game.PendingMessages(); !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if err := engine.ClearMessageQueue("QUEUE1"); err != nil {
		t.Fatalf("expected clear to succeed, got %v", err)
	}
	if len(game.PendingMessages()) != 0 {
		t.Fatalf("expected cleared queue, got %v", game.PendingMessages())
	}
}

func TestFlushMessageQueueDeliversInOrder(t *testing.T) {
	var (
		mu     sync.Mutex
		delays []time.Duration
	)
	pace := func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return nil
	}
	engine, _, _ := newTestEngine(t, WithMessageSleeper(pace))
	delivered := make(chan string, 8)
	engine.Notifications().SetMessageQueueSend(func(_ string, message string) {
		delivered <- message
	})
	game := mustCreateGame(t, engine, "FLUSH1")
	want := []string{"one", "two", "three"}
	for _, message := range want {
		if err := engine.QueueMessage("FLUSH1", message); err != nil {
			t.Fatalf("expected message queued, got %v", err)
		}
	}

	engine.FlushMessageQueue(context.Background(), "FLUSH1")
	if len(game.PendingMessages()) != 0 {
		t.Fatalf("expected queue cleared at flush time, got %v", game.PendingMessages())
	}

	var got []string
	for range want {
		select {
		case message := <-delivered:
			got = append(got, message)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d messages, got %v", len(want), got)
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(delays) != len(want) || delays[0] != testTimings().MessageDelay {
		t.Fatalf("expected a %s wait before each message, got %v", testTimings().MessageDelay, delays)
	}
}

func TestFlushMessageQueueNoop(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	called := make(chan string, 1)
	engine.Notifications().SetMessageQueueSend(func(_ string, message string) { called <- message })

	engine.FlushMessageQueue(context.Background(), "MISSING")
	mustCreateGame(t, engine, "EMPTY1")
	engine.FlushMessageQueue(context.Background(), "EMPTY1")

	select {
	case message := <-called:
		t.Fatalf("expected no delivery, got %q", message)
	case <-time.After(20 * time.Millisecond):
	}
}
