package game

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestShufflePOIsTakesRoundSize(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	selection := engine.ShufflePOIs()
	if len(selection) != engine.Ruleset().POIsPerRound {
		t.Fatalf("expected %d POIs, got %d", engine.Ruleset().POIsPerRound, len(selection))
	}
	if selection[0].ID != "engine_room" {
		t.Fatalf("expected catalog order with identity shuffle, got %s", selection[0].ID)
	}

	reversed := NewEngine(nil, nil, WithShuffle(func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}))
	if got := reversed.ShufflePOIs()[0].ID; got != "maintenance" {
		t.Fatalf("expected shuffled order, got %s", got)
	}
}

func TestSetNewPOIsResetsAllocations(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "RESET1")
	setPhase(game, PhaseDiscussion)
	SetNewPOIs(game, engine.ShufflePOIs())
	if err := game.SetPlayerPOIs("p2", map[string]int{"armory": 2}); err != nil {
		t.Fatalf("expected allocation accepted, got %v", err)
	}

	SetNewPOIs(game, engine.ShufflePOIs())
	allocation, err := game.PlayerPOIs("p2")
	if err != nil {
		t.Fatalf("expected allocation, got %v", err)
	}
	if allocation["armory"] != 0 || len(allocation) != engine.Ruleset().POIsPerRound {
		t.Fatalf("expected zeroed allocation, got %v", allocation)
	}
}

func TestSetPlayerPOIsValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "ALLOC1")
	setPhase(game, PhaseAction)
	SetNewPOIs(game, engine.ShufflePOIs())
	if err := game.SetPlayerPOIs("p2", map[string]int{"engine_room": 3, "armory": 2}); err != nil {
		t.Fatalf("expected allocation at capacity to pass, got %v", err)
	}

	cases := map[string]map[string]int{
		"over capacity":  {"engine_room": 6},
		"negative":       {"engine_room": -1},
		"not this round": {"cargo_bay": 1},
		"overflowing":    {"engine_room": math.MaxInt, "life_support": 2},
		"max int":        {"engine_room": math.MaxInt},
	}
	for name, candidate := range cases {
		t.Run(name, func(t *testing.T) {
			if err := game.SetPlayerPOIs("p2", candidate); !errors.Is(err, ErrInvalidAllocation) {
				t.Fatalf("expected ErrInvalidAllocation, got %v", err)
			}
			allocation, _ := game.PlayerPOIs("p2")
			if allocation["engine_room"] != 3 || allocation["armory"] != 2 {
				t.Fatalf("expected previous allocation kept, got %v", allocation)
			}
		})
	}

	if err := game.ValidatePlayerPOIs("ghost", map[string]int{}); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := game.PlayerPOIs("ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestSetPlayerPOIsOnlyDuringDiscussionAndAction(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "ALLOC2")
	SetNewPOIs(game, engine.ShufflePOIs())

	for _, phase := range []Phase{PhaseSetup, PhaseInformation, PhaseServerProcessing, PhaseGameOver} {
		setPhase(game, phase)
		if err := game.SetPlayerPOIs("p2", map[string]int{"engine_room": 1}); !errors.Is(err, ErrAllocationClosed) {
			t.Fatalf("expected ErrAllocationClosed in %s, got %v", phase, err)
		}
	}
	allocation, _ := game.PlayerPOIs("p2")
	if allocation["engine_room"] != 0 {
		t.Fatalf("expected no allocation stored, got %v", allocation)
	}

	for _, phase := range []Phase{PhaseDiscussion, PhaseAction} {
		setPhase(game, phase)
		if err := game.SetPlayerPOIs("p2", map[string]int{"engine_room": 1}); err != nil {
			t.Fatalf("expected allocation accepted in %s, got %v", phase, err)
		}
	}
}

func TestProcessRoundIgnoresRejectedOverflow(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	game := mustCreateGame(t, engine, "ALLOC3")
	setPhase(game, PhaseAction)
	SetNewPOIs(game, engine.ShufflePOIs())
	huge := map[string]int{"engine_room": math.MaxInt, "life_support": 2}
	if err := game.SetPlayerPOIs("p2", huge); !errors.Is(err, ErrInvalidAllocation) {
		t.Fatalf("expected ErrInvalidAllocation, got %v", err)
	}

	setPhase(game, PhaseServerProcessing)
	if err := engine.Advance(context.Background(), game); err != nil {
		t.Fatalf("expected advance to succeed, got %v", err)
	}
	if repairs := game.Bars()[BarRepairs]; repairs != 0 {
		t.Fatalf("expected repairs untouched, got %d", repairs)
	}
	if game.CurrentWinners().Found() {
		t.Fatalf("expected no winners, got %+v", game.CurrentWinners())
	}
}
