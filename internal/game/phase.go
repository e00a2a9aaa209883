package game

import (
	"fmt"
	"time"
)

// Phase is one stage of a game round.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInformation
	PhaseDiscussion
	PhaseAction
	PhaseServerProcessing
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSetup:            "Game setup",
	PhaseInformation:      "Information phase",
	PhaseDiscussion:       "Discussion phase",
	PhaseAction:           "Action phase",
	PhaseServerProcessing: "Server processing",
	PhaseGameOver:         "Game over",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// AcceptsAllocations reports whether players may change their point
// allocations while the game sits in this phase.
func (p Phase) AcceptsAllocations() bool {
	return p == PhaseDiscussion || p == PhaseAction
}

// Timings is the phase timing table. It is fixed for the lifetime of an
// Engine.
type Timings struct {
	SetupGrace       time.Duration
	InformationDelay time.Duration
	Information      time.Duration
	Discussion       time.Duration
	Action           time.Duration
	ServerProcessing time.Duration
	GameOver         time.Duration
	MessageDelay     time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		SetupGrace:       time.Second,
		InformationDelay: 2 * time.Second,
		Information:      10 * time.Second,
		Discussion:       60 * time.Second,
		Action:           30 * time.Second,
		ServerProcessing: 0,
		GameOver:         10 * time.Second,
		MessageDelay:     500 * time.Millisecond,
	}
}

// Duration returns the single suspension a step of the given phase performs.
// The information phase includes the fixed post-broadcast delay so clients
// see one countdown covering the whole wait.
func (t Timings) Duration(phase Phase) time.Duration {
	switch phase {
	case PhaseSetup:
		return t.SetupGrace
	case PhaseInformation:
		return t.InformationDelay + t.Information
	case PhaseDiscussion:
		return t.Discussion
	case PhaseAction:
		return t.Action
	case PhaseServerProcessing:
		return t.ServerProcessing
	case PhaseGameOver:
		return t.GameOver
	default:
		return 0
	}
}
