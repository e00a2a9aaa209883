package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameExists        = errors.New("game already running")
	ErrLoopRunning       = errors.New("game loop already running")
	ErrUnknownPhase      = errors.New("unknown phase")
	ErrUnknownStatusBar  = errors.New("unknown status bar")
	ErrInvalidRange      = errors.New("invalid win condition range")
	ErrInvalidRole       = errors.New("invalid role")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidAllocation = errors.New("invalid point allocation")
	ErrAllocationClosed  = errors.New("allocations are closed in this phase")
)

func errGameNotFound(code string) error {
	return fmt.Errorf("lobby %s: %w", code, ErrGameNotFound)
}
