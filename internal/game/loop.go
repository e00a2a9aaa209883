package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RunGameLoop drives the lobby's game from its current phase to game over,
// shows the final screen, and removes the game from the store. It blocks
// until then, so callers start it on its own goroutine.
func (e *Engine) RunGameLoop(ctx context.Context, code string) error {
	if !e.claim(code) {
		return fmt.Errorf("lobby %s: %w", code, ErrLoopRunning)
	}
	defer e.release(code)

	game, ok := e.store.Get(code)
	if !ok {
		return errGameNotFound(code)
	}
	logger := log.With().Str("lobby", code).Logger()
	logger.Info().Int("players", len(game.Players)).Msg("game loop started")

	for {
		current, ok := e.store.Get(code)
		if !ok || current != game {
			logger.Info().Msg("game removed, stopping loop")
			return nil
		}
		if err := e.Advance(ctx, game); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info().Msg("game loop cancelled")
			} else {
				logger.Error().Err(err).Msg("game loop failed")
			}
			e.store.Delete(code)
			return err
		}
		if game.CurrentPhase() == PhaseGameOver {
			break
		}
	}

	e.flush(ctx, game)
	e.announcePhase(code, PhaseGameOver)
	err := e.sleep(ctx, e.timings.Duration(PhaseGameOver))
	e.store.Delete(code)
	logger.Info().Int("rounds", game.CurrentRound()).Msg("game loop finished")
	return err
}
