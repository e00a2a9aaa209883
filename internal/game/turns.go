package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Advance runs one step of the phase machine for game. Every step emits its
// notifications first and then suspends exactly once; the game lock is never
// held across either.
func (e *Engine) Advance(ctx context.Context, game *Game) error {
	phase := game.CurrentPhase()
	switch phase {
	case PhaseSetup:
		game.mu.Lock()
		game.setPhase(PhaseInformation)
		game.mu.Unlock()
		return e.sleep(ctx, e.timings.Duration(PhaseSetup))

	case PhaseInformation:
		game.mu.Lock()
		game.takeSnapshot()
		game.Round++
		game.setPOIs(e.selectPOIs(game.ruleset()))
		refs := game.poiRefs()
		bars := cloneBars(game.StatusBars)
		game.mu.Unlock()

		e.announcePhase(game.Code, PhaseInformation)
		e.notify.sendIDsAndNames(game.Code, refs)
		e.notify.updateStatusBars(game.Code, bars)
		e.flush(ctx, game)
		if err := e.sleep(ctx, e.timings.Duration(PhaseInformation)); err != nil {
			return err
		}
		return e.transition(game, PhaseInformation, PhaseDiscussion)

	case PhaseDiscussion:
		e.announcePhase(game.Code, PhaseDiscussion)
		if err := e.sleep(ctx, e.timings.Duration(PhaseDiscussion)); err != nil {
			return err
		}
		return e.transition(game, PhaseDiscussion, PhaseAction)

	case PhaseAction:
		e.announcePhase(game.Code, PhaseAction)
		if err := e.sleep(ctx, e.timings.Duration(PhaseAction)); err != nil {
			return err
		}
		return e.transition(game, PhaseAction, PhaseServerProcessing)

	case PhaseServerProcessing:
		winners, err := e.processRound(game)
		if err != nil {
			return err
		}
		if winners.Found() {
			e.notify.announceWinners(game.Code, winners)
		}
		return e.sleep(ctx, e.timings.Duration(PhaseServerProcessing))

	case PhaseGameOver:
		e.announcePhase(game.Code, PhaseGameOver)
		return e.sleep(ctx, e.timings.Duration(PhaseGameOver))

	default:
		log.Error().Str("lobby", game.Code).Int("phase", int(phase)).Msg("game in unknown phase")
		return fmt.Errorf("lobby %s: %w %d", game.Code, ErrUnknownPhase, int(phase))
	}
}

// transition moves the game on unless something else changed its phase
// while the step was suspended.
func (e *Engine) transition(game *Game, from, to Phase) error {
	game.mu.Lock()
	defer game.mu.Unlock()
	if game.Phase != from {
		log.Warn().Str("lobby", game.Code).Stringer("expected", from).Stringer("actual", game.Phase).Msg("phase changed during suspension")
		return nil
	}
	game.setPhase(to)
	return nil
}

// processRound resolves the action phase and decides whether the game is
// over. It returns the winners when the game ended in this step.
func (e *Engine) processRound(game *Game) (Winners, error) {
	game.mu.Lock()
	defer game.mu.Unlock()

	game.applyAllocations()
	game.applyPassive()
	game.queueDeltas()
	game.bookendQueue()

	if game.Winners.Found() {
		game.setPhase(PhaseGameOver)
		return game.Winners.clone(), nil
	}

	rules := game.ruleset()
	winners, err := CheckGlobalWin(game.Players, game.StatusBars, rules.GlobalRules)
	if err != nil {
		return NoWinners(), fmt.Errorf("lobby %s: global win check: %w", game.Code, err)
	}
	if !winners.Found() {
		winners, err = CheckRoleWin(game.Players, game.StatusBars, rules.Aggregation)
		if err != nil {
			return NoWinners(), fmt.Errorf("lobby %s: role win check: %w", game.Code, err)
		}
	}
	if !winners.Found() {
		game.setPhase(PhaseInformation)
		return NoWinners(), nil
	}

	game.Winners = winners
	game.setPhase(PhaseGameOver)
	log.Info().Str("lobby", game.Code).Str("team", winners.Team).Strs("names", winners.Names).Int("round", game.Round).Msg("game won")
	return winners.clone(), nil
}
