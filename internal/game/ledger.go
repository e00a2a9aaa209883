package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

func (e *Engine) StatusBars(code string) (map[string]int, error) {
	game, err := e.lookup(code)
	if err != nil {
		return nil, err
	}
	return game.Bars(), nil
}

func (e *Engine) StatusBarValue(code, bar string) (int, error) {
	game, err := e.lookup(code)
	if err != nil {
		return 0, err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	value, ok := game.StatusBars[bar]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownStatusBar, bar)
	}
	return value, nil
}

// SetStatusBarValue overwrites one bar, clamped to its configured bounds.
func (e *Engine) SetStatusBarValue(code, bar string, value int) error {
	game, err := e.lookup(code)
	if err != nil {
		return err
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	if _, ok := game.StatusBars[bar]; !ok {
		return fmt.Errorf("%w %q", ErrUnknownStatusBar, bar)
	}
	game.StatusBars[bar] = game.ruleset().clamp(bar, value)
	return nil
}

func (e *Engine) TakeStatusBarSnapshot(code string) error {
	return e.withGame(code, (*Game).takeSnapshot)
}

// ProcessTurn applies every player's point allocation to the ledger.
func (e *Engine) ProcessTurn(code string) error {
	return e.withGame(code, (*Game).applyAllocations)
}

func (e *Engine) AutomaticStatusBarUpdates(code string) error {
	return e.withGame(code, (*Game).applyPassive)
}

// QueueStatusBarChanges queues one message per bar that moved since the
// last snapshot.
func (e *Engine) QueueStatusBarChanges(code string) error {
	return e.withGame(code, (*Game).queueDeltas)
}

func (e *Engine) BookendMessageQueue(code string) error {
	return e.withGame(code, (*Game).bookendQueue)
}

func (e *Engine) ClearMessageQueue(code string) error {
	return e.withGame(code, func(g *Game) { g.MessageQueue = []string{} })
}

func (e *Engine) QueueMessage(code, message string) error {
	return e.withGame(code, func(g *Game) { g.MessageQueue = append(g.MessageQueue, message) })
}

// FlushMessageQueue hands the pending messages to the message slot in order,
// waiting MessageDelay before each one. The queue is emptied before
// delivery starts, so messages queued meanwhile wait for the next flush. A
// missing game or an empty queue is a no-op.
func (e *Engine) FlushMessageQueue(ctx context.Context, code string) {
	game, ok := e.store.Get(code)
	if !ok {
		return
	}
	e.flush(ctx, game)
}

func (e *Engine) flush(ctx context.Context, game *Game) {
	game.mu.Lock()
	messages := game.MessageQueue
	game.MessageQueue = []string{}
	game.mu.Unlock()
	if len(messages) == 0 {
		return
	}

	code := game.Code
	go func() {
		for _, message := range messages {
			if err := e.pace(ctx, e.timings.MessageDelay); err != nil {
				log.Debug().Str("lobby", code).Int("dropped", len(messages)).Msg("message flush cancelled")
				return
			}
			e.notify.sendMessage(code, message)
		}
	}()
}

func (e *Engine) withGame(code string, fn func(*Game)) error {
	game, err := e.lookup(code)
	if err != nil {
		return err
	}
	game.mu.Lock()
	fn(game)
	game.mu.Unlock()
	return nil
}

// The helpers below expect the caller to hold g.mu.

func (g *Game) takeSnapshot() {
	g.snapshot = cloneBars(g.StatusBars)
}

func (g *Game) applyAllocations() {
	effects := make(map[string]map[string]int, len(g.POIs))
	for _, poi := range g.POIs {
		effects[poi.ID] = poi.Effects
	}
	for _, player := range g.Players {
		for poiID, points := range player.POIs {
			if points <= 0 {
				continue
			}
			for bar, delta := range effects[poiID] {
				if _, ok := g.StatusBars[bar]; ok {
					g.StatusBars[bar] += delta * points
				}
			}
		}
	}
	g.clampBars()
}

func (g *Game) applyPassive() {
	for bar, delta := range g.ruleset().Passive {
		if _, ok := g.StatusBars[bar]; ok {
			g.StatusBars[bar] += delta
		}
	}
	g.clampBars()
}

func (g *Game) clampBars() {
	rules := g.ruleset()
	for bar, value := range g.StatusBars {
		g.StatusBars[bar] = rules.clamp(bar, value)
	}
}

func (g *Game) queueDeltas() {
	for _, def := range g.ruleset().Bars {
		current, ok := g.StatusBars[def.ID]
		if !ok {
			continue
		}
		delta := current - g.snapshot[def.ID]
		switch {
		case delta > 0:
			g.MessageQueue = append(g.MessageQueue, fmt.Sprintf("%s rose by %d (now %d).", def.Label, delta, current))
		case delta < 0:
			g.MessageQueue = append(g.MessageQueue, fmt.Sprintf("%s fell by %d (now %d).", def.Label, -delta, current))
		}
	}
}

func (g *Game) bookendQueue() {
	if len(g.MessageQueue) == 0 {
		return
	}
	queue := make([]string, 0, len(g.MessageQueue)+2)
	queue = append(queue, fmt.Sprintf("Round %d report:", g.Round))
	queue = append(queue, g.MessageQueue...)
	queue = append(queue, "End of report.")
	g.MessageQueue = queue
}
