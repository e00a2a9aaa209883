package game

import "fmt"

// ShufflePOIs picks this round's points of interest from the engine's
// ruleset.
func (e *Engine) ShufflePOIs() []POI {
	return e.selectPOIs(e.rules)
}

func (e *Engine) selectPOIs(rules *Ruleset) []POI {
	pool := make([]POI, len(rules.POIs))
	copy(pool, rules.POIs)
	e.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n := rules.POIsPerRound; n > 0 && n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// SetNewPOIs installs the selection on the game and resets every player's
// allocation to zero points on each selected POI.
func SetNewPOIs(game *Game, selection []POI) {
	game.mu.Lock()
	defer game.mu.Unlock()
	game.setPOIs(selection)
}

func (g *Game) setPOIs(selection []POI) {
	g.POIs = selection
	for _, player := range g.Players {
		allocation := make(map[string]int, len(selection))
		for _, poi := range selection {
			allocation[poi.ID] = 0
		}
		player.POIs = allocation
	}
}

func (g *Game) poiRefs() []POIRef {
	refs := make([]POIRef, 0, len(g.POIs))
	for _, poi := range g.POIs {
		refs = append(refs, POIRef{ID: poi.ID, Name: poi.Name})
	}
	return refs
}

func (g *Game) CurrentPOIs() []POIRef {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poiRefs()
}

func (g *Game) PlayerPOIs(id string) (map[string]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.findPlayer(id)
	if player == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return cloneBars(player.POIs), nil
}

// SetPlayerPOIs replaces the player's allocation. Allocations are only taken
// during discussion and action; a rejected candidate leaves the previous
// allocation in place.
func (g *Game) SetPlayerPOIs(id string, candidate map[string]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if !g.Phase.AcceptsAllocations() {
		return fmt.Errorf("%w: %s", ErrAllocationClosed, g.Phase)
	}
	if err := g.validateAllocation(player, candidate); err != nil {
		return err
	}
	allocation := make(map[string]int, len(g.POIs))
	for _, poi := range g.POIs {
		allocation[poi.ID] = candidate[poi.ID]
	}
	player.POIs = allocation
	return nil
}

// ValidatePlayerPOIs checks a candidate allocation: only POIs assigned this
// round, no negative points, and no more points than the role's capacity.
func (g *Game) ValidatePlayerPOIs(id string, candidate map[string]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return g.validateAllocation(player, candidate)
}

func (g *Game) validateAllocation(player *Player, candidate map[string]int) error {
	assigned := make(map[string]struct{}, len(g.POIs))
	for _, poi := range g.POIs {
		assigned[poi.ID] = struct{}{}
	}
	capacity := player.Role.Capacity
	total := 0
	for id, points := range candidate {
		if _, ok := assigned[id]; !ok {
			return fmt.Errorf("%w: %s is not available this round", ErrInvalidAllocation, id)
		}
		if points < 0 {
			return fmt.Errorf("%w: negative points on %s", ErrInvalidAllocation, id)
		}
		// Checked before adding so the running total cannot overflow.
		if points > capacity-total {
			return fmt.Errorf("%w: points exceed capacity %d", ErrInvalidAllocation, capacity)
		}
		total += points
	}
	return nil
}
