package game

import (
	"fmt"
	"sort"
	"sync"
)

// Store is the process-wide registry of running games keyed by lobby code.
type Store struct {
	mu    sync.RWMutex
	games map[string]*Game
}

func NewStore() *Store {
	return &Store{games: make(map[string]*Game)}
}

func (s *Store) Create(code string, players []*Player, rules *Ruleset) (*Game, error) {
	game, err := NewGame(code, players, rules)
	if err != nil {
		return nil, err
	}
	if err := s.Insert(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Store) Insert(game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.Code]; ok {
		return fmt.Errorf("lobby %s: %w", game.Code, ErrGameExists)
	}
	s.games[game.Code] = game
	return nil
}

func (s *Store) Get(code string) (*Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[code]
	return game, ok
}

// Delete removes the game for code. Deleting a missing game is a no-op; the
// return value reports whether anything was removed.
func (s *Store) Delete(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[code]; !ok {
		return false
	}
	delete(s.games, code)
	return true
}

func (s *Store) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.games))
	for code := range s.games {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
