package server

import (
	"time"

	"dark-orbit/internal/db"
	"dark-orbit/internal/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

func (s *Server) persistGameStart(started *game.Game) {
	if s.db == nil {
		return
	}
	record := db.Game{
		PublicID:  uuid.New(),
		LobbyCode: started.Code,
		Phase:     game.PhaseSetup.String(),
		Winners:   datatypes.JSON("[]"),
		StartedAt: time.Now().UTC(),
	}
	players := make([]db.Player, 0, len(started.Players))
	names := make([]string, 0, len(started.Players))
	for _, player := range started.Players {
		players = append(players, db.Player{
			UserID:    player.ID,
			Username:  player.Username,
			RoleType:  player.Role.Type,
			GroupName: player.Role.GroupName,
		})
		names = append(names, player.Username)
	}
	if err := db.CreateGame(s.db, &record, players); err != nil {
		if db.IsUniqueViolation(err) {
			log.Warn().Err(err).Str("lobby", started.Code).Msg("game already recorded")
			return
		}
		log.Error().Err(err).Str("lobby", started.Code).Msg("persist game")
		return
	}
	s.historyMu.Lock()
	s.history[started.Code] = record.ID
	s.historyMu.Unlock()
	s.recordEvent(record.ID, 0, eventGameStarted, EventPayload{LobbyCode: started.Code, Players: names})
}

func (s *Server) persistPhase(code string, update game.TimerUpdate) {
	gameID, ok := s.historyID(code)
	if !ok {
		return
	}
	round := 0
	if current, found := s.engine.Store().Get(code); found {
		round = current.CurrentRound()
	}
	if err := db.UpdatePhase(s.db, gameID, update.Phase.String(), round); err != nil {
		log.Error().Err(err).Str("lobby", code).Msg("persist phase")
	}
	s.recordEvent(gameID, round, eventPhaseChanged, EventPayload{
		Phase:    update.Phase.String(),
		Round:    round,
		LengthMS: update.Length.Milliseconds(),
	})
}

func (s *Server) persistGameOver(code string, winners game.Winners) {
	gameID, ok := s.historyID(code)
	if !ok {
		return
	}
	round := 0
	if current, found := s.engine.Store().Get(code); found {
		round = current.CurrentRound()
	}
	if err := db.FinishGame(s.db, gameID, game.PhaseGameOver.String(), round, winners.Team, winners.Names); err != nil {
		log.Error().Err(err).Str("lobby", code).Msg("persist game over")
	}
	s.recordEvent(gameID, round, eventGameOver, EventPayload{Team: winners.Team, Winners: winners.Names})
}

// persistAbort closes out a game whose loop stopped without a winner.
func (s *Server) persistAbort(code string, aborted *game.Game, reason string) {
	gameID, ok := s.historyID(code)
	if !ok {
		return
	}
	round := aborted.CurrentRound()
	if err := db.FinishGame(s.db, gameID, aborted.CurrentPhase().String(), round, "", nil); err != nil {
		log.Error().Err(err).Str("lobby", code).Msg("persist abort")
	}
	s.recordEvent(gameID, round, eventGameAborted, EventPayload{Reason: reason})
}

func (s *Server) recordEvent(gameID uint, round int, eventType string, payload EventPayload) {
	if err := db.AppendEvent(s.db, gameID, round, eventType, payload); err != nil {
		log.Error().Err(err).Uint("game_id", gameID).Str("event", eventType).Msg("persist event")
	}
}

func (s *Server) historyID(code string) (uint, bool) {
	if s.db == nil {
		return 0, false
	}
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	id, ok := s.history[code]
	return id, ok
}

func (s *Server) forgetHistory(code string) {
	s.historyMu.Lock()
	delete(s.history, code)
	s.historyMu.Unlock()
}
