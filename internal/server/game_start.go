package server

import (
	"context"
	"errors"
	"time"

	"dark-orbit/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type roleInfo struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GroupName   string   `json:"group_name"`
	Capacity    int      `json:"capacity"`
	Teammates   []string `json:"teammates,omitempty"`
}

type redirectPayload struct {
	URL string `json:"url"`
}

// tryStartGame starts the lobby's game once every member is ready and the
// lobby is big enough. It reports whether a game was started.
func (s *Server) tryStartGame(code string) bool {
	if s.engine.Running(code) {
		return false
	}
	members, ok := s.lobbies.ClaimStart(code, s.cfg.MinPlayers)
	if !ok {
		return false
	}

	players := make([]*game.Player, 0, len(members))
	for _, member := range members {
		players = append(players, &game.Player{ID: member.UserID, Username: member.Username})
	}
	rules := s.engine.Ruleset()
	game.AssignRoles(players, rules, nil)
	started, err := s.engine.Store().Create(code, players, rules)
	if err != nil {
		log.Error().Err(err).Str("lobby", code).Msg("create game")
		s.lobbies.Finish(code, nil)
		return false
	}
	s.persistGameStart(started)
	log.Info().Str("lobby", code).Int("players", len(players)).Msg("game started")

	s.ws.Broadcast(code, msgGameStart, gin.H{"lobby_code": code})
	s.scheduleRoleInfo(code, players)

	s.loops.Add(1)
	go func() {
		defer s.loops.Done()
		s.runGame(code, started)
	}()
	return true
}

// scheduleRoleInfo tells each player their role once clients have had the
// setup grace period to load the game screen.
func (s *Server) scheduleRoleInfo(code string, players []*game.Player) {
	infos := make(map[string]roleInfo, len(players))
	for _, player := range players {
		info := roleInfo{
			Type:        player.Role.Type,
			Name:        player.Role.Name,
			Description: player.Role.Description,
			GroupName:   player.Role.GroupName,
			Capacity:    player.Role.Capacity,
		}
		if player.Role.WinGroup == game.AffiliationEvil {
			for _, other := range players {
				if other.ID != player.ID && other.Role.WinGroup == game.AffiliationEvil {
					info.Teammates = append(info.Teammates, other.Username)
				}
			}
		}
		infos[player.ID] = info
	}
	time.AfterFunc(s.engine.Timings().SetupGrace, func() {
		for userID, info := range infos {
			s.ws.SendTo(code, userID, msgRoleInfo, info)
		}
	})
}

func (s *Server) runGame(code string, started *game.Game) {
	err := s.engine.RunGameLoop(s.ctx, code)
	winners := started.CurrentWinners()
	switch {
	case err == nil, winners.Found():
	case errors.Is(err, context.Canceled):
		s.persistAbort(code, started, "shutdown")
	default:
		log.Error().Err(err).Str("lobby", code).Msg("game aborted")
		s.persistAbort(code, started, err.Error())
	}
	s.finishGame(code, started, winners)
}

func (s *Server) finishGame(code string, finished *game.Game, winners game.Winners) {
	result := &gameResult{
		Code:    code,
		Team:    winners.Team,
		Winners: winners.Names,
		Rounds:  finished.CurrentRound(),
		EndedAt: time.Now().UTC(),
	}
	won := make(map[string]bool, len(winners.Names))
	for _, name := range winners.Names {
		won[name] = true
	}
	for _, player := range finished.Players {
		result.Players = append(result.Players, resultPlayer{
			Username: player.Username,
			Role:     player.Role.Name,
			Group:    player.Role.GroupName,
			Won:      won[player.Username],
		})
	}
	s.forgetHistory(code)
	lobby, ok := s.lobbies.Finish(code, result)
	if !ok {
		return
	}
	summary := summarize(lobby)
	s.ws.Broadcast(code, msgReadyCount, readyCount{Ready: summary.Ready, Total: summary.Total})
	s.ws.Broadcast(code, msgRedirect, redirectPayload{URL: "/gameover/" + code})
}
