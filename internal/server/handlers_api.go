package server

import (
	"errors"
	"net/http"

	"dark-orbit/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type usernameRequest struct {
	Username string `json:"username" binding:"required,username"`
}

var usernameMessages = bindMessages{
	"Username": {
		"required": "username is required",
		"username": "username must be 20 characters or fewer with no symbols",
	},
}

type readyRequest struct {
	Ready *bool `json:"ready"`
}

type poisRequest struct {
	POIs map[string]int `json:"pois"`
}

type poisResponse struct {
	Phase string         `json:"phase"`
	POIs  map[string]int `json:"pois"`
	Error string         `json:"error,omitempty"`
}

type gameResponse struct {
	Code    string            `json:"code"`
	Phase   string            `json:"phase"`
	Round   int               `json:"round"`
	Bars    map[string]int    `json:"bars"`
	Labels  map[string]string `json:"labels"`
	POIs    []game.POIRef     `json:"pois"`
	Winners game.Winners      `json:"winners"`
}

func (s *Server) handleCreateLobby(c *gin.Context) {
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	var req usernameRequest
	if !bindJSON(c, &req, usernameMessages, "invalid lobby request") {
		return
	}
	username, err := validateUsername(req.Username)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	lobby := s.lobbies.Create(sess.UserID, username)
	s.sessions.setLobby(sess.ID, lobby.Code, username)
	log.Info().Str("lobby", lobby.Code).Str("user", sess.UserID).Msg("lobby created")
	c.JSON(http.StatusCreated, summarize(lobby))
}

func (s *Server) handleGetLobby(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	lobby, exists := s.lobbies.Get(code)
	if !exists {
		respondError(c, http.StatusNotFound, errLobbyNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, summarize(lobby))
}

func (s *Server) handleJoinLobby(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	var req usernameRequest
	if !bindJSON(c, &req, usernameMessages, "invalid join request") {
		return
	}
	username, err := validateUsername(req.Username)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	lobby, err := s.lobbies.Join(code, sess.UserID, username)
	if err != nil {
		respondError(c, lobbyErrorStatus(err), err.Error())
		return
	}
	s.sessions.setLobby(sess.ID, code, username)
	log.Info().Str("lobby", code).Str("user", sess.UserID).Msg("player joined")
	s.broadcastLobby(lobby)
	c.JSON(http.StatusOK, summarize(lobby))
}

func (s *Server) handleLeaveLobby(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	lobby, err := s.lobbies.Leave(code, sess.UserID)
	if errors.Is(err, errGameRunning) {
		// The roster is frozen until the game ends.
		c.JSON(http.StatusOK, summarize(lobby))
		return
	}
	if err != nil {
		respondError(c, lobbyErrorStatus(err), err.Error())
		return
	}
	s.sessions.clearLobbyForUser(sess.UserID, code)
	log.Info().Str("lobby", code).Str("user", sess.UserID).Msg("player left")
	s.broadcastLobby(lobby)
	c.JSON(http.StatusOK, summarize(lobby))
}

func (s *Server) handleReady(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	var req readyRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req, nil, "invalid ready request") {
			return
		}
	}
	ready := true
	if req.Ready != nil {
		ready = *req.Ready
	}
	lobby, err := s.lobbies.SetReady(code, sess.UserID, ready)
	if err != nil {
		respondError(c, lobbyErrorStatus(err), err.Error())
		return
	}
	s.broadcastLobby(lobby)
	started := s.tryStartGame(code)
	if started {
		if refreshed, ok := s.lobbies.Get(code); ok {
			lobby = refreshed
		}
	}
	c.JSON(http.StatusOK, summarize(lobby))
}

func (s *Server) handleGetGame(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	current, exists := s.engine.Store().Get(code)
	if !exists {
		respondError(c, http.StatusNotFound, "game not found")
		return
	}
	c.JSON(http.StatusOK, gameResponse{
		Code:    code,
		Phase:   current.CurrentPhase().String(),
		Round:   current.CurrentRound(),
		Bars:    current.Bars(),
		Labels:  s.barLabels(),
		POIs:    current.CurrentPOIs(),
		Winners: current.CurrentWinners(),
	})
}

func (s *Server) handleGetPOIs(c *gin.Context) {
	current, player, ok := s.requirePlayer(c)
	if !ok {
		return
	}
	allocation, err := current.PlayerPOIs(player.ID)
	if err != nil {
		respondError(c, http.StatusNotFound, "You are not in a game")
		return
	}
	c.JSON(http.StatusOK, poisResponse{Phase: current.CurrentPhase().String(), POIs: allocation})
}

// handleUpdatePOIs stores a player's point allocation. Rejected allocations
// echo the allocation currently on record.
func (s *Server) handleUpdatePOIs(c *gin.Context) {
	var req poisRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.POIs) == 0 {
		respondError(c, http.StatusBadRequest, "no points allocated")
		return
	}
	current, player, ok := s.requirePlayer(c)
	if !ok {
		return
	}
	if err := current.SetPlayerPOIs(player.ID, req.POIs); err != nil {
		previous, _ := current.PlayerPOIs(player.ID)
		resp := poisResponse{Phase: current.CurrentPhase().String(), POIs: previous, Error: err.Error()}
		switch {
		case errors.Is(err, game.ErrAllocationClosed):
			resp.Error = "points can only be allocated during discussion or action"
			c.JSON(http.StatusMethodNotAllowed, resp)
		case errors.Is(err, game.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, resp)
		default:
			c.JSON(http.StatusConflict, resp)
		}
		return
	}
	stored, _ := current.PlayerPOIs(player.ID)
	log.Debug().Str("lobby", current.Code).Str("user", player.ID).Msg("points allocated")
	c.JSON(http.StatusOK, poisResponse{Phase: current.CurrentPhase().String(), POIs: stored})
}

// requirePlayer resolves the running game for the lobby in the path and the
// caller's player in it.
func (s *Server) requirePlayer(c *gin.Context) (*game.Game, *game.Player, bool) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return nil, nil, false
	}
	sess, ok := s.requireSession(c)
	if !ok {
		return nil, nil, false
	}
	current, exists := s.engine.Store().Get(code)
	if !exists {
		respondError(c, http.StatusNotFound, "You are not in a game")
		return nil, nil, false
	}
	player, found := current.FindPlayer(sess.UserID)
	if !found {
		respondError(c, http.StatusNotFound, "You are not in a game")
		return nil, nil, false
	}
	return current, player, true
}

func (s *Server) broadcastLobby(lobby *Lobby) {
	summary := summarize(lobby)
	s.ws.Broadcast(lobby.Code, msgPlayerList, summary.Members)
	s.ws.Broadcast(lobby.Code, msgReadyCount, readyCount{Ready: summary.Ready, Total: summary.Total})
}

func lobbyErrorStatus(err error) int {
	switch {
	case errors.Is(err, errLobbyNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNotMember):
		return http.StatusForbidden
	case errors.Is(err, errNameTaken), errors.Is(err, errLobbyFull), errors.Is(err, errGameRunning):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
