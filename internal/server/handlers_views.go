package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dark-orbit/internal/db"
	"dark-orbit/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrSize = 256

func (s *Server) handleHome(c *gin.Context) {
	summaries := s.lobbies.Summaries()
	cards := make([]web.LobbyCard, 0, len(summaries))
	for _, summary := range summaries {
		cards = append(cards, web.LobbyCard{Code: summary.Code, Players: summary.Total, Running: summary.Running})
	}
	templ.Handler(web.Home(cards)).ServeHTTP(c.Writer, c.Request)
}

// handleGameOverView shows the lobby's last result, falling back to the
// history tables once the lobby itself is gone.
func (s *Server) handleGameOverView(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	if lobby, exists := s.lobbies.Get(code); exists && lobby.LastResult != nil {
		templ.Handler(web.GameOver(resultView(lobby.LastResult))).ServeHTTP(c.Writer, c.Request)
		return
	}
	if s.db != nil {
		record, err := db.LatestGame(s.db, code)
		switch {
		case err == nil && record.EndedAt != nil:
			templ.Handler(web.GameOver(recordView(record))).ServeHTTP(c.Writer, c.Request)
			return
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			log.Error().Err(err).Str("lobby", code).Msg("load game history")
			c.String(http.StatusInternalServerError, "failed to load game")
			return
		}
	}
	c.String(http.StatusNotFound, "no finished game for this lobby")
}

func (s *Server) handleLobbyQR(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	if _, exists := s.lobbies.Get(code); !exists {
		respondError(c, http.StatusNotFound, errLobbyNotFound.Error())
		return
	}
	png, err := qrcode.Encode(s.joinURL(c, code), qrcode.Medium, qrSize)
	if err != nil {
		log.Error().Err(err).Str("lobby", code).Msg("encode qr")
		respondError(c, http.StatusInternalServerError, "failed to render qr code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) joinURL(c *gin.Context, code string) string {
	base := strings.TrimRight(s.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/?lobby=" + code
}

func resultView(result *gameResult) web.GameOverView {
	view := web.GameOverView{
		Code:    result.Code,
		Team:    result.Team,
		Winners: result.Winners,
		Rounds:  result.Rounds,
		EndedAt: result.EndedAt,
	}
	for _, player := range result.Players {
		view.Players = append(view.Players, web.ResultPlayer(player))
	}
	return view
}

func recordView(record *db.Game) web.GameOverView {
	view := web.GameOverView{
		Code:    record.LobbyCode,
		Team:    record.WinningTeam,
		Rounds:  record.Rounds,
		EndedAt: *record.EndedAt,
	}
	if err := json.Unmarshal(record.Winners, &view.Winners); err != nil {
		log.Warn().Err(err).Str("lobby", record.LobbyCode).Msg("decode winners")
	}
	for _, player := range record.Players {
		view.Players = append(view.Players, web.ResultPlayer{
			Username: player.Username,
			Role:     player.RoleType,
			Group:    player.GroupName,
			Won:      player.Won,
		})
	}
	return view
}
