package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// requireSession resolves the caller's session from the X-Session-ID
// header, or the session_id query parameter for websocket upgrades.
func (s *Server) requireSession(c *gin.Context) (session, bool) {
	id := strings.TrimSpace(c.GetHeader(sessionHeader))
	if id == "" {
		id = strings.TrimSpace(c.Query("session_id"))
	}
	if id == "" {
		respondError(c, http.StatusUnauthorized, "session required")
		return session{}, false
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unknown session")
		return session{}, false
	}
	return sess, true
}
