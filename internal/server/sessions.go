package server

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// findOrCreate returns the session for id, or a fresh session with new
// session and user ids when id is unknown.
func (s *sessionStore) findOrCreate(id string) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok && id != "" {
		return *existing, false
	}
	created := &session{
		ID:     uuid.NewString(),
		UserID: uuid.NewString(),
	}
	s.sessions[created.ID] = created
	return *created, true
}

func (s *sessionStore) get(id string) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sessions[id]
	if !ok {
		return session{}, false
	}
	return *existing, true
}

func (s *sessionStore) setLobby(id, code, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		existing.LobbyCode = code
		existing.Username = username
	}
}

func (s *sessionStore) clearLobbyForUser(userID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.UserID == userID && existing.LobbyCode == code {
			existing.LobbyCode = ""
		}
	}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleSession(c *gin.Context) {
	var req sessionRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req, nil, "invalid session request") {
			return
		}
	}
	if req.SessionID == "" {
		req.SessionID = strings.TrimSpace(c.GetHeader(sessionHeader))
	}
	sess, created := s.sessions.findOrCreate(req.SessionID)
	if !created {
		if lobby, member, ok := s.lobbies.FindMember(sess.UserID); ok {
			sess.LobbyCode = lobby
			sess.Username = member.Username
			s.sessions.setLobby(sess.ID, lobby, member.Username)
		} else if sess.LobbyCode != "" {
			sess.LobbyCode = ""
			s.sessions.setLobby(sess.ID, "", sess.Username)
		}
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sess)
}
