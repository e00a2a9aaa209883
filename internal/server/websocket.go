package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 5 * time.Second

type wsClient struct {
	conn   *websocket.Conn
	userID string
	mu     sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// wsHub groups websocket clients by lobby code.
type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*wsClient]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{groups: make(map[string]map[*wsClient]struct{})}
}

func (h *wsHub) Add(code string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[code] = group
	}
	group[client] = struct{}{}
}

func (h *wsHub) Remove(code string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	if group == nil {
		return
	}
	delete(group, client)
	_ = client.conn.Close()
	if len(group) == 0 {
		delete(h.groups, code)
	}
}

func (h *wsHub) Count(code string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[code])
}

func (h *wsHub) clients(code string, userID string) []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[code]
	out := make([]*wsClient, 0, len(group))
	for client := range group {
		if userID == "" || client.userID == userID {
			out = append(out, client)
		}
	}
	return out
}

func (h *wsHub) Broadcast(code string, msgType string, data any) {
	h.deliver(code, h.clients(code, ""), msgType, data)
}

func (h *wsHub) SendTo(code, userID string, msgType string, data any) {
	h.deliver(code, h.clients(code, userID), msgType, data)
}

func (h *wsHub) deliver(code string, clients []*wsClient, msgType string, data any) {
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(wsMessage{Type: msgType, Data: data})
	if err != nil {
		log.Error().Err(err).Str("lobby", code).Str("type", msgType).Msg("encode ws message")
		return
	}
	for _, client := range clients {
		if err := client.write(payload); err != nil {
			h.Remove(code, client)
		}
	}
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type chatPayload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	code, ok := bindLobbyCode(c)
	if !ok {
		return
	}
	sess, ok := s.requireSession(c)
	if !ok {
		return
	}
	lobby, exists := s.lobbies.Get(code)
	if !exists {
		respondError(c, http.StatusNotFound, errLobbyNotFound.Error())
		return
	}
	if !isMember(lobby, sess.UserID) {
		respondError(c, http.StatusForbidden, errNotMember.Error())
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn, userID: sess.UserID}
	log.Info().Str("lobby", code).Str("user", sess.UserID).Str("remote", c.Request.RemoteAddr).Msg("ws connected")
	s.ws.Add(code, client)
	s.sendLobbyState(code, client)
	go s.readWS(code, sess.UserID, client)
}

func (s *Server) sendLobbyState(code string, client *wsClient) {
	lobby, ok := s.lobbies.Get(code)
	if !ok {
		return
	}
	summary := summarize(lobby)
	s.ws.deliver(code, []*wsClient{client}, msgPlayerList, summary.Members)
	s.ws.deliver(code, []*wsClient{client}, msgReadyCount, readyCount{Ready: summary.Ready, Total: summary.Total})
	if game, running := s.engine.Store().Get(code); running {
		s.ws.deliver(code, []*wsClient{client}, msgStatusUpdate, statusPayload{Bars: game.Bars(), Labels: s.barLabels()})
		s.ws.deliver(code, []*wsClient{client}, msgPOIUpdate, poiUpdate{POIs: game.CurrentPOIs()})
	}
}

func (s *Server) readWS(code, userID string, client *wsClient) {
	defer s.ws.Remove(code, client)
	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("lobby", code).Str("user", userID).Msg("ws disconnected")
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.ws.deliver(code, []*wsClient{client}, msgError, gin.H{"error": "invalid message"})
			continue
		}
		switch msg.Type {
		case msgChatSend:
			s.handleChat(code, userID, client, msg.Data)
		default:
			s.ws.deliver(code, []*wsClient{client}, msgError, gin.H{"error": "unknown message type"})
		}
	}
}

func (s *Server) handleChat(code, userID string, client *wsClient, data json.RawMessage) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		s.ws.deliver(code, []*wsClient{client}, msgError, gin.H{"error": "invalid chat message"})
		return
	}
	text, err := validateChat(body.Message)
	if err != nil {
		s.ws.deliver(code, []*wsClient{client}, msgError, gin.H{"error": err.Error()})
		return
	}
	lobby, ok := s.lobbies.Get(code)
	if !ok {
		return
	}
	sender := ""
	for _, member := range lobby.Members {
		if member.UserID == userID {
			sender = member.Username
		}
	}
	if sender == "" {
		return
	}
	s.ws.Broadcast(code, msgChatReceive, chatPayload{Sender: sender, Message: text})
}

func isMember(lobby *Lobby, userID string) bool {
	for _, member := range lobby.Members {
		if member.UserID == userID {
			return true
		}
	}
	return false
}
