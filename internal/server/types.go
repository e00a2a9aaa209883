package server

import "time"

const (
	msgTimerUpdate   = "update timer phase"
	msgPOIUpdate     = "server-sent poi update"
	msgStatusUpdate  = "status_update"
	msgWinnerData    = "winner_data"
	msgChatReceive   = "receive chat msg"
	msgChatSend      = "send chat msg"
	msgPlayerList    = "player_list_updated"
	msgReadyCount    = "ready_count_updated"
	msgGameStart     = "game_start"
	msgRoleInfo      = "role_info"
	msgRedirect      = "redirect"
	msgError         = "error"
	serverSenderName = "server"
)

// wsMessage is the envelope for every websocket frame in both directions.
type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type Member struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
	IsHost   bool   `json:"is_host"`
}

// Lobby is the pre-game gathering for one join code. A lobby outlives the
// games played in it.
type Lobby struct {
	Code       string
	HostID     string
	Members    []*Member
	Running    bool
	CreatedAt  time.Time
	LastResult *gameResult
}

type LobbySummary struct {
	Code    string   `json:"code"`
	HostID  string   `json:"host_id"`
	Members []Member `json:"players"`
	Ready   int      `json:"ready"`
	Total   int      `json:"total"`
	Running bool     `json:"running"`
}

type session struct {
	ID        string `json:"session_id"`
	UserID    string `json:"user_id"`
	LobbyCode string `json:"lobby_code"`
	Username  string `json:"username"`
}

type resultPlayer struct {
	Username string
	Role     string
	Group    string
	Won      bool
}

type gameResult struct {
	Code    string
	Team    string
	Winners []string
	Rounds  int
	Players []resultPlayer
	EndedAt time.Time
}
