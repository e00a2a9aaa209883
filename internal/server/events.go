package server

const (
	eventGameStarted  = "game_started"
	eventPhaseChanged = "phase_changed"
	eventGameOver     = "game_over"
	eventGameAborted  = "game_aborted"
)

type EventPayload struct {
	LobbyCode string   `json:"lobby_code,omitempty"`
	Phase     string   `json:"phase,omitempty"`
	Round     int      `json:"round,omitempty"`
	LengthMS  int64    `json:"length_ms,omitempty"`
	Team      string   `json:"team,omitempty"`
	Winners   []string `json:"winners,omitempty"`
	Players   []string `json:"players,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}
