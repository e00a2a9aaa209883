package web

import "time"

type LobbyCard struct {
	Code    string
	Players int
	Running bool
}

type ResultPlayer struct {
	Username string
	Role     string
	Group    string
	Won      bool
}

// GameOverView is everything the game-over page shows about a finished game.
type GameOverView struct {
	Code    string
	Team    string
	Winners []string
	Rounds  int
	Players []ResultPlayer
	EndedAt time.Time
}
