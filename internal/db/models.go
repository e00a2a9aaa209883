package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Game struct {
	ID          uint           `gorm:"primaryKey"`
	PublicID    uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null"`
	LobbyCode   string         `gorm:"size:12;index;not null"`
	Phase       string         `gorm:"size:32;not null"`
	Rounds      int            `gorm:"not null;default:0"`
	WinningTeam string         `gorm:"size:64;not null;default:''"`
	Winners     datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	StartedAt   time.Time      `gorm:"not null"`
	EndedAt     *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Players     []Player
	Events      []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_players_game_user"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_user"`
	Username  string    `gorm:"size:64;not null"`
	RoleType  string    `gorm:"size:32;not null"`
	GroupName string    `gorm:"size:64;not null"`
	Won       bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	Round     int            `gorm:"not null;default:0"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
