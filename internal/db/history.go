package db

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateGame stores a started game together with its roster.
func CreateGame(conn *gorm.DB, game *Game, players []Player) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(game).Error; err != nil {
			return err
		}
		if game.ID == 0 {
			return errors.New("game already recorded")
		}
		for i := range players {
			players[i].GameID = game.ID
		}
		if len(players) == 0 {
			return nil
		}
		return tx.Create(&players).Error
	})
}

func AppendEvent(conn *gorm.DB, gameID uint, round int, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.Create(&Event{
		GameID:  gameID,
		Round:   round,
		Type:    eventType,
		Payload: datatypes.JSON(raw),
	}).Error
}

func UpdatePhase(conn *gorm.DB, gameID uint, phase string, rounds int) error {
	return conn.Model(&Game{}).Where("id = ?", gameID).Updates(map[string]any{
		"phase":  phase,
		"rounds": rounds,
	}).Error
}

// FinishGame records the outcome and flags the winning players by username.
func FinishGame(conn *gorm.DB, gameID uint, phase string, rounds int, team string, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Game{}).Where("id = ?", gameID).Updates(map[string]any{
			"phase":        phase,
			"rounds":       rounds,
			"winning_team": team,
			"winners":      datatypes.JSON(raw),
			"ended_at":     now,
		}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		return tx.Model(&Player{}).
			Where("game_id = ? AND username IN ?", gameID, names).
			Update("won", true).Error
	})
}

// LatestGame returns the most recent recorded game for a lobby.
func LatestGame(conn *gorm.DB, lobbyCode string) (*Game, error) {
	var game Game
	err := conn.Preload("Players", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).Where("lobby_code = ?", lobbyCode).Order("id DESC").First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
