package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dark-orbit/internal/game"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	Env                      string
	LogLevel                 string
	PublicURL                string
	MinPlayers               int
	MaxPlayers               int
	SetupGraceMillis         int
	InformationDelayMillis   int
	InformationSeconds       int
	DiscussionSeconds        int
	ActionSeconds            int
	ServerProcessingMillis   int
	GameOverSeconds          int
	MessageDelayMillis       int
	POIsPerRound             int
	StrictTeamWinners        bool
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		Env:                      "dev",
		LogLevel:                 "info",
		MinPlayers:               3,
		MaxPlayers:               10,
		SetupGraceMillis:         1000,
		InformationDelayMillis:   2000,
		InformationSeconds:       10,
		DiscussionSeconds:        60,
		ActionSeconds:            30,
		ServerProcessingMillis:   0,
		GameOverSeconds:          10,
		MessageDelayMillis:       500,
		POIsPerRound:             4,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("ENV"); raw != "" {
		cfg.Env = strings.ToLower(raw)
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("PUBLIC_URL"); raw != "" {
		cfg.PublicURL = strings.TrimRight(raw, "/")
	}
	positiveInt("MIN_PLAYERS", &cfg.MinPlayers)
	positiveInt("MAX_PLAYERS", &cfg.MaxPlayers)
	if cfg.MaxPlayers < cfg.MinPlayers {
		cfg.MaxPlayers = cfg.MinPlayers
	}
	nonNegativeInt("SETUP_GRACE_MS", &cfg.SetupGraceMillis)
	nonNegativeInt("INFORMATION_DELAY_MS", &cfg.InformationDelayMillis)
	nonNegativeInt("INFORMATION_SECONDS", &cfg.InformationSeconds)
	nonNegativeInt("DISCUSSION_SECONDS", &cfg.DiscussionSeconds)
	nonNegativeInt("ACTION_SECONDS", &cfg.ActionSeconds)
	nonNegativeInt("SERVER_PROCESSING_MS", &cfg.ServerProcessingMillis)
	nonNegativeInt("GAME_OVER_SECONDS", &cfg.GameOverSeconds)
	nonNegativeInt("MESSAGE_DELAY_MS", &cfg.MessageDelayMillis)
	positiveInt("POIS_PER_ROUND", &cfg.POIsPerRound)
	if raw := os.Getenv("STRICT_TEAM_WINNERS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.StrictTeamWinners = value
		}
	}
	positiveInt("DB_MAX_OPEN_CONNS", &cfg.DBMaxOpenConns)
	positiveInt("DB_MAX_IDLE_CONNS", &cfg.DBMaxIdleConns)
	positiveInt("DB_CONN_MAX_LIFETIME_SECONDS", &cfg.DBConnMaxLifetimeSeconds)
	positiveInt("DB_CONN_MAX_IDLE_SECONDS", &cfg.DBConnMaxIdleTimeSeconds)
	return cfg
}

func positiveInt(key string, dst *int) {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			*dst = value
		}
	}
}

func nonNegativeInt(key string, dst *int) {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			*dst = value
		}
	}
}

func (c Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Timings converts the configured phase lengths into the engine's timing
// table.
func (c Config) Timings() game.Timings {
	return game.Timings{
		SetupGrace:       time.Duration(c.SetupGraceMillis) * time.Millisecond,
		InformationDelay: time.Duration(c.InformationDelayMillis) * time.Millisecond,
		Information:      time.Duration(c.InformationSeconds) * time.Second,
		Discussion:       time.Duration(c.DiscussionSeconds) * time.Second,
		Action:           time.Duration(c.ActionSeconds) * time.Second,
		ServerProcessing: time.Duration(c.ServerProcessingMillis) * time.Millisecond,
		GameOver:         time.Duration(c.GameOverSeconds) * time.Second,
		MessageDelay:     time.Duration(c.MessageDelayMillis) * time.Millisecond,
	}
}

// Ruleset returns the default catalog with the configured round size and
// winner policy applied.
func (c Config) Ruleset() *game.Ruleset {
	rules := game.DefaultRuleset()
	rules.POIsPerRound = c.POIsPerRound
	if c.StrictTeamWinners {
		rules.Aggregation = game.AggregateSameTeam
	}
	return rules
}
