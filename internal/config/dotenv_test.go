package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dark-orbit/internal/game"
)

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("MIN_PLAYERS", "4")
	t.Setenv("MAX_PLAYERS", "2")
	t.Setenv("DISCUSSION_SECONDS", "0")
	t.Setenv("ACTION_SECONDS", "-5")
	t.Setenv("STRICT_TEAM_WINNERS", "true")
	t.Setenv("POIS_PER_ROUND", "3")

	cfg := Load()
	if cfg.MinPlayers != 4 || cfg.MaxPlayers != 4 {
		t.Fatalf("expected players 4..4, got %d..%d", cfg.MinPlayers, cfg.MaxPlayers)
	}
	if cfg.DiscussionSeconds != 0 {
		t.Fatalf("expected zero discussion to be allowed, got %d", cfg.DiscussionSeconds)
	}
	if cfg.ActionSeconds != Default().ActionSeconds {
		t.Fatalf("expected negative action to be ignored, got %d", cfg.ActionSeconds)
	}
	rules := cfg.Ruleset()
	if rules.Aggregation != game.AggregateSameTeam || rules.POIsPerRound != 3 {
		t.Fatalf("expected strict 3-POI ruleset, got %v %d", rules.Aggregation, rules.POIsPerRound)
	}
}

func TestTimingsMatchEngineDefaults(t *testing.T) {
	if got, want := Default().Timings(), game.DefaultTimings(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	cfg := Default()
	cfg.InformationSeconds = 0
	if got := cfg.Timings().Duration(game.PhaseInformation); got != 2*time.Second {
		t.Fatalf("expected only the fixed delay, got %s", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DARK_ORBIT_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("DARK_ORBIT_TEST_KEY", "from-env")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if got := os.Getenv("DARK_ORBIT_TEST_KEY"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
