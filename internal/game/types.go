package game

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// RoleKind classifies a role for the role-specific win check.
type RoleKind int

const (
	RoleOrdinary RoleKind = iota
	RoleLeader
	RoleMinion
)

func (k RoleKind) Valid() bool {
	return k == RoleOrdinary || k == RoleLeader || k == RoleMinion
}

// Affiliation is the coarse side a role plays for in global win checks.
type Affiliation string

const (
	AffiliationCrew    Affiliation = "crew"
	AffiliationEvil    Affiliation = "evil"
	AffiliationNeutral Affiliation = "neutral"
)

func (a Affiliation) Valid() bool {
	return a == AffiliationCrew || a == AffiliationEvil || a == AffiliationNeutral
}

// Range is an inclusive bound on a status bar value.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(value int) bool {
	return value >= r.Min && value <= r.Max
}

type Role struct {
	Type         string           `json:"type"`
	Kind         RoleKind         `json:"-"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	GroupName    string           `json:"group_name"`
	WinGroup     Affiliation      `json:"win_group"`
	WinCondition map[string]Range `json:"win_condition"`
	Capacity     int              `json:"capacity"`
}

func (r Role) validate(bars map[string]int) error {
	if r.Type == "" {
		return fmt.Errorf("%w: missing type", ErrInvalidRole)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %s has kind %d", ErrInvalidRole, r.Type, int(r.Kind))
	}
	if !r.WinGroup.Valid() {
		return fmt.Errorf("%w: %s has win group %q", ErrInvalidRole, r.Type, r.WinGroup)
	}
	if r.GroupName == "" {
		return fmt.Errorf("%w: %s has no group name", ErrInvalidRole, r.Type)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("%w: %s has negative capacity", ErrInvalidRole, r.Type)
	}
	for bar, bounds := range r.WinCondition {
		if _, ok := bars[bar]; !ok {
			return fmt.Errorf("role %s: %w %q", r.Type, ErrUnknownStatusBar, bar)
		}
		if bounds.Min > bounds.Max {
			return fmt.Errorf("role %s bar %s: %w", r.Type, bar, ErrInvalidRange)
		}
	}
	return nil
}

type Player struct {
	ID       string
	Username string
	Role     Role
	POIs     map[string]int
}

// POI is a point of interest players spend points on during the action
// phase. Effects are applied once per allocated point.
type POI struct {
	ID      string
	Name    string
	Effects map[string]int
}

type POIRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StatusBarDef struct {
	ID      string
	Label   string
	Initial int
	Min     int
	Max     int
}

// Winners is the outcome of a win check. The zero-winner value always has a
// non-nil Names slice.
type Winners struct {
	Team  string   `json:"team"`
	Names []string `json:"names"`
}

func NoWinners() Winners {
	return Winners{Team: "", Names: []string{}}
}

func (w Winners) Found() bool {
	return w.Team != "" || len(w.Names) > 0
}

func (w Winners) clone() Winners {
	names := make([]string, len(w.Names))
	copy(names, w.Names)
	return Winners{Team: w.Team, Names: names}
}

type Game struct {
	mu sync.Mutex

	Code           string
	Phase          Phase
	Round          int
	Players        []*Player
	StatusBars     map[string]int
	MessageQueue   []string
	POIs           []POI
	Winners        Winners
	PhaseStartedAt time.Time

	snapshot map[string]int
	rules    *Ruleset
}

// NewGame validates players and roles against the ruleset and returns a game
// in the setup phase.
func NewGame(code string, players []*Player, rules *Ruleset) (*Game, error) {
	if rules == nil {
		rules = DefaultRuleset()
	}
	bars := rules.initialBars()
	seen := make(map[string]struct{}, len(players))
	leaders := 0
	for _, player := range players {
		if player == nil || player.ID == "" {
			return nil, fmt.Errorf("%w: player without id", ErrInvalidRole)
		}
		if _, dup := seen[player.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", player.ID)
		}
		seen[player.ID] = struct{}{}
		if err := player.Role.validate(bars); err != nil {
			return nil, err
		}
		if player.Role.Kind == RoleLeader {
			leaders++
		}
		if player.POIs == nil {
			player.POIs = make(map[string]int)
		}
	}
	if leaders > 1 {
		return nil, fmt.Errorf("%w: %d leaders assigned", ErrInvalidRole, leaders)
	}
	return &Game{
		Code:           code,
		Phase:          PhaseSetup,
		Players:        players,
		StatusBars:     bars,
		MessageQueue:   []string{},
		Winners:        NoWinners(),
		PhaseStartedAt: time.Now().UTC(),
		snapshot:       cloneBars(bars),
		rules:          rules,
	}, nil
}

func (g *Game) CurrentPhase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Phase
}

func (g *Game) CurrentWinners() Winners {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Winners.clone()
}

func (g *Game) CurrentRound() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Round
}

func (g *Game) Bars() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cloneBars(g.StatusBars)
}

func (g *Game) PendingMessages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.MessageQueue)
}

func (g *Game) FindPlayer(id string) (*Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	player := g.findPlayer(id)
	return player, player != nil
}

func (g *Game) findPlayer(id string) *Player {
	for _, player := range g.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

func (g *Game) setPhase(phase Phase) {
	g.Phase = phase
	g.PhaseStartedAt = time.Now().UTC()
}

func (g *Game) ruleset() *Ruleset {
	if g.rules == nil {
		g.rules = DefaultRuleset()
	}
	return g.rules
}

func cloneBars(bars map[string]int) map[string]int {
	out := make(map[string]int, len(bars))
	for id, value := range bars {
		out[id] = value
	}
	return out
}
