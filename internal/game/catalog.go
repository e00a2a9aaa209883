package game

import "math/rand/v2"

const (
	BarHull     = "hull"
	BarOxygen   = "oxygen"
	BarRepairs  = "repairs"
	BarSabotage = "sabotage"
	BarCredits  = "credits"

	RoleTypeLeader = "e_leader"
	RoleTypeMinion = "e_minion"
)

// WinnerAggregation decides which later matches join the winners list once
// an ordinary player's personal win condition has named the team.
type WinnerAggregation int

const (
	// AggregateAllMatches appends every later matching player even when their
	// group differs from the team already chosen.
	AggregateAllMatches WinnerAggregation = iota
	// AggregateSameTeam only appends later matches from the chosen team.
	AggregateSameTeam
)

// Ruleset is the content a game is played with: status bars, points of
// interest, passive drains, global win rules and the role catalog.
type Ruleset struct {
	Bars         []StatusBarDef
	POIs         []POI
	POIsPerRound int
	Passive      map[string]int
	GlobalRules  []GlobalRule
	Leader       Role
	Minion       Role
	Crew         []Role
	Neutral      []Role
	Aggregation  WinnerAggregation
}

func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Bars: []StatusBarDef{
			{ID: BarHull, Label: "Hull integrity", Initial: 100, Min: 0, Max: 100},
			{ID: BarOxygen, Label: "Oxygen", Initial: 100, Min: 0, Max: 100},
			{ID: BarRepairs, Label: "Repairs", Initial: 0, Min: 0, Max: 100},
			{ID: BarSabotage, Label: "Sabotage", Initial: 0, Min: 0, Max: 100},
			{ID: BarCredits, Label: "Smuggled credits", Initial: 0, Min: 0, Max: 100},
		},
		POIs: []POI{
			{ID: "engine_room", Name: "Engine Room", Effects: map[string]int{BarRepairs: 3}},
			{ID: "life_support", Name: "Life Support", Effects: map[string]int{BarOxygen: 2}},
			{ID: "armory", Name: "Armory", Effects: map[string]int{BarHull: 2}},
			{ID: "vents", Name: "Ventilation Shafts", Effects: map[string]int{BarSabotage: 3, BarOxygen: -1}},
			{ID: "cargo_bay", Name: "Cargo Bay", Effects: map[string]int{BarCredits: 3}},
			{ID: "comms_array", Name: "Comms Array", Effects: map[string]int{BarRepairs: 1, BarSabotage: 1}},
			{ID: "maintenance", Name: "Maintenance Tunnels", Effects: map[string]int{BarHull: -2, BarSabotage: 2}},
		},
		POIsPerRound: 4,
		Passive:      map[string]int{BarOxygen: -5},
		GlobalRules: []GlobalRule{
			{Name: "hull breached", Bar: BarHull, Op: AtMost, Threshold: 0, WinGroup: AffiliationEvil, Team: "Saboteurs"},
			{Name: "oxygen depleted", Bar: BarOxygen, Op: AtMost, Threshold: 0, WinGroup: AffiliationEvil, Team: "Saboteurs"},
		},
		Leader: Role{
			Type:         RoleTypeLeader,
			Kind:         RoleLeader,
			Name:         "Saboteur Captain",
			Description:  "Drive sabotage to the limit without being caught.",
			GroupName:    "Saboteurs",
			WinGroup:     AffiliationEvil,
			WinCondition: map[string]Range{BarSabotage: {Min: 100, Max: 100}},
			Capacity:     6,
		},
		Minion: Role{
			Type:        RoleTypeMinion,
			Kind:        RoleMinion,
			Name:        "Saboteur",
			Description: "Help your captain. You win when they do.",
			GroupName:   "Saboteurs",
			WinGroup:    AffiliationEvil,
			Capacity:    4,
		},
		Crew: []Role{
			crewRole("engineer", "Engineer", "Keep the engines running until repairs are done.", 5),
			crewRole("medic", "Medic", "Keep the crew breathing until repairs are done.", 4),
			crewRole("pilot", "Pilot", "Hold course until repairs are done.", 4),
		},
		Neutral: []Role{
			{
				Type:         "smuggler",
				Kind:         RoleOrdinary,
				Name:         "Smuggler",
				Description:  "Fill the cargo hold with credits before anyone notices.",
				GroupName:    "Smugglers",
				WinGroup:     AffiliationNeutral,
				WinCondition: map[string]Range{BarCredits: {Min: 60, Max: 100}},
				Capacity:     4,
			},
		},
		Aggregation: AggregateAllMatches,
	}
}

func crewRole(tag, name, description string, capacity int) Role {
	return Role{
		Type:         tag,
		Kind:         RoleOrdinary,
		Name:         name,
		Description:  description,
		GroupName:    "Crew",
		WinGroup:     AffiliationCrew,
		WinCondition: map[string]Range{BarRepairs: {Min: 100, Max: 100}},
		Capacity:     capacity,
	}
}

func (r *Ruleset) initialBars() map[string]int {
	bars := make(map[string]int, len(r.Bars))
	for _, def := range r.Bars {
		bars[def.ID] = def.Initial
	}
	return bars
}

func (r *Ruleset) barDef(id string) (StatusBarDef, bool) {
	for _, def := range r.Bars {
		if def.ID == id {
			return def, true
		}
	}
	return StatusBarDef{}, false
}

func (r *Ruleset) clamp(id string, value int) int {
	def, ok := r.barDef(id)
	if !ok {
		return value
	}
	return max(def.Min, min(def.Max, value))
}

// AssignRoles hands out roles in place: one leader, a minion for every four
// players (at least one once there are four), a neutral role from six players
// up, and crew roles for everyone else. shuffle may be nil.
func AssignRoles(players []*Player, rules *Ruleset, shuffle func(n int, swap func(i, j int))) {
	if len(players) == 0 {
		return
	}
	if rules == nil {
		rules = DefaultRuleset()
	}
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	order := make([]*Player, len(players))
	copy(order, players)
	shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	minions := len(order) / 4
	next := 0
	order[next].Role = rules.Leader
	next++
	for i := 0; i < minions && next < len(order); i++ {
		order[next].Role = rules.Minion
		next++
	}
	if len(order) >= 6 && len(rules.Neutral) > 0 && next < len(order) {
		order[next].Role = rules.Neutral[0]
		next++
	}
	for i := 0; next < len(order); i++ {
		if len(rules.Crew) == 0 {
			order[next].Role = rules.Minion
		} else {
			order[next].Role = rules.Crew[i%len(rules.Crew)]
		}
		next++
	}
}
