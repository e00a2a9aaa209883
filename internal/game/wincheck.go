package game

import "fmt"

type Comparison int

const (
	AtMost Comparison = iota
	AtLeast
)

// GlobalRule is a predicate over the whole status ledger. Rules are checked
// in slice order and the first match decides the winning side.
type GlobalRule struct {
	Name      string
	Bar       string
	Op        Comparison
	Threshold int
	WinGroup  Affiliation
	Team      string
}

func (r GlobalRule) matches(bars map[string]int) (bool, error) {
	value, ok := bars[r.Bar]
	if !ok {
		return false, fmt.Errorf("global rule %q: %w %q", r.Name, ErrUnknownStatusBar, r.Bar)
	}
	switch r.Op {
	case AtMost:
		return value <= r.Threshold, nil
	case AtLeast:
		return value >= r.Threshold, nil
	default:
		return false, fmt.Errorf("global rule %q: unknown comparison %d", r.Name, int(r.Op))
	}
}

// CheckGlobalWin evaluates the global rules against the ledger. Everyone whose
// role plays for the matching rule's side wins.
func CheckGlobalWin(players []*Player, bars map[string]int, rules []GlobalRule) (Winners, error) {
	for _, rule := range rules {
		matched, err := rule.matches(bars)
		if err != nil {
			return NoWinners(), err
		}
		if !matched {
			continue
		}
		winners := NoWinners()
		for _, player := range players {
			if player.Role.WinGroup != rule.WinGroup {
				continue
			}
			if winners.Team == "" {
				winners.Team = player.Role.GroupName
			}
			winners.Names = append(winners.Names, player.Username)
		}
		if winners.Team == "" {
			winners.Team = rule.Team
		}
		return winners, nil
	}
	return NoWinners(), nil
}

// CheckRoleWin evaluates personal win conditions. The leader is checked first
// and brings every minion along; otherwise ordinary players are scanned in
// registry order and the first match names the team.
func CheckRoleWin(players []*Player, bars map[string]int, policy WinnerAggregation) (Winners, error) {
	for _, leader := range players {
		if leader.Role.Kind != RoleLeader {
			continue
		}
		met, err := ConditionMet(leader.Role.WinCondition, bars)
		if err != nil {
			return NoWinners(), fmt.Errorf("role %s: %w", leader.Role.Type, err)
		}
		if met {
			winners := Winners{Team: leader.Role.GroupName, Names: []string{leader.Username}}
			for _, player := range players {
				if player.Role.Kind == RoleMinion {
					winners.Names = append(winners.Names, player.Username)
				}
			}
			return winners, nil
		}
		break
	}

	winners := NoWinners()
	for _, player := range players {
		if player.Role.Kind != RoleOrdinary {
			continue
		}
		met, err := ConditionMet(player.Role.WinCondition, bars)
		if err != nil {
			return NoWinners(), fmt.Errorf("role %s: %w", player.Role.Type, err)
		}
		if !met {
			continue
		}
		switch {
		case winners.Team == "":
			winners.Team = player.Role.GroupName
		case policy == AggregateSameTeam && player.Role.GroupName != winners.Team:
			continue
		}
		winners.Names = append(winners.Names, player.Username)
	}
	return winners, nil
}

// ConditionMet reports whether every range in the condition holds. An empty
// condition always holds.
func ConditionMet(condition map[string]Range, bars map[string]int) (bool, error) {
	met := true
	for bar, bounds := range condition {
		if bounds.Min > bounds.Max {
			return false, fmt.Errorf("bar %s: %w", bar, ErrInvalidRange)
		}
		value, ok := bars[bar]
		if !ok {
			return false, fmt.Errorf("%w %q", ErrUnknownStatusBar, bar)
		}
		if !bounds.Contains(value) {
			met = false
		}
	}
	return met, nil
}
