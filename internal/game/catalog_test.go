package game

import (
	"fmt"
	"testing"
)

func lobbyOf(n int) []*Player {
	players := make([]*Player, n)
	for i := range players {
		players[i] = &Player{ID: fmt.Sprintf("p%d", i+1), Username: fmt.Sprintf("player%d", i+1)}
	}
	return players
}

func TestAssignRolesByLobbySize(t *testing.T) {
	cases := []struct {
		size     int
		leaders  int
		minions  int
		neutrals int
	}{
		{size: 3, leaders: 1, minions: 0, neutrals: 0},
		{size: 4, leaders: 1, minions: 1, neutrals: 0},
		{size: 6, leaders: 1, minions: 1, neutrals: 1},
		{size: 8, leaders: 1, minions: 2, neutrals: 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d players", tc.size), func(t *testing.T) {
			players := lobbyOf(tc.size)
			AssignRoles(players, nil, keepOrder)

			var leaders, minions, neutrals, crew int
			for _, player := range players {
				switch {
				case player.Role.Kind == RoleLeader:
					leaders++
				case player.Role.Kind == RoleMinion:
					minions++
				case player.Role.WinGroup == AffiliationNeutral:
					neutrals++
				case player.Role.WinGroup == AffiliationCrew:
					crew++
				default:
					t.Fatalf("unexpected role %#v", player.Role)
				}
			}
			if leaders != tc.leaders || minions != tc.minions || neutrals != tc.neutrals {
				t.Fatalf("expected %d/%d/%d, got %d/%d/%d", tc.leaders, tc.minions, tc.neutrals, leaders, minions, neutrals)
			}
			if crew != tc.size-leaders-minions-neutrals {
				t.Fatalf("expected rest to be crew, got %d", crew)
			}
			if _, err := NewGame("ROLE01", players, nil); err != nil {
				t.Fatalf("expected assigned roles to validate, got %v", err)
			}
		})
	}
}

func TestDefaultRulesetValidates(t *testing.T) {
	rules := DefaultRuleset()
	bars := rules.initialBars()
	roles := append([]Role{rules.Leader, rules.Minion}, rules.Crew...)
	roles = append(roles, rules.Neutral...)
	for _, role := range roles {
		if err := role.validate(bars); err != nil {
			t.Fatalf("expected %s to validate, got %v", role.Type, err)
		}
	}
	for _, poi := range rules.POIs {
		for bar := range poi.Effects {
			if _, ok := bars[bar]; !ok {
				t.Fatalf("expected POI %s to reference a known bar, got %s", poi.ID, bar)
			}
		}
	}
}
