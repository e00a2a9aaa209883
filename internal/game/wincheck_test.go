package game

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func defaultBars() map[string]int {
	return DefaultRuleset().initialBars()
}

func TestCheckGlobalWinNamesWholeSide(t *testing.T) {
	rules := DefaultRuleset()
	bars := defaultBars()
	bars[BarHull] = 0

	winners, err := CheckGlobalWin(testPlayers(), bars, rules.GlobalRules)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Team != "Saboteurs" {
		t.Fatalf("expected Saboteurs, got %q", winners.Team)
	}
	if !slices.Equal(winners.Names, []string{"Milo", "Lena"}) {
		t.Fatalf("expected every evil player once, got %v", winners.Names)
	}
}

func TestCheckGlobalWinFirstRuleDecides(t *testing.T) {
	bars := defaultBars()
	bars[BarHull] = 0
	bars[BarCredits] = 100
	rules := []GlobalRule{
		{Name: "cargo full", Bar: BarCredits, Op: AtLeast, Threshold: 100, WinGroup: AffiliationNeutral, Team: "Smugglers"},
		{Name: "hull breached", Bar: BarHull, Op: AtMost, Threshold: 0, WinGroup: AffiliationEvil, Team: "Saboteurs"},
	}

	winners, err := CheckGlobalWin(testPlayers(), bars, rules)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Team != "Smugglers" || !slices.Equal(winners.Names, []string{"Sam"}) {
		t.Fatalf("expected the first rule to win, got %#v", winners)
	}
}

func TestCheckGlobalWinFallsBackToRuleTeam(t *testing.T) {
	bars := defaultBars()
	bars[BarHull] = 0
	players := []*Player{{ID: "p1", Username: "Cass", Role: DefaultRuleset().Crew[0]}}

	winners, err := CheckGlobalWin(players, bars, DefaultRuleset().GlobalRules)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Team != "Saboteurs" || len(winners.Names) != 0 {
		t.Fatalf("expected rule team with no names, got %#v", winners)
	}
}

func TestCheckGlobalWinUnknownBar(t *testing.T) {
	rules := []GlobalRule{{Name: "bad", Bar: "shields", Op: AtMost, WinGroup: AffiliationEvil}}
	_, err := CheckGlobalWin(testPlayers(), defaultBars(), rules)
	if !errors.Is(err, ErrUnknownStatusBar) {
		t.Fatalf("expected ErrUnknownStatusBar, got %v", err)
	}
}

func TestCheckRoleWinLeaderBringsMinions(t *testing.T) {
	bars := defaultBars()
	bars[BarSabotage] = 100
	bars[BarRepairs] = 100

	winners, err := CheckRoleWin(testPlayers(), bars, AggregateAllMatches)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Team != "Saboteurs" {
		t.Fatalf("expected Saboteurs, got %q", winners.Team)
	}
	if !slices.Equal(winners.Names, []string{"Lena", "Milo"}) {
		t.Fatalf("expected leader then minions, got %v", winners.Names)
	}
}

func TestCheckRoleWinAggregation(t *testing.T) {
	bars := defaultBars()
	bars[BarRepairs] = 100
	bars[BarCredits] = 60

	all, err := CheckRoleWin(testPlayers(), bars, AggregateAllMatches)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if all.Team != "Crew" || !slices.Equal(all.Names, []string{"Cass", "Drew", "Sam"}) {
		t.Fatalf("expected every match appended, got %#v", all)
	}

	same, err := CheckRoleWin(testPlayers(), bars, AggregateSameTeam)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if same.Team != "Crew" || !slices.Equal(same.Names, []string{"Cass", "Drew"}) {
		t.Fatalf("expected only crew, got %#v", same)
	}
}

func TestCheckRoleWinEmptyConditionHolds(t *testing.T) {
	players := []*Player{{ID: "p1", Username: "Ivy", Role: Role{
		Type:      "drifter",
		Kind:      RoleOrdinary,
		GroupName: "Drifters",
		WinGroup:  AffiliationNeutral,
	}}}

	winners, err := CheckRoleWin(players, defaultBars(), AggregateAllMatches)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Team != "Drifters" || !slices.Equal(winners.Names, []string{"Ivy"}) {
		t.Fatalf("expected empty condition to win, got %#v", winners)
	}
}

func TestCheckRoleWinNoWinners(t *testing.T) {
	winners, err := CheckRoleWin(testPlayers(), defaultBars(), AggregateAllMatches)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if winners.Found() {
		t.Fatalf("expected no winners, got %#v", winners)
	}
	body, err := json.Marshal(winners)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"team":"","names":[]}` {
		t.Fatalf("expected empty winners shape, got %s", body)
	}
}

func TestConditionMetErrors(t *testing.T) {
	bars := defaultBars()
	if _, err := ConditionMet(map[string]Range{"shields": {Min: 0, Max: 1}}, bars); !errors.Is(err, ErrUnknownStatusBar) {
		t.Fatalf("expected ErrUnknownStatusBar, got %v", err)
	}
	if _, err := ConditionMet(map[string]Range{BarHull: {Min: 10, Max: 5}}, bars); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestConditionMetRequiresEveryRange(t *testing.T) {
	bars := defaultBars()
	condition := map[string]Range{
		BarHull:   {Min: 50, Max: 100},
		BarOxygen: {Min: 0, Max: 10},
	}
	met, err := ConditionMet(condition, bars)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if met {
		t.Fatalf("expected condition to fail when one range misses")
	}
	bars[BarOxygen] = 10
	if met, _ := ConditionMet(condition, bars); !met {
		t.Fatalf("expected condition to hold at the inclusive bound")
	}
	if met, _ := ConditionMet(nil, bars); !met {
		t.Fatalf("expected empty condition to hold")
	}
}
