package service

import (
	"math"
	"testing"

	"league-tracker/internal/domain"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestSummarize(t *testing.T) {
	table := domain.MatchTable{
		{MatchID: "NA1_2", GameCreation: 2000, GameDuration: 1800, Champion: domain.Ref{ID: 22, Name: "Ashe"}, Win: true, Kills: 10, Deaths: 2, Assists: 4, CreepScore: 240, GoldEarned: 15000, VisionScore: 30},
		{MatchID: "NA1_1", GameCreation: 1000, GameDuration: 1200, Champion: domain.Ref{ID: 22, Name: "Ashe"}, Win: false, Kills: 2, Deaths: 6, Assists: 3, CreepScore: 160, GoldEarned: 9000, VisionScore: 18},
		{MatchID: "NA1_3", GameCreation: 3000, GameDuration: 600, Champion: domain.Ref{ID: 777}, Win: true, Kills: 3, Deaths: 0, Assists: 1, CreepScore: 100, GoldEarned: 6000, VisionScore: 12},
	}

	s := Summarize(table)

	if s.Games != 3 || s.Wins != 2 || s.Losses != 1 {
		t.Errorf("games/wins/losses = %d/%d/%d", s.Games, s.Wins, s.Losses)
	}
	if !approx(s.WinRate, 2.0/3.0) {
		t.Errorf("WinRate = %v", s.WinRate)
	}
	if s.Kills != 15 || s.Deaths != 8 || s.Assists != 8 {
		t.Errorf("K/D/A = %d/%d/%d", s.Kills, s.Deaths, s.Assists)
	}
	if !approx(s.KDA, 23.0/8.0) {
		t.Errorf("KDA = %v", s.KDA)
	}
	// 500 cs over 60 minutes
	if !approx(s.AvgCSPerMin, 500.0/60.0) {
		t.Errorf("AvgCSPerMin = %v", s.AvgCSPerMin)
	}
	if !approx(s.AvgGoldPerMin, 30000.0/60.0) {
		t.Errorf("AvgGoldPerMin = %v", s.AvgGoldPerMin)
	}
	if !approx(s.AvgVisionScore, 20) {
		t.Errorf("AvgVisionScore = %v", s.AvgVisionScore)
	}

	if len(s.Champions) != 2 || s.Champions[0].Champion != "Ashe" || s.Champions[0].Games != 2 {
		t.Errorf("Champions = %+v", s.Champions)
	}
	if s.Champions[1].Champion != "777" || !approx(s.Champions[1].KDA, 4) {
		t.Errorf("unresolved champion summary = %+v", s.Champions[1])
	}

	wantOrder := []string{"NA1_1", "NA1_2", "NA1_3"}
	for i, p := range s.Series {
		if p.MatchID != wantOrder[i] {
			t.Errorf("series[%d] = %s, want %s", i, p.MatchID, wantOrder[i])
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Games != 0 || s.WinRate != 0 || s.KDA != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Series == nil || s.Champions == nil {
		t.Error("empty summary should carry empty, non-nil lists")
	}
}
