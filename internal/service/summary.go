package service

import (
	"cmp"
	"slices"

	"league-tracker/internal/domain"
)

// Summary is a per-player aggregate over a match table.
type Summary struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float32 `json:"win_rate"`

	Kills   int     `json:"kills"`
	Deaths  int     `json:"deaths"`
	Assists int     `json:"assists"`
	KDA     float32 `json:"kda"`

	AvgCSPerMin    float32 `json:"avg_cs_per_min"`
	AvgGoldPerMin  float32 `json:"avg_gold_per_min"`
	AvgVisionScore float32 `json:"avg_vision_score"`

	Champions []ChampionSummary `json:"champions"`
	Series    []SeriesPoint     `json:"series"`
}

type ChampionSummary struct {
	Champion string  `json:"champion"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	WinRate  float32 `json:"win_rate"`
	KDA      float32 `json:"kda"`

	kills, deaths, assists int
}

// SeriesPoint is one match in chronological order, for plotting.
type SeriesPoint struct {
	MatchID      string  `json:"match_id"`
	GameCreation int64   `json:"game_creation"`
	Champion     string  `json:"champion"`
	Win          bool    `json:"win"`
	KDA          float32 `json:"kda"`
	CreepScore   int     `json:"creep_score"`
	GoldEarned   int     `json:"gold_earned"`
	VisionScore  int     `json:"vision_score"`
}

func Summarize(table domain.MatchTable) Summary {
	s := Summary{
		Games:     len(table),
		Champions: []ChampionSummary{},
		Series:    make([]SeriesPoint, 0, len(table)),
	}
	if len(table) == 0 {
		return s
	}

	var minutes float64
	var cs, gold, vision int
	byChampion := make(map[string]*ChampionSummary)
	var champOrder []string

	for _, row := range table {
		if row.Win {
			s.Wins++
		}
		s.Kills += row.Kills
		s.Deaths += row.Deaths
		s.Assists += row.Assists
		cs += row.CreepScore
		gold += row.GoldEarned
		vision += row.VisionScore
		minutes += float64(row.GameDuration) / 60

		name := row.Champion.Label()
		c, ok := byChampion[name]
		if !ok {
			c = &ChampionSummary{Champion: name}
			byChampion[name] = c
			champOrder = append(champOrder, name)
		}
		c.Games++
		if row.Win {
			c.Wins++
		}
		c.kills += row.Kills
		c.deaths += row.Deaths
		c.assists += row.Assists

		s.Series = append(s.Series, SeriesPoint{
			MatchID:      row.MatchID,
			GameCreation: row.GameCreation,
			Champion:     name,
			Win:          row.Win,
			KDA:          kda(row.Kills, row.Deaths, row.Assists),
			CreepScore:   row.CreepScore,
			GoldEarned:   row.GoldEarned,
			VisionScore:  row.VisionScore,
		})
	}

	s.Losses = s.Games - s.Wins
	s.WinRate = float32(s.Wins) / float32(s.Games)
	s.KDA = kda(s.Kills, s.Deaths, s.Assists)
	s.AvgVisionScore = float32(vision) / float32(s.Games)
	if minutes > 0 {
		s.AvgCSPerMin = float32(float64(cs) / minutes)
		s.AvgGoldPerMin = float32(float64(gold) / minutes)
	}

	for _, name := range champOrder {
		c := byChampion[name]
		c.WinRate = float32(c.Wins) / float32(c.Games)
		c.KDA = kda(c.kills, c.deaths, c.assists)
		s.Champions = append(s.Champions, *c)
	}
	slices.SortStableFunc(s.Champions, func(a, b ChampionSummary) int {
		return cmp.Compare(b.Games, a.Games)
	})
	slices.SortStableFunc(s.Series, func(a, b SeriesPoint) int {
		return cmp.Compare(a.GameCreation, b.GameCreation)
	})
	return s
}

// kda counts a deathless game as if the player died once.
func kda(kills, deaths, assists int) float32 {
	if deaths == 0 {
		return float32(kills + assists)
	}
	return float32(kills+assists) / float32(deaths)
}
