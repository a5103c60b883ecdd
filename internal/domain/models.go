package domain

import "strconv"

// PlayerIdentity is the puuid of a Riot account.
type PlayerIdentity string

// Ref is a numeric reference-data code together with its resolved display
// values. Name and Icon stay empty until the code is enriched; a code the
// reference tables don't know keeps only its ID.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Icon string `json:"icon,omitempty"`
}

func (r Ref) Resolved() bool {
	return r.Name != ""
}

// Label returns the name when resolved, the raw code otherwise.
func (r Ref) Label() string {
	if r.Resolved() {
		return r.Name
	}
	return strconv.Itoa(r.ID)
}

type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type TeamObjectives struct {
	Baron      Objective `json:"baron"`
	Dragon     Objective `json:"dragon"`
	Horde      Objective `json:"horde"` // void grubs
	RiftHerald Objective `json:"rift_herald"`
	Tower      Objective `json:"tower"`
	Inhibitor  Objective `json:"inhibitor"`
}

type Runes struct {
	Defense         int `json:"defense"`
	Offense         int `json:"offense"`
	Flex            int `json:"flex"`
	PrimaryStyle    int `json:"primary_style"`
	SecondaryStyle  int `json:"secondary_style"`
	PrimaryKeystone int `json:"primary_keystone"`
	PrimaryPerk1    int `json:"primary_perk1"`
	PrimaryPerk2    int `json:"primary_perk2"`
	PrimaryPerk3    int `json:"primary_perk3"`
	SecondaryPerk1  int `json:"secondary_perk1"`
	SecondaryPerk2  int `json:"secondary_perk2"`
}

// MatchStatRow is one player's flattened statistics for one match.
type MatchStatRow struct {
	MatchID       string   `json:"match_id"`
	Participants  []string `json:"participants"`
	GameCreation  int64    `json:"game_creation"`
	GameDuration  int64    `json:"game_duration"`
	GameStartTime int64    `json:"game_start_time"`
	GameEnd       int64    `json:"game_end"`
	Patch         string   `json:"patch"`
	Puuid         string   `json:"puuid"`
	Win           bool     `json:"win"`
	Side          string   `json:"side"`
	Role          string   `json:"role"`
	Queue         string   `json:"queue"`

	ChampLevel     int  `json:"champ_lvl"`
	Champion       Ref  `json:"champion"`
	ChampTransform int  `json:"champ_transform"`
	Kills          int  `json:"kills"`
	Deaths         int  `json:"deaths"`
	Assists        int  `json:"assists"`
	FirstBlood     bool `json:"first_blood"`
	EarlySurrender bool `json:"early_surrender"`
	Surrender      bool `json:"surrender"`
	GoldEarned     int  `json:"gold_earned"`

	Item0 Ref `json:"item0"`
	Item1 Ref `json:"item1"`
	Item2 Ref `json:"item2"`
	Item3 Ref `json:"item3"`
	Item4 Ref `json:"item4"`
	Item5 Ref `json:"item5"`
	Item6 Ref `json:"item6"`

	SummonerID   string `json:"summoner_id"`
	SummonerName string `json:"summoner_name"`

	NeutralMinionsKilled int `json:"neutral_minions_killed"`
	TotalMinionsKilled   int `json:"total_minions_killed"`
	CreepScore           int `json:"creep_score"`

	TotalDamageDealt    int `json:"total_damage_dealt"`
	TotalDamageShielded int `json:"total_damage_shielded"`
	TotalDamageTaken    int `json:"total_damage_taken"`
	TotalDamageHealed   int `json:"total_damage_healed"`
	TotalTimeCCDealt    int `json:"total_time_cc_dealt"`

	WardsPlaced int `json:"wards_placed"`
	WardsKilled int `json:"wards_killed"`
	VisionScore int `json:"vision_score"`

	Runes Runes `json:"runes"`

	ObjectivesStolen        int `json:"objectives_stolen"`
	ObjectivesStolenAssists int `json:"objectives_stolen_assists"`

	// nil when the match has no team block for the player's side
	TeamObjectives *TeamObjectives `json:"team_objectives,omitempty"`
}

// Items returns pointers to the seven item slots in slot order.
func (r *MatchStatRow) Items() [7]*Ref {
	return [7]*Ref{&r.Item0, &r.Item1, &r.Item2, &r.Item3, &r.Item4, &r.Item5, &r.Item6}
}

// MatchTable holds one row per requested match, in fetch-completion order
// unless re-sorted by the pipeline.
type MatchTable []MatchStatRow
