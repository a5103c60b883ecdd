package api

type AccountResponse struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type SummonerResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	Puuid         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

// MatchResponse is the raw match-v5 document. Only the fields the extractor
// reads are modelled.
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	DataVersion  string   `json:"dataVersion"`
	Participants []string `json:"participants"` // puuids, parallel to Info.Participants
}

type MatchInfo struct {
	GameCreation       int64         `json:"gameCreation"`
	GameDuration       int64         `json:"gameDuration"`
	GameStartTimestamp int64         `json:"gameStartTimestamp"`
	GameEndTimestamp   int64         `json:"gameEndTimestamp"`
	GameVersion        string        `json:"gameVersion"`
	GameMode           string        `json:"gameMode"`
	QueueID            int           `json:"queueId"`
	Participants       []Participant `json:"participants"`
	Teams              []Team        `json:"teams"`
}

type Participant struct {
	Puuid          string `json:"puuid"`
	SummonerID     string `json:"summonerId"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	TeamID         int    `json:"teamId"`
	Win            bool   `json:"win"`

	TeamPosition       string `json:"teamPosition"`
	IndividualPosition string `json:"individualPosition"`
	Lane               string `json:"lane"`
	Role               string `json:"role"`

	ChampLevel        int `json:"champLevel"`
	ChampionID        int `json:"championId"`
	ChampionTransform int `json:"championTransform"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	FirstBloodKill            bool `json:"firstBloodKill"`
	GameEndedInEarlySurrender bool `json:"gameEndedInEarlySurrender"`
	GameEndedInSurrender      bool `json:"gameEndedInSurrender"`

	GoldEarned int `json:"goldEarned"`
	Item0      int `json:"item0"`
	Item1      int `json:"item1"`
	Item2      int `json:"item2"`
	Item3      int `json:"item3"`
	Item4      int `json:"item4"`
	Item5      int `json:"item5"`
	Item6      int `json:"item6"` // trinket

	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	TotalMinionsKilled   int `json:"totalMinionsKilled"`

	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	TotalHealsOnTeammates          int `json:"totalHealsOnTeammates"`
	TotalTimeCCDealt               int `json:"totalTimeCCDealt"`

	WardsPlaced int `json:"wardsPlaced"`
	WardsKilled int `json:"wardsKilled"`
	VisionScore int `json:"visionScore"`

	ObjectivesStolen        int `json:"objectivesStolen"`
	ObjectivesStolenAssists int `json:"objectivesStolenAssists"`

	Perks *Perks `json:"perks"`
}

type Perks struct {
	StatPerks StatPerks   `json:"statPerks"`
	Styles    []PerkStyle `json:"styles"`
}

type StatPerks struct {
	Defense int `json:"defense"`
	Flex    int `json:"flex"`
	Offense int `json:"offense"`
}

type PerkStyle struct {
	Description string          `json:"description"` // "primaryStyle" / "subStyle"
	Style       int             `json:"style"`
	Selections  []PerkSelection `json:"selections"`
}

type PerkSelection struct {
	Perk int `json:"perk"`
	Var1 int `json:"var1"`
	Var2 int `json:"var2"`
	Var3 int `json:"var3"`
}

type Team struct {
	TeamID     int        `json:"teamId"`
	Win        bool       `json:"win"`
	Objectives Objectives `json:"objectives"`
}

type Objectives struct {
	Baron      Objective `json:"baron"`
	Champion   Objective `json:"champion"`
	Dragon     Objective `json:"dragon"`
	Horde      Objective `json:"horde"`
	Inhibitor  Objective `json:"inhibitor"`
	RiftHerald Objective `json:"riftHerald"`
	Tower      Objective `json:"tower"`
}

type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}
