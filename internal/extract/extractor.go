package extract

import (
	"slices"

	"league-tracker/internal/api"
	"league-tracker/internal/config"
	"league-tracker/internal/domain"
)

var sides = map[int]string{
	100: "Blue",
	200: "Red",
}

const (
	primarySelections   = 4 // keystone + three minors
	secondarySelections = 2
)

// Extractor flattens a raw match document into one MatchStatRow for a
// subject player. It does no I/O.
type Extractor struct {
	roleField string
}

func New(cfg *config.Config) *Extractor {
	return NewWithRoleField(cfg.RoleField)
}

// NewWithRoleField picks which participant field populates the row's role:
// teamPosition, individualPosition, lane or role.
func NewWithRoleField(field string) *Extractor {
	if field == "" {
		field = "teamPosition"
	}
	return &Extractor{roleField: field}
}

func (e *Extractor) Extract(record *api.MatchResponse, puuid domain.PlayerIdentity) (domain.MatchStatRow, error) {
	if record == nil {
		return domain.MatchStatRow{}, &domain.MatchError{Puuid: string(puuid), Err: domain.Malformed("nil record")}
	}
	matchID := record.Metadata.MatchID
	fail := func(err error) (domain.MatchStatRow, error) {
		return domain.MatchStatRow{}, &domain.MatchError{MatchID: matchID, Puuid: string(puuid), Err: err}
	}

	idx := slices.Index(record.Metadata.Participants, string(puuid))
	if idx < 0 {
		return fail(domain.ErrParticipantNotFound)
	}
	if idx >= len(record.Info.Participants) {
		return fail(domain.Malformed("participant index %d outside %d stat blocks", idx, len(record.Info.Participants)))
	}
	p := record.Info.Participants[idx]
	if p.Puuid != "" && p.Puuid != string(puuid) {
		return fail(domain.Malformed("stat block %d belongs to a different participant", idx))
	}

	side, ok := sides[p.TeamID]
	if !ok {
		return fail(domain.Malformed("unknown team id %d", p.TeamID))
	}

	runes, err := extractRunes(p.Perks)
	if err != nil {
		return fail(err)
	}

	info := record.Info
	row := domain.MatchStatRow{
		MatchID:       matchID,
		Participants:  slices.Clone(record.Metadata.Participants),
		GameCreation:  info.GameCreation,
		GameDuration:  info.GameDuration,
		GameStartTime: info.GameStartTimestamp,
		GameEnd:       info.GameEndTimestamp,
		Patch:         info.GameVersion,
		Puuid:         string(puuid),
		Win:           p.Win,
		Side:          side,
		Role:          e.role(p),
		Queue:         p.Role,

		ChampLevel:     p.ChampLevel,
		Champion:       domain.Ref{ID: p.ChampionID},
		ChampTransform: p.ChampionTransform,
		Kills:          p.Kills,
		Deaths:         p.Deaths,
		Assists:        p.Assists,
		FirstBlood:     p.FirstBloodKill,
		EarlySurrender: p.GameEndedInEarlySurrender,
		Surrender:      p.GameEndedInSurrender,
		GoldEarned:     p.GoldEarned,

		Item0: domain.Ref{ID: p.Item0},
		Item1: domain.Ref{ID: p.Item1},
		Item2: domain.Ref{ID: p.Item2},
		Item3: domain.Ref{ID: p.Item3},
		Item4: domain.Ref{ID: p.Item4},
		Item5: domain.Ref{ID: p.Item5},
		Item6: domain.Ref{ID: p.Item6},

		SummonerID:   p.SummonerID,
		SummonerName: p.RiotIDGameName,

		NeutralMinionsKilled: p.NeutralMinionsKilled,
		TotalMinionsKilled:   p.TotalMinionsKilled,
		CreepScore:           p.TotalMinionsKilled + p.NeutralMinionsKilled,

		TotalDamageDealt:    p.TotalDamageDealtToChampions,
		TotalDamageShielded: p.TotalDamageShieldedOnTeammates,
		TotalDamageTaken:    p.TotalDamageTaken,
		TotalDamageHealed:   p.TotalHealsOnTeammates,
		TotalTimeCCDealt:    p.TotalTimeCCDealt,

		WardsPlaced: p.WardsPlaced,
		WardsKilled: p.WardsKilled,
		VisionScore: p.VisionScore,

		Runes: runes,

		ObjectivesStolen:        p.ObjectivesStolen,
		ObjectivesStolenAssists: p.ObjectivesStolenAssists,

		TeamObjectives: teamObjectives(info.Teams, p.TeamID),
	}
	return row, nil
}

func (e *Extractor) role(p api.Participant) string {
	switch e.roleField {
	case "individualPosition":
		return p.IndividualPosition
	case "lane":
		return p.Lane
	case "role":
		return p.Role
	}
	return p.TeamPosition
}

func extractRunes(perks *api.Perks) (domain.Runes, error) {
	if perks == nil {
		return domain.Runes{}, domain.Malformed("participant has no perks")
	}
	if len(perks.Styles) < 2 {
		return domain.Runes{}, domain.Malformed("expected primary and secondary rune styles, got %d", len(perks.Styles))
	}
	primary, secondary := perks.Styles[0], perks.Styles[1]
	if len(primary.Selections) != primarySelections {
		return domain.Runes{}, domain.Malformed("primary rune style has %d selections, want %d", len(primary.Selections), primarySelections)
	}
	if len(secondary.Selections) != secondarySelections {
		return domain.Runes{}, domain.Malformed("secondary rune style has %d selections, want %d", len(secondary.Selections), secondarySelections)
	}

	return domain.Runes{
		Defense:         perks.StatPerks.Defense,
		Offense:         perks.StatPerks.Offense,
		Flex:            perks.StatPerks.Flex,
		PrimaryStyle:    primary.Style,
		SecondaryStyle:  secondary.Style,
		PrimaryKeystone: primary.Selections[0].Perk,
		PrimaryPerk1:    primary.Selections[1].Perk,
		PrimaryPerk2:    primary.Selections[2].Perk,
		PrimaryPerk3:    primary.Selections[3].Perk,
		SecondaryPerk1:  secondary.Selections[0].Perk,
		SecondaryPerk2:  secondary.Selections[1].Perk,
	}, nil
}

func teamObjectives(teams []api.Team, teamID int) *domain.TeamObjectives {
	for _, t := range teams {
		if t.TeamID != teamID {
			continue
		}
		o := t.Objectives
		return &domain.TeamObjectives{
			Baron:      objective(o.Baron),
			Dragon:     objective(o.Dragon),
			Horde:      objective(o.Horde),
			RiftHerald: objective(o.RiftHerald),
			Tower:      objective(o.Tower),
			Inhibitor:  objective(o.Inhibitor),
		}
	}
	return nil
}

func objective(o api.Objective) domain.Objective {
	return domain.Objective{First: o.First, Kills: o.Kills}
}
