// Package standings rolls baker scores up into ranked team standings.
//
// Every function here is pure: it reads the season it is given and never
// mutates it, so callers may run them concurrently over a shared snapshot.
package standings

import (
	"sort"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/types"
)

// Rank returns team standings ordered by total score, highest first.
//
// With upToWeek set, only weeks numbered <= *upToWeek count toward the
// total and the current-week figure is taken from week *upToWeek; otherwise
// every recorded week counts and the season's current week is used. A limit
// below 1 means no limit. Teams with equal totals keep their season order and
// rank is the 1-based position in that order. Every team is returned,
// including teams without bakers.
func Rank(s *model.Season, upToWeek *int) []types.Standing {
	upToWeek = weekLimit(upToWeek)
	weeks := includedWeeks(s, upToWeek)
	current := s.CurrentWeek
	if upToWeek != nil {
		current = *upToWeek
	}
	currentWeek := findWeek(s, current)
	bakers := bakerIndex(s)

	out := make([]types.Standing, 0, len(s.Teams))
	for _, team := range s.Teams {
		row := types.Standing{
			TeamID:  team.ID,
			Name:    team.Name,
			Members: team.Members,
			Bakers:  make([]model.Baker, 0, len(team.Bakers)),
		}
		for _, id := range team.Bakers {
			if b, ok := bakers[id]; ok {
				row.Bakers = append(row.Bakers, b)
			}
		}
		for _, w := range weeks {
			row.TotalScore += sumTeam(team, w)
		}
		if currentWeek != nil {
			row.CurrentWeekScore = sumTeam(team, *currentWeek)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TeamWeekScore returns a team's score in week n, or 0 when either is unknown.
func TeamWeekScore(s *model.Season, teamID string, n int) float64 {
	w := findWeek(s, n)
	if w == nil {
		return 0
	}
	for _, team := range s.Teams {
		if team.ID == teamID {
			return sumTeam(team, *w)
		}
	}
	return 0
}

// WeeklyBreakdown returns a team's per-week scores in week order.
func WeeklyBreakdown(s *model.Season, teamID string, upToWeek *int) []types.WeekScore {
	var team *model.Team
	for i := range s.Teams {
		if s.Teams[i].ID == teamID {
			team = &s.Teams[i]
			break
		}
	}
	if team == nil {
		return nil
	}
	weeks := includedWeeks(s, upToWeek)
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].WeekNumber < weeks[j].WeekNumber })

	out := make([]types.WeekScore, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, types.WeekScore{WeekNumber: w.WeekNumber, Score: sumTeam(*team, w)})
	}
	return out
}

// BakerTotals returns every baker's cumulative score, highest first, ties
// in season order.
func BakerTotals(s *model.Season, upToWeek *int) []types.BakerTotal {
	weeks := includedWeeks(s, upToWeek)
	out := make([]types.BakerTotal, 0, len(s.Bakers))
	for _, b := range s.Bakers {
		bt := types.BakerTotal{BakerID: b.ID, Name: b.Name}
		for _, w := range weeks {
			if rec, ok := w.Scores[b.ID]; ok {
				bt.Total += rec.Total
			}
		}
		out = append(out, bt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// weekLimit drops limits below week 1.
func weekLimit(upToWeek *int) *int {
	if upToWeek == nil || *upToWeek < 1 {
		return nil
	}
	return upToWeek
}

func includedWeeks(s *model.Season, upToWeek *int) []model.Week {
	upToWeek = weekLimit(upToWeek)
	out := make([]model.Week, 0, len(s.Weeks))
	for _, w := range s.Weeks {
		if upToWeek == nil || w.WeekNumber <= *upToWeek {
			out = append(out, w)
		}
	}
	return out
}

func findWeek(s *model.Season, n int) *model.Week {
	for i := range s.Weeks {
		if s.Weeks[i].WeekNumber == n {
			return &s.Weeks[i]
		}
	}
	return nil
}

func bakerIndex(s *model.Season) map[string]model.Baker {
	idx := make(map[string]model.Baker, len(s.Bakers))
	for _, b := range s.Bakers {
		if _, dup := idx[b.ID]; !dup {
			idx[b.ID] = b
		}
	}
	return idx
}

// sumTeam adds the totals of a team's bakers in w. Bakers without a record
// in w contribute nothing.
func sumTeam(team model.Team, w model.Week) float64 {
	var total float64
	for _, id := range team.Bakers {
		if rec, ok := w.Scores[id]; ok {
			total += rec.Total
		}
	}
	return total
}
