package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Normalize repairs the structural invariants that loosely typed input can
// break. It merges duplicate week numbers, clears stale elimination weeks,
// clamps the current week and allocates missing score maps.
func (s *Season) Normalize() {
	if s.CurrentWeek < 1 {
		s.CurrentWeek = 1
	}
	for i := range s.Bakers {
		if !s.Bakers[i].Eliminated {
			s.Bakers[i].EliminatedWeek = nil
		}
	}
	for i := range s.Teams {
		if s.Teams[i].Bakers == nil {
			s.Teams[i].Bakers = []string{}
		}
	}

	merged := make([]Week, 0, len(s.Weeks))
	index := make(map[int]int, len(s.Weeks))
	for _, w := range s.Weeks {
		if w.Scores == nil {
			w.Scores = map[string]ScoreRecord{}
		}
		pos, dup := index[w.WeekNumber]
		if !dup {
			index[w.WeekNumber] = len(merged)
			merged = append(merged, w)
			continue
		}
		prev := &merged[pos]
		for id, r := range w.Scores {
			prev.Scores[id] = r
		}
		if w.Notes != "" {
			prev.Notes = w.Notes
		}
		if w.Theme != "" {
			prev.Theme = w.Theme
		}
		prev.Active = prev.Active || w.Active
	}
	s.Weeks = merged
}

// Validate checks field constraints and cross-entity uniqueness.
func (s *Season) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeason, err)
	}

	var problems []string
	seenWeeks := make(map[int]bool, len(s.Weeks))
	for _, w := range s.Weeks {
		if seenWeeks[w.WeekNumber] {
			problems = append(problems, fmt.Sprintf("duplicate week %d", w.WeekNumber))
		}
		seenWeeks[w.WeekNumber] = true
	}
	seenBakers := make(map[string]bool, len(s.Bakers))
	for _, b := range s.Bakers {
		if seenBakers[b.ID] {
			problems = append(problems, "duplicate baker "+b.ID)
		}
		seenBakers[b.ID] = true
		if !b.Eliminated && b.EliminatedWeek != nil {
			problems = append(problems, "baker "+b.ID+" has an elimination week but is not eliminated")
		}
	}
	seenTeams := make(map[string]bool, len(s.Teams))
	for _, t := range s.Teams {
		if seenTeams[t.ID] {
			problems = append(problems, "duplicate team "+t.ID)
		}
		seenTeams[t.ID] = true
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSeason, strings.Join(problems, "; "))
	}
	return nil
}
