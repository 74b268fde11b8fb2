// Package model contains the season data shapes shared by every layer.
package model

import "sort"

// Season owns every team, baker and scored week of one competition.
type Season struct {
	Name        string  `json:"name" yaml:"name"`
	CurrentWeek int     `json:"currentWeek" yaml:"currentWeek" validate:"gte=1"`
	Teams       []Team  `json:"teams" yaml:"teams" validate:"dive"`
	Bakers      []Baker `json:"bakers" yaml:"bakers" validate:"dive"`
	Weeks       []Week  `json:"weeks" yaml:"weeks" validate:"dive"`
}

// Team is a fantasy entry made of baker references. Bakers holds ids only;
// the Baker values live on the Season.
type Team struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	Name    string   `json:"name" yaml:"name"`
	Members string   `json:"members,omitempty" yaml:"members,omitempty"`
	Bakers  []string `json:"bakers" yaml:"bakers"`
}

// Baker is a single contestant.
type Baker struct {
	ID             string `json:"id" yaml:"id" validate:"required"`
	Name           string `json:"name" yaml:"name"`
	Eliminated     bool   `json:"eliminated" yaml:"eliminated"`
	EliminatedWeek *int   `json:"eliminatedWeek" yaml:"eliminatedWeek"`
}

// Week is one scored episode. Weeks are created lazily on the first score write.
type Week struct {
	WeekNumber int                    `json:"weekNumber" yaml:"weekNumber" validate:"gt=0"`
	Theme      string                 `json:"theme,omitempty" yaml:"theme,omitempty"`
	Notes      string                 `json:"notes" yaml:"notes"`
	Active     bool                   `json:"active,omitempty" yaml:"active,omitempty"`
	Scores     map[string]ScoreRecord `json:"scores" yaml:"scores"`
}

// ScoreRecord holds the events of one baker in one week. Total is derived
// from the flags and the adjustment and is rewritten whenever they change.
type ScoreRecord struct {
	Survived         bool    `json:"survived" yaml:"survived"`
	TechnicalWin     bool    `json:"technicalWin" yaml:"technicalWin"`
	StarBaker        bool    `json:"starBaker" yaml:"starBaker"`
	Handshake        bool    `json:"handshake" yaml:"handshake"`
	SoggyBottom      bool    `json:"soggyBottom" yaml:"soggyBottom"`
	ManualAdjustment float64 `json:"manualAdjustment" yaml:"manualAdjustment"`
	Total            float64 `json:"total" yaml:"total"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// MaxWeekNumber returns the highest known week number, or 0 when no week exists.
func (s *Season) MaxWeekNumber() int {
	maxWeek := 0
	for i := range s.Weeks {
		if s.Weeks[i].WeekNumber > maxWeek {
			maxWeek = s.Weeks[i].WeekNumber
		}
	}
	return maxWeek
}

// SortedWeeks returns the weeks ordered by number without touching s.
func (s *Season) SortedWeeks() []Week {
	out := make([]Week, len(s.Weeks))
	copy(out, s.Weeks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out
}

// Clone returns a deep copy so snapshots can be read while the original mutates.
func (s *Season) Clone() *Season {
	if s == nil {
		return nil
	}
	c := &Season{
		Name:        s.Name,
		CurrentWeek: s.CurrentWeek,
		Teams:       make([]Team, len(s.Teams)),
		Bakers:      make([]Baker, len(s.Bakers)),
		Weeks:       make([]Week, len(s.Weeks)),
	}
	for i, t := range s.Teams {
		t.Bakers = append([]string(nil), t.Bakers...)
		c.Teams[i] = t
	}
	for i, b := range s.Bakers {
		if b.EliminatedWeek != nil {
			b.EliminatedWeek = IntPtr(*b.EliminatedWeek)
		}
		c.Bakers[i] = b
	}
	for i, w := range s.Weeks {
		scores := make(map[string]ScoreRecord, len(w.Scores))
		for id, r := range w.Scores {
			scores[id] = r
		}
		w.Scores = scores
		c.Weeks[i] = w
	}
	return c
}
