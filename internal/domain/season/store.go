// Package season holds the entity store and the season state machine that
// operate on a single *model.Season handle.
//
// Lookups and transitions report ordinary failures (unknown id, week out of
// range) with a boolean result rather than an error. A Store is not safe for
// concurrent mutation; callers serialize writes.
package season

import (
	"sort"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/scoring"
)

// Store exposes lookups and mutations over a season.
type Store struct {
	season *model.Season
}

// New wraps s. A nil season is replaced by an empty one starting at week 1.
func New(s *model.Season) *Store {
	if s == nil {
		s = &model.Season{CurrentWeek: 1}
	}
	return &Store{season: s}
}

// Season returns the underlying season.
func (st *Store) Season() *model.Season { return st.season }

// CurrentWeek returns the season's current week pointer.
func (st *Store) CurrentWeek() int { return st.season.CurrentWeek }

// Week returns the week numbered n.
func (st *Store) Week(n int) (*model.Week, bool) {
	for i := range st.season.Weeks {
		if st.season.Weeks[i].WeekNumber == n {
			return &st.season.Weeks[i], true
		}
	}
	return nil, false
}

// UpsertWeek replaces the scores of week n, creating the week when it does
// not exist yet. Notes are only written when notes is non-nil, so a score
// update never clears them. Returns false for n < 1.
func (st *Store) UpsertWeek(n int, scores map[string]model.ScoreRecord, notes *string) bool {
	if n < 1 {
		return false
	}
	if scores == nil {
		scores = map[string]model.ScoreRecord{}
	}
	if w, ok := st.Week(n); ok {
		w.Scores = scores
		if notes != nil {
			w.Notes = *notes
		}
		return true
	}
	w := model.Week{WeekNumber: n, Scores: scores}
	if notes != nil {
		w.Notes = *notes
	}
	st.season.Weeks = append(st.season.Weeks, w)
	return true
}

// RecordScore stores rec for bakerID in week n with its total recomputed by
// calc. The week is created when missing. Returns false for n < 1.
func (st *Store) RecordScore(n int, bakerID string, rec model.ScoreRecord, calc *scoring.Calculator) bool {
	if n < 1 {
		return false
	}
	w, ok := st.Week(n)
	if !ok {
		st.UpsertWeek(n, nil, nil)
		w, _ = st.Week(n)
	}
	if w.Scores == nil {
		w.Scores = map[string]model.ScoreRecord{}
	}
	w.Scores[bakerID] = calc.Recompute(rec)
	return true
}

// RecomputeTotals rewrites every cached total from its flags.
func (st *Store) RecomputeTotals(calc *scoring.Calculator) {
	for i := range st.season.Weeks {
		w := &st.season.Weeks[i]
		for id, rec := range w.Scores {
			w.Scores[id] = calc.Recompute(rec)
		}
	}
}

// BakerScoreForWeek returns the raw score record of a baker in a week.
func (st *Store) BakerScoreForWeek(bakerID string, n int) (model.ScoreRecord, bool) {
	w, ok := st.Week(n)
	if !ok {
		return model.ScoreRecord{}, false
	}
	rec, ok := w.Scores[bakerID]
	return rec, ok
}

// FindBaker returns the baker with id.
func (st *Store) FindBaker(id string) (*model.Baker, bool) {
	for i := range st.season.Bakers {
		if st.season.Bakers[i].ID == id {
			return &st.season.Bakers[i], true
		}
	}
	return nil, false
}

// FindTeam returns the team with id.
func (st *Store) FindTeam(id string) (*model.Team, bool) {
	for i := range st.season.Teams {
		if st.season.Teams[i].ID == id {
			return &st.season.Teams[i], true
		}
	}
	return nil, false
}

// TeamOf returns the first team whose baker list contains bakerID.
func (st *Store) TeamOf(bakerID string) (*model.Team, bool) {
	for i := range st.season.Teams {
		for _, id := range st.season.Teams[i].Bakers {
			if id == bakerID {
				return &st.season.Teams[i], true
			}
		}
	}
	return nil, false
}

// SetBakerEliminated marks a baker eliminated in week n. Unknown ids are ignored.
func (st *Store) SetBakerEliminated(id string, n int) bool {
	b, ok := st.FindBaker(id)
	if !ok {
		return false
	}
	b.Eliminated = true
	b.EliminatedWeek = model.IntPtr(n)
	return true
}

// RestoreBaker clears a baker's elimination. Unknown ids are ignored.
func (st *Store) RestoreBaker(id string) bool {
	b, ok := st.FindBaker(id)
	if !ok {
		return false
	}
	b.Eliminated = false
	b.EliminatedWeek = nil
	return true
}

// BakersForWeek returns the bakers still competing in week n: those not
// eliminated, and those eliminated in week n or later.
func (st *Store) BakersForWeek(n int) []model.Baker {
	out := make([]model.Baker, 0, len(st.season.Bakers))
	for _, b := range st.season.Bakers {
		if !b.Eliminated || (b.EliminatedWeek != nil && *b.EliminatedWeek >= n) {
			out = append(out, b)
		}
	}
	return out
}

// RenameTeam sets a team's display name.
func (st *Store) RenameTeam(id, name string) bool {
	t, ok := st.FindTeam(id)
	if !ok {
		return false
	}
	t.Name = name
	return true
}

// SetTeamMembers sets the label naming a team's players.
func (st *Store) SetTeamMembers(id, members string) bool {
	t, ok := st.FindTeam(id)
	if !ok {
		return false
	}
	t.Members = members
	return true
}

// RenameBaker sets a baker's display name.
func (st *Store) RenameBaker(id, name string) bool {
	b, ok := st.FindBaker(id)
	if !ok {
		return false
	}
	b.Name = name
	return true
}

// ActiveWeeks returns copies of the weeks flagged active, ordered by number.
func (st *Store) ActiveWeeks() []model.Week {
	var out []model.Week
	for _, w := range st.season.Weeks {
		if w.Active {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out
}

// MaxWeekNumber returns the highest known week number, 0 when none exist.
func (st *Store) MaxWeekNumber() int { return st.season.MaxWeekNumber() }

// TotalWeeks returns how many weeks have been recorded.
func (st *Store) TotalWeeks() int { return len(st.season.Weeks) }
