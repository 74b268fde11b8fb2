package season

// WeekPatch carries optional week fields to merge into an existing week.
type WeekPatch struct {
	Theme  *string
	Notes  *string
	Active *bool
}

// AdvanceWeek moves the current week forward by one. Bounding the season
// length is left to the caller.
func (st *Store) AdvanceWeek() int {
	st.season.CurrentWeek++
	return st.season.CurrentWeek
}

// SetCurrentWeek moves the pointer to n when 1 <= n <= the highest known
// week number. Otherwise the season is left unchanged and false is returned.
func (st *Store) SetCurrentWeek(n int) bool {
	if n < 1 || n > st.MaxWeekNumber() {
		return false
	}
	st.season.CurrentWeek = n
	return true
}

// SetWeekActive flags an existing week as visible or hidden. Weeks are never
// created here.
func (st *Store) SetWeekActive(n int, active bool) bool {
	w, ok := st.Week(n)
	if !ok {
		return false
	}
	w.Active = active
	return true
}

// SetWeekNotes replaces the notes of an existing week.
func (st *Store) SetWeekNotes(n int, notes string) bool {
	return st.UpdateWeekData(n, WeekPatch{Notes: &notes})
}

// UpdateWeekData merges the non-nil fields of p into week n.
func (st *Store) UpdateWeekData(n int, p WeekPatch) bool {
	w, ok := st.Week(n)
	if !ok {
		return false
	}
	if p.Theme != nil {
		w.Theme = *p.Theme
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Active != nil {
		w.Active = *p.Active
	}
	return true
}

// EliminateBaker records that a baker left the contest in week n.
func (st *Store) EliminateBaker(id string, n int) bool {
	return st.SetBakerEliminated(id, n)
}
