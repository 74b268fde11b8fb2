package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/scoring"
	"github.com/okian/fantasybakes/internal/domain/season"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// SaveWeekScores replaces the scores of a week, creating the week when it
// does not exist. Every total is recomputed from its flags. Notes are kept
// unless notes is non-nil.
func (s *Service) SaveWeekScores(ctx context.Context, week int, scores map[string]model.ScoreRecord, notes *string) (bool, error) {
	ok, err := s.mutate(ctx, "save_week_scores", func(st *season.Store) (model.Change, bool) {
		recs := make(map[string]model.ScoreRecord, len(scores))
		for id, rec := range scores {
			recs[id] = s.calc.Recompute(rec)
		}
		if !st.UpsertWeek(week, recs, notes) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeScoresRecorded)
		c.Week = week
		return c, true
	}, attribute.Int("week", week), attribute.Int("records", len(scores)))
	if ok {
		metrics.RecordScoreRecordsWritten(len(scores))
	}
	return ok, err
}

// EditScore applies one grid edit to a baker's record in a week and returns
// the updated record. Unknown bakers and weeks below 1 are rejected.
func (s *Service) EditScore(ctx context.Context, week int, bakerID string, edit scoring.Edit) (model.ScoreRecord, bool, error) {
	var updated model.ScoreRecord
	ok, err := s.mutate(ctx, "edit_score", func(st *season.Store) (model.Change, bool) {
		if _, known := st.FindBaker(bakerID); !known || week < 1 {
			return model.Change{}, false
		}
		rec, _ := st.BakerScoreForWeek(bakerID, week)
		updated = s.calc.Apply(rec, edit)
		st.RecordScore(week, bakerID, updated, s.calc)
		c := model.NewChange(model.ChangeScoresRecorded)
		c.Week = week
		c.BakerID = bakerID
		return c, true
	}, attribute.Int("week", week), attribute.String("baker_id", bakerID), attribute.String("event", string(edit.Event)))
	if !ok {
		return model.ScoreRecord{}, false, err
	}
	metrics.RecordScoreRecordsWritten(1)
	return updated, true, nil
}

// SetWeekActive shows or hides an existing week.
func (s *Service) SetWeekActive(ctx context.Context, week int, active bool) (bool, error) {
	return s.mutate(ctx, "set_week_active", func(st *season.Store) (model.Change, bool) {
		if !st.SetWeekActive(week, active) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeWeekActivated)
		c.Week = week
		return c, true
	}, attribute.Int("week", week), attribute.Bool("active", active))
}

// UpdateWeek merges theme, notes and visibility into an existing week.
func (s *Service) UpdateWeek(ctx context.Context, week int, patch season.WeekPatch) (bool, error) {
	return s.mutate(ctx, "update_week", func(st *season.Store) (model.Change, bool) {
		if !st.UpdateWeekData(week, patch) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeWeekUpdated)
		c.Week = week
		return c, true
	}, attribute.Int("week", week))
}

// SetCurrentWeek moves the current week pointer within the known weeks.
func (s *Service) SetCurrentWeek(ctx context.Context, week int) (bool, error) {
	return s.mutate(ctx, "set_current_week", func(st *season.Store) (model.Change, bool) {
		if !st.SetCurrentWeek(week) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeCurrentWeekChanged)
		c.Week = week
		return c, true
	}, attribute.Int("week", week))
}

// AdvanceWeek moves the current week forward by one and returns the new
// value. It refuses once the configured season length is reached.
func (s *Service) AdvanceWeek(ctx context.Context) (int, bool, error) {
	var prev, week int
	ok, err := s.mutate(ctx, "advance_week", func(st *season.Store) (model.Change, bool) {
		prev = st.CurrentWeek()
		if s.maxWeeks > 0 && prev >= s.maxWeeks {
			return model.Change{}, false
		}
		week = st.AdvanceWeek()
		c := model.NewChange(model.ChangeCurrentWeekChanged)
		c.Week = week
		return c, true
	})
	if !ok {
		return prev, false, err
	}
	return week, true, nil
}

// EliminateBaker records a baker leaving in week, or in the current week
// when week is nil. The week must lie between 1 and the current week.
func (s *Service) EliminateBaker(ctx context.Context, bakerID string, week *int) (bool, error) {
	ok, err := s.mutate(ctx, "eliminate_baker", func(st *season.Store) (model.Change, bool) {
		n := st.CurrentWeek()
		if week != nil {
			n = *week
		}
		if n < 1 || n > st.CurrentWeek() || !st.EliminateBaker(bakerID, n) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeBakerEliminated)
		c.Week = n
		c.BakerID = bakerID
		if t, ok := st.TeamOf(bakerID); ok {
			c.TeamID = t.ID
		}
		return c, true
	}, attribute.String("baker_id", bakerID))
	if ok {
		metrics.RecordElimination()
	}
	return ok, err
}

// RestoreBaker reverts a baker's elimination.
func (s *Service) RestoreBaker(ctx context.Context, bakerID string) (bool, error) {
	ok, err := s.mutate(ctx, "restore_baker", func(st *season.Store) (model.Change, bool) {
		if !st.RestoreBaker(bakerID) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeBakerRestored)
		c.BakerID = bakerID
		if t, ok := st.TeamOf(bakerID); ok {
			c.TeamID = t.ID
		}
		return c, true
	}, attribute.String("baker_id", bakerID))
	if ok {
		metrics.RecordRestoration()
	}
	return ok, err
}

// RenameTeam sets a team's display name.
func (s *Service) RenameTeam(ctx context.Context, teamID, name string) (bool, error) {
	return s.mutate(ctx, "rename_team", teamChange(teamID, func(st *season.Store) bool {
		return st.RenameTeam(teamID, name)
	}), attribute.String("team_id", teamID))
}

// SetTeamMembers sets the label naming a team's players.
func (s *Service) SetTeamMembers(ctx context.Context, teamID, members string) (bool, error) {
	return s.mutate(ctx, "set_team_members", teamChange(teamID, func(st *season.Store) bool {
		return st.SetTeamMembers(teamID, members)
	}), attribute.String("team_id", teamID))
}

// RenameBaker sets a baker's display name.
func (s *Service) RenameBaker(ctx context.Context, bakerID, name string) (bool, error) {
	return s.mutate(ctx, "rename_baker", func(st *season.Store) (model.Change, bool) {
		if !st.RenameBaker(bakerID, name) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeBakerUpdated)
		c.BakerID = bakerID
		return c, true
	}, attribute.String("baker_id", bakerID))
}

func teamChange(teamID string, apply func(st *season.Store) bool) mutation {
	return func(st *season.Store) (model.Change, bool) {
		if !apply(st) {
			return model.Change{}, false
		}
		c := model.NewChange(model.ChangeTeamUpdated)
		c.TeamID = teamID
		return c, true
	}
}
