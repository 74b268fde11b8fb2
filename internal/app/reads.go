package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/season"
	"github.com/okian/fantasybakes/internal/domain/standings"
	"github.com/okian/fantasybakes/internal/domain/types"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// Season returns a snapshot of the whole season. The caller owns it.
func (s *Service) Season(ctx context.Context) (*model.Season, error) {
	return s.snapshot(ctx)
}

// Standings ranks the teams by total score over weeks up to upToWeek, or
// over every recorded week when upToWeek is nil.
func (s *Service) Standings(ctx context.Context, upToWeek *int) ([]types.Standing, error) {
	ctx, span := s.tracer.Start(ctx, "season.standings")
	defer span.End()
	if upToWeek != nil {
		span.SetAttributes(attribute.Int("up_to_week", *upToWeek))
	}

	sz, err := s.snapshot(ctx)
	if err != nil {
		s.fail(ctx, span, "standings", "load failed", err)
		return nil, err
	}
	start := time.Now()
	out := standings.Rank(sz, upToWeek)
	metrics.RecordStandings(float64(time.Since(start).Microseconds()) / 1000)
	return out, nil
}

// TeamWeekScore returns a team's points in a single week. ok is false for
// an unknown team.
func (s *Service) TeamWeekScore(ctx context.Context, teamID string, week int) (score float64, ok bool, err error) {
	sz, err := s.read(ctx, "team_week_score", attribute.String("team_id", teamID), attribute.Int("week", week))
	if err != nil {
		return 0, false, err
	}
	if _, ok := season.New(sz).FindTeam(teamID); !ok {
		return 0, false, nil
	}
	return standings.TeamWeekScore(sz, teamID, week), true, nil
}

// WeeklyBreakdown returns a team's score per recorded week.
func (s *Service) WeeklyBreakdown(ctx context.Context, teamID string, upToWeek *int) ([]types.WeekScore, error) {
	sz, err := s.read(ctx, "weekly_breakdown", attribute.String("team_id", teamID))
	if err != nil {
		return nil, err
	}
	return standings.WeeklyBreakdown(sz, teamID, upToWeek), nil
}

// BakerTotals returns each baker's accumulated points.
func (s *Service) BakerTotals(ctx context.Context, upToWeek *int) ([]types.BakerTotal, error) {
	sz, err := s.read(ctx, "baker_totals")
	if err != nil {
		return nil, err
	}
	return standings.BakerTotals(sz, upToWeek), nil
}

// Week returns week n.
func (s *Service) Week(ctx context.Context, n int) (model.Week, bool, error) {
	sz, err := s.read(ctx, "week", attribute.Int("week", n))
	if err != nil {
		return model.Week{}, false, err
	}
	w, ok := season.New(sz).Week(n)
	if !ok {
		return model.Week{}, false, nil
	}
	return *w, true, nil
}

// ActiveWeeks returns the weeks visible to the public, ordered by number.
func (s *Service) ActiveWeeks(ctx context.Context) ([]model.Week, error) {
	sz, err := s.read(ctx, "active_weeks")
	if err != nil {
		return nil, err
	}
	return season.New(sz).ActiveWeeks(), nil
}

// BakerScore returns the score record of a baker in a week.
func (s *Service) BakerScore(ctx context.Context, bakerID string, week int) (model.ScoreRecord, bool, error) {
	sz, err := s.read(ctx, "baker_score", attribute.String("baker_id", bakerID), attribute.Int("week", week))
	if err != nil {
		return model.ScoreRecord{}, false, err
	}
	rec, ok := season.New(sz).BakerScoreForWeek(bakerID, week)
	return rec, ok, nil
}

// BakersForWeek returns the bakers still competing in week n.
func (s *Service) BakersForWeek(ctx context.Context, n int) ([]model.Baker, error) {
	sz, err := s.read(ctx, "bakers_for_week", attribute.Int("week", n))
	if err != nil {
		return nil, err
	}
	return season.New(sz).BakersForWeek(n), nil
}

// TeamOf returns the team a baker belongs to.
func (s *Service) TeamOf(ctx context.Context, bakerID string) (model.Team, bool, error) {
	sz, err := s.read(ctx, "team_of", attribute.String("baker_id", bakerID))
	if err != nil {
		return model.Team{}, false, err
	}
	t, ok := season.New(sz).TeamOf(bakerID)
	if !ok {
		return model.Team{}, false, nil
	}
	return *t, true, nil
}

func (s *Service) read(ctx context.Context, op string, attrs ...attribute.KeyValue) (*model.Season, error) {
	ctx, span := s.tracer.Start(ctx, "season."+op, trace.WithAttributes(attrs...))
	defer span.End()

	sz, err := s.snapshot(ctx)
	if err != nil {
		s.fail(ctx, span, op, "load failed", err)
		return nil, err
	}
	return sz, nil
}
