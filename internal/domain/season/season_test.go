package season_test

import (
	"testing"

	"github.com/okian/fantasybakes/internal/domain/model"
	"github.com/okian/fantasybakes/internal/domain/scoring"
	"github.com/okian/fantasybakes/internal/domain/season"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture() *model.Season {
	return &model.Season{
		Name:        "Series 15",
		CurrentWeek: 3,
		Teams: []model.Team{
			{ID: "team1", Name: "Crumbs", Members: "Bob & Julie", Bakers: []string{"baker1", "baker2"}},
			{ID: "team2", Name: "Proofers", Bakers: []string{"baker3", "baker2"}},
		},
		Bakers: []model.Baker{
			{ID: "baker1", Name: "Alice"},
			{ID: "baker2", Name: "Bob", Eliminated: true, EliminatedWeek: model.IntPtr(2)},
			{ID: "baker3", Name: "Carol"},
		},
		Weeks: []model.Week{
			{WeekNumber: 1, Notes: "Cake week", Scores: map[string]model.ScoreRecord{"baker1": {Survived: true, Total: 1}}},
			{WeekNumber: 2, Scores: map[string]model.ScoreRecord{}},
		},
	}
}

func TestEntityStore(t *testing.T) {
	Convey("Given a season store", t, func() {
		st := season.New(fixture())

		Convey("When looking up a week", func() {
			w, ok := st.Week(1)
			_, missing := st.Week(9)

			Convey("Then known weeks are found and unknown ones are not", func() {
				So(ok, ShouldBeTrue)
				So(w.Notes, ShouldEqual, "Cake week")
				So(missing, ShouldBeFalse)
			})
		})

		Convey("When upserting scores into an existing week", func() {
			ok := st.UpsertWeek(1, map[string]model.ScoreRecord{"baker3": {Total: 2}}, nil)
			w, _ := st.Week(1)

			Convey("Then scores are replaced and notes are kept", func() {
				So(ok, ShouldBeTrue)
				So(w.Notes, ShouldEqual, "Cake week")
				So(len(w.Scores), ShouldEqual, 1)
				So(w.Scores["baker3"].Total, ShouldEqual, 2)
			})
		})

		Convey("When upserting with notes", func() {
			notes := "Bread week"
			st.UpsertWeek(1, nil, &notes)
			w, _ := st.Week(1)

			Convey("Then notes are written and scores reset to empty", func() {
				So(w.Notes, ShouldEqual, "Bread week")
				So(w.Scores, ShouldNotBeNil)
				So(len(w.Scores), ShouldEqual, 0)
			})
		})

		Convey("When upserting a new week", func() {
			ok := st.UpsertWeek(5, nil, nil)
			w, found := st.Week(5)

			Convey("Then it is created with empty notes and inactive", func() {
				So(ok, ShouldBeTrue)
				So(found, ShouldBeTrue)
				So(w.Notes, ShouldEqual, "")
				So(w.Active, ShouldBeFalse)
				So(st.TotalWeeks(), ShouldEqual, 3)
			})

			Convey("And upserting it again does not duplicate it", func() {
				st.UpsertWeek(5, nil, nil)
				So(st.TotalWeeks(), ShouldEqual, 3)
			})
		})

		Convey("When upserting a non-positive week", func() {
			So(st.UpsertWeek(0, nil, nil), ShouldBeFalse)
			So(st.UpsertWeek(-2, nil, nil), ShouldBeFalse)
			So(st.TotalWeeks(), ShouldEqual, 2)
		})

		Convey("When finding bakers and teams", func() {
			b, ok := st.FindBaker("baker3")
			So(ok, ShouldBeTrue)
			So(b.Name, ShouldEqual, "Carol")
			_, ok = st.FindBaker("nobody")
			So(ok, ShouldBeFalse)

			team, ok := st.FindTeam("team2")
			So(ok, ShouldBeTrue)
			So(team.Name, ShouldEqual, "Proofers")
			_, ok = st.FindTeam("nope")
			So(ok, ShouldBeFalse)
		})

		Convey("When reverse looking up a baker's team", func() {
			Convey("Then the first team listing the baker wins", func() {
				team, ok := st.TeamOf("baker2")
				So(ok, ShouldBeTrue)
				So(team.ID, ShouldEqual, "team1")
			})

			Convey("Then an unassigned baker has no team", func() {
				_, ok := st.TeamOf("baker9")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When fetching a baker's weekly record", func() {
			rec, ok := st.BakerScoreForWeek("baker1", 1)
			So(ok, ShouldBeTrue)
			So(rec.Survived, ShouldBeTrue)

			_, ok = st.BakerScoreForWeek("baker3", 1)
			So(ok, ShouldBeFalse)
			_, ok = st.BakerScoreForWeek("baker1", 7)
			So(ok, ShouldBeFalse)
		})

		Convey("When eliminating or restoring unknown bakers", func() {
			before := st.Season().Clone()

			Convey("Then nothing changes and nothing panics", func() {
				So(st.SetBakerEliminated("ghost", 2), ShouldBeFalse)
				So(st.RestoreBaker("ghost"), ShouldBeFalse)
				So(st.Season(), ShouldResemble, before)
			})
		})

		Convey("When recording a score with a stale total", func() {
			calc := scoring.NewCalculator()
			ok := st.RecordScore(4, "baker3", model.ScoreRecord{StarBaker: true, Total: 50}, calc)
			rec, found := st.BakerScoreForWeek("baker3", 4)

			Convey("Then the week is created and the total recomputed", func() {
				So(ok, ShouldBeTrue)
				So(found, ShouldBeTrue)
				So(rec.Total, ShouldEqual, 3)
			})

			Convey("And week zero is rejected", func() {
				So(st.RecordScore(0, "baker3", model.ScoreRecord{}, calc), ShouldBeFalse)
			})
		})

		Convey("When recomputing every total", func() {
			st.UpsertWeek(2, map[string]model.ScoreRecord{"baker3": {Handshake: true, ManualAdjustment: 1, Total: 0}}, nil)
			st.RecomputeTotals(scoring.NewCalculator())

			Convey("Then cached totals match the flags", func() {
				rec, _ := st.BakerScoreForWeek("baker3", 2)
				So(rec.Total, ShouldEqual, 4)
				rec, _ = st.BakerScoreForWeek("baker1", 1)
				So(rec.Total, ShouldEqual, 1)
			})
		})

		Convey("When listing bakers competing in a week", func() {
			Convey("Then bakers eliminated in or after that week are included", func() {
				So(len(st.BakersForWeek(2)), ShouldEqual, 3)
			})

			Convey("Then bakers eliminated earlier are excluded", func() {
				bakers := st.BakersForWeek(3)
				So(len(bakers), ShouldEqual, 2)
				So(bakers[0].ID, ShouldEqual, "baker1")
				So(bakers[1].ID, ShouldEqual, "baker3")
			})
		})

		Convey("When editing team and baker labels", func() {
			So(st.RenameTeam("team1", "Soggy Bottoms"), ShouldBeTrue)
			So(st.SetTeamMembers("team2", "Ann & Ray"), ShouldBeTrue)
			So(st.RenameBaker("baker1", "Alicia"), ShouldBeTrue)
			So(st.RenameTeam("x", "y"), ShouldBeFalse)
			So(st.SetTeamMembers("x", "y"), ShouldBeFalse)
			So(st.RenameBaker("x", "y"), ShouldBeFalse)

			team, _ := st.FindTeam("team1")
			So(team.Name, ShouldEqual, "Soggy Bottoms")
			team, _ = st.FindTeam("team2")
			So(team.Members, ShouldEqual, "Ann & Ray")
			b, _ := st.FindBaker("baker1")
			So(b.Name, ShouldEqual, "Alicia")
		})
	})

	Convey("Given a nil season", t, func() {
		st := season.New(nil)

		Convey("Then an empty season at week one is used", func() {
			So(st.CurrentWeek(), ShouldEqual, 1)
			So(st.MaxWeekNumber(), ShouldEqual, 0)
		})
	})
}

func TestStateMachine(t *testing.T) {
	Convey("Given a season at week three", t, func() {
		st := season.New(fixture())

		Convey("When advancing the week", func() {
			next := st.AdvanceWeek()

			Convey("Then the pointer moves forward regardless of known weeks", func() {
				So(next, ShouldEqual, 4)
				So(st.CurrentWeek(), ShouldEqual, 4)
				So(st.AdvanceWeek(), ShouldEqual, 5)
			})
		})

		Convey("When setting the current week within known weeks", func() {
			ok := st.SetCurrentWeek(2)

			Convey("Then it succeeds", func() {
				So(ok, ShouldBeTrue)
				So(st.CurrentWeek(), ShouldEqual, 2)
			})
		})

		Convey("When setting the current week out of range", func() {
			Convey("Then it fails and leaves the pointer unchanged", func() {
				for _, n := range []int{-1, 0, 3, 10} {
					So(st.SetCurrentWeek(n), ShouldBeFalse)
					So(st.CurrentWeek(), ShouldEqual, 3)
				}
			})
		})

		Convey("When a sparse high week is created", func() {
			st.UpsertWeek(8, nil, nil)

			Convey("Then the ceiling rises to that week", func() {
				So(st.SetCurrentWeek(8), ShouldBeTrue)
				So(st.SetCurrentWeek(9), ShouldBeFalse)
				So(st.CurrentWeek(), ShouldEqual, 8)
			})
		})

		Convey("When activating a week that does not exist", func() {
			ok := st.SetWeekActive(5, true)

			Convey("Then it fails without creating the week", func() {
				So(ok, ShouldBeFalse)
				_, found := st.Week(5)
				So(found, ShouldBeFalse)
			})

			Convey("And after the week is upserted it succeeds", func() {
				st.UpsertWeek(5, map[string]model.ScoreRecord{}, nil)
				So(st.SetWeekActive(5, true), ShouldBeTrue)
				w, _ := st.Week(5)
				So(w.Active, ShouldBeTrue)
			})
		})

		Convey("When listing active weeks", func() {
			st.UpsertWeek(4, nil, nil)
			st.SetWeekActive(4, true)
			st.SetWeekActive(1, true)
			active := st.ActiveWeeks()

			Convey("Then only active weeks appear in order", func() {
				So(len(active), ShouldEqual, 2)
				So(active[0].WeekNumber, ShouldEqual, 1)
				So(active[1].WeekNumber, ShouldEqual, 4)
			})

			Convey("And deactivating removes a week", func() {
				st.SetWeekActive(1, false)
				So(len(st.ActiveWeeks()), ShouldEqual, 1)
			})
		})

		Convey("When merging week data", func() {
			theme := "Pastry"
			active := true
			ok := st.UpdateWeekData(2, season.WeekPatch{Theme: &theme, Active: &active})
			w, _ := st.Week(2)

			Convey("Then only given fields change", func() {
				So(ok, ShouldBeTrue)
				So(w.Theme, ShouldEqual, "Pastry")
				So(w.Active, ShouldBeTrue)
				So(w.Notes, ShouldEqual, "")
			})

			Convey("And notes can be set separately", func() {
				So(st.SetWeekNotes(2, "Puff pastry chaos"), ShouldBeTrue)
				w, _ := st.Week(2)
				So(w.Notes, ShouldEqual, "Puff pastry chaos")
				So(w.Theme, ShouldEqual, "Pastry")
			})

			Convey("And missing weeks are not created", func() {
				So(st.UpdateWeekData(6, season.WeekPatch{Theme: &theme}), ShouldBeFalse)
				So(st.SetWeekNotes(6, "x"), ShouldBeFalse)
				So(st.TotalWeeks(), ShouldEqual, 2)
			})
		})

		Convey("When a baker is eliminated", func() {
			ok := st.EliminateBaker("baker1", 3)
			b, _ := st.FindBaker("baker1")

			Convey("Then both elimination fields are set", func() {
				So(ok, ShouldBeTrue)
				So(b.Eliminated, ShouldBeTrue)
				So(*b.EliminatedWeek, ShouldEqual, 3)
			})

			Convey("And restoring clears both fields", func() {
				So(st.RestoreBaker("baker1"), ShouldBeTrue)
				So(b.Eliminated, ShouldBeFalse)
				So(b.EliminatedWeek, ShouldBeNil)
			})

			Convey("And restore then eliminate again reproduces the state with the new week", func() {
				st.RestoreBaker("baker1")
				st.EliminateBaker("baker1", 5)
				So(b.Eliminated, ShouldBeTrue)
				So(*b.EliminatedWeek, ShouldEqual, 5)
			})
		})
	})
}
