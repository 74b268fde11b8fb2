package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fantasybakes/internal/adapters/repository"
	app "github.com/okian/fantasybakes/internal/app"
	"github.com/okian/fantasybakes/internal/config"
	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

const seasonDoc = `{"season": {"name": "Series 15", "currentWeek": 1,
  "teams": [{"id": "t1", "name": "Crumb Together", "bakers": ["b1"]}],
  "bakers": [{"id": "b1", "name": "Nicky", "eliminated": false, "eliminatedWeek": null}],
  "weeks": [{"weekNumber": 1, "notes": "", "scores": {"b1": {"survived": true, "starBaker": true}}}]}}`

func TestBuildRepository(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		_ = logger.Init()
		ctx := context.Background()
		cfg := config.New()
		dir := t.TempDir()

		convey.Convey("When the memory driver is used with a fallback file", func() {
			fallback := filepath.Join(dir, "seed.json")
			convey.So(os.WriteFile(fallback, []byte(seasonDoc), 0o600), convey.ShouldBeNil)
			cfg.StorageDriver = config.DriverMemory
			cfg.DataPath = ""
			cfg.FallbackPath = fallback

			repo, closeRepo, err := buildRepository(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer closeRepo()

			convey.Convey("Then loads are served from the fallback until the first save", func() {
				s, err := repo.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Name, convey.ShouldEqual, "Series 15")

				s.CurrentWeek = 2
				convey.So(repo.Save(ctx, s), convey.ShouldBeNil)
				s, err = repo.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.CurrentWeek, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the memory driver is seeded from the data file", func() {
			cfg.StorageDriver = config.DriverMemory
			cfg.DataPath = filepath.Join(dir, "season.json")
			convey.So(os.WriteFile(cfg.DataPath, []byte(seasonDoc), 0o600), convey.ShouldBeNil)

			repo, closeRepo, err := buildRepository(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer closeRepo()

			convey.Convey("Then the seeded season loads without touching the file again", func() {
				convey.So(os.Remove(cfg.DataPath), convey.ShouldBeNil)
				s, err := repo.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Name, convey.ShouldEqual, "Series 15")
			})
		})

		convey.Convey("When the memory driver has nothing to seed from", func() {
			cfg.StorageDriver = config.DriverMemory
			cfg.DataPath = filepath.Join(dir, "missing.json")

			repo, closeRepo, err := buildRepository(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer closeRepo()

			convey.Convey("Then it starts an empty season that accepts mutations", func() {
				svc := app.New(app.WithRepository(repo))
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()

				ok, err := svc.SetCurrentWeek(ctx, 1)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeFalse)
				week, ok, err := svc.AdvanceWeek(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(week, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the file driver points at a missing file", func() {
			cfg.DataPath = filepath.Join(dir, "season.json")

			repo, closeRepo, err := buildRepository(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer closeRepo()

			convey.Convey("Then loads report unavailable storage", func() {
				_, err := repo.Load(ctx)
				convey.So(errors.Is(err, repository.ErrStorageUnavailable), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.StorageDriver = "floppy"

			_, _, err := buildRepository(ctx, cfg, logger.Get())

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLogLeaderboard(t *testing.T) {
	convey.Convey("Given a running service and a captured log", t, func() {
		var buf bytes.Buffer
		convey.So(logger.InitWithWriter(&buf), convey.ShouldBeNil)
		defer func() { _ = logger.Init() }()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "season.json")
		convey.So(os.WriteFile(path, []byte(seasonDoc), 0o600), convey.ShouldBeNil)
		svc := app.New(app.WithRepository(repository.NewFileStore(path)))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When the leaderboard is logged", func() {
			logLeaderboard(ctx, svc, logger.Get())

			convey.Convey("Then each team is written with its total", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "team=\"Crumb Together\"")
				convey.So(buf.String(), convey.ShouldContainSubstring, "total=4")
			})
		})
	})
}

func TestMetricsServer(t *testing.T) {
	convey.Convey("Given the metrics server handler", t, func() {
		srv := newMetricsServer(":0")
		metrics.RecordStandings(1)
		metrics.UpdateSeasonState(1, 1, 1)

		convey.Convey("When /metrics is scraped", func() {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

			convey.Convey("Then the season metrics are exposed", func() {
				convey.So(rec.Code, convey.ShouldEqual, 200)
				convey.So(rec.Body.String(), convey.ShouldContainSubstring, "fantasybakes_season_standings_computed_total")
			})
		})
	})
}
