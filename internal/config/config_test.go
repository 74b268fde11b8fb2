package config_test

import (
	"errors"
	"testing"

	"github.com/okian/fantasybakes/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.DriverFile)
			convey.So(cfg.DataPath, convey.ShouldEqual, "season.json")
			convey.So(cfg.SeasonKey, convey.ShouldEqual, "current")
			convey.So(cfg.MaxWeeks, convey.ShouldEqual, 10)
			convey.So(cfg.AdminAttemptsPerMinute, convey.ShouldEqual, 10)
			convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.ScoringRules, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the storage driver is unknown", func() {
			cfg.StorageDriver = "s3"
			err := cfg.Validate()

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When redis is selected without an address", func() {
			cfg.StorageDriver = config.DriverRedis
			err := cfg.Validate()

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When postgres is selected with a DSN", func() {
			cfg.StorageDriver = config.DriverPostgres
			cfg.PostgresDSN = "postgres://bakes@localhost/bakes"

			convey.Convey("Then it is valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When max weeks is negative", func() {
			cfg.MaxWeeks = -1

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the memory driver is selected without a data path", func() {
			cfg.StorageDriver = config.DriverMemory
			cfg.DataPath = ""

			convey.Convey("Then it is valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
