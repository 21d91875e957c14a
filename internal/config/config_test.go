package config_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validConfig() *config.Config {
	cfg := config.New()
	cfg.Tournaments = []string{"greenhill", "glenbrooks", "toc"}
	cfg.Majors = []string{"toc"}
	return cfg
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the Glicko-2 paper defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Format, convey.ShouldEqual, "single")
			convey.So(cfg.DataDir, convey.ShouldEqual, "tournaments")
			convey.So(cfg.MajorWeight, convey.ShouldEqual, 2)
			convey.So(cfg.NameSeparator, convey.ShouldEqual, "&")
			convey.So(cfg.Tau, convey.ShouldEqual, 0.5)
			convey.So(cfg.InitialRating, convey.ShouldEqual, 1500.0)
			convey.So(cfg.InitialDeviation, convey.ShouldEqual, 350.0)
			convey.So(cfg.InitialVolatility, convey.ShouldEqual, 0.06)
			convey.So(cfg.MaxDeviation, convey.ShouldEqual, 350.0)
			convey.So(cfg.MaxIterations, convey.ShouldEqual, 100)
			convey.So(cfg.LoadConcurrency, convey.ShouldEqual, runtime.NumCPU())
		})

		convey.Convey("Then it should not validate without tournaments", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Helpers(t *testing.T) {
	convey.Convey("Given a season config", t, func() {
		cfg := validConfig()

		convey.Convey("Then majors should get the major weight", func() {
			convey.So(cfg.IsMajor("toc"), convey.ShouldBeTrue)
			convey.So(cfg.WeightFor("toc"), convey.ShouldEqual, 2)
			convey.So(cfg.IsMajor("greenhill"), convey.ShouldBeFalse)
			convey.So(cfg.WeightFor("greenhill"), convey.ShouldEqual, 1)
		})

		convey.Convey("Then the tournament root should include the format directory", func() {
			convey.So(cfg.TournamentRoot(), convey.ShouldEqual, "tournaments")
			cfg.FormatDir = "cpd"
			convey.So(cfg.TournamentRoot(), convey.ShouldEqual, filepath.Join("tournaments", "cpd"))
		})

		convey.Convey("Then the format should parse", func() {
			cfg.Format = "Paired"
			f, err := cfg.ParsedFormat()
			convey.So(err, convey.ShouldBeNil)
			convey.So(f, convey.ShouldEqual, model.FormatPaired)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		convey.Convey("When the config is complete", func() {
			convey.So(validConfig().Validate(), convey.ShouldBeNil)
		})

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown format", func(c *config.Config) { c.Format = "trio" }},
			{"empty data dir", func(c *config.Config) { c.DataDir = " " }},
			{"duplicate tournament", func(c *config.Config) { c.Tournaments = append(c.Tournaments, "toc") }},
			{"blank tournament", func(c *config.Config) { c.Tournaments = append(c.Tournaments, "") }},
			{"unknown major", func(c *config.Config) { c.Majors = []string{"nationals"} }},
			{"zero major weight", func(c *config.Config) { c.MajorWeight = 0 }},
			{"empty separator", func(c *config.Config) { c.NameSeparator = "" }},
			{"non-positive tau", func(c *config.Config) { c.Tau = 0 }},
			{"max deviation below initial", func(c *config.Config) { c.MaxDeviation = 200 }},
			{"relaxed tighter than strict", func(c *config.Config) { c.RelaxedTolerance = 1e-9 }},
			{"zero iterations", func(c *config.Config) { c.MaxIterations = 0 }},
			{"zero concurrency", func(c *config.Config) { c.LoadConcurrency = 0 }},
		}
		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := validConfig()
				tc.mutate(cfg)

				convey.Convey("Then it should be rejected", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
