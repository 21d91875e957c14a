package fixtures_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/identity"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/fixtures"
	"github.com/okian/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Keep test output quiet.
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func smallConfig(dir string) *fixtures.Config {
	return &fixtures.Config{
		Dir:         dir,
		Tournaments: 3,
		Majors:      1,
		Pool:        20,
		Entrants:    9,
		Rounds:      2,
		Format:      model.FormatPaired,
		Seed:        7,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a small paired season config", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When generating the season", func() {
			season, stats, err := fixtures.Run(ctx, smallConfig(dir))

			Convey("Then every tournament should be written with its rounds", func() {
				So(err, ShouldBeNil)
				So(season.Tournaments, ShouldResemble, []string{"t01", "t02", "t03"})
				So(season.Majors, ShouldResemble, []string{"t03"})
				So(season.Competitors, ShouldHaveLength, 20)
				So(stats.Entries, ShouldEqual, 27)
				So(stats.Rounds, ShouldEqual, 6)
				So(stats.Matches, ShouldEqual, 24)
				So(stats.Byes, ShouldEqual, 6)
				_, statErr := os.Stat(filepath.Join(dir, fixtures.ConfigFile))
				So(statErr, ShouldBeNil)
				So(season.ConfigPath, ShouldEqual, filepath.Join(dir, fixtures.ConfigFile))
			})

			Convey("Then the tables should load and resolve", func() {
				store := repository.NewCSVStore(dir)
				tour, loadErr := store.LoadTournament(ctx, "t01")
				So(loadErr, ShouldBeNil)
				So(tour.Entries, ShouldHaveLength, 9)
				So(tour.Rounds, ShouldHaveLength, 2)
				So(tour.Rounds[0].Name, ShouldEqual, "round01")
				So(tour.Rounds[0].Rows, ShouldHaveLength, 5)
				So(tour.Rounds[0].Rows[4].Second, ShouldEqual, "BYE")

				idx, idxErr := identity.NewResolver(identity.WithFormat(model.FormatPaired)).Index(tour.Entries)
				So(idxErr, ShouldBeNil)
				So(idx.Codes, ShouldHaveLength, 9)
			})
		})

		Convey("When generating twice with the same seed", func() {
			other := t.TempDir()
			_, _, err1 := fixtures.Run(ctx, smallConfig(dir))
			_, _, err2 := fixtures.Run(ctx, smallConfig(other))

			Convey("Then the tables should be identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				a, _ := os.ReadFile(filepath.Join(dir, "t02", "round02.csv"))
				b, _ := os.ReadFile(filepath.Join(other, "t02", "round02.csv"))
				So(string(a), ShouldEqual, string(b))
				So(len(a), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the config is invalid", func() {
			cfg := smallConfig(dir)
			cfg.Majors = 5
			_, _, err := fixtures.Run(ctx, cfg)

			Convey("Then ErrInvalidConfig should be returned", func() {
				So(errors.Is(err, fixtures.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
