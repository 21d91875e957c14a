package ranking_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/podium/internal/domain/glicko"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSource serves fixed states.
type fakeSource map[string]model.RatingState

func (f fakeSource) Get(id string) (model.RatingState, error) {
	s, ok := f[id]
	if !ok {
		return model.RatingState{}, fmt.Errorf("%w: %s", glicko.ErrUnknownCompetitor, id)
	}
	return s, nil
}

func (f fakeSource) MatchCount(id string) (int, error) {
	if _, ok := f[id]; !ok {
		return 0, glicko.ErrUnknownCompetitor
	}
	return len(id), nil
}

func TestAssemble(t *testing.T) {
	Convey("Given competitors with different certainty", t, func() {
		src := fakeSource{
			"sure":   {Rating: 1600, Deviation: 50, Volatility: 0.06},
			"lucky":  {Rating: 1700, Deviation: 200, Volatility: 0.06},
			"steady": {Rating: 1550, Deviation: 60, Volatility: 0.06},
		}
		competitors := []model.Competitor{
			{Identity: "lucky", DisplayName: "Lucky", Affiliation: "A"},
			{Identity: "steady", DisplayName: "Steady", Affiliation: "B"},
			{Identity: "sure", DisplayName: "Sure", Affiliation: "C"},
		}

		rows, err := ranking.Assemble(competitors, src)

		Convey("Then rows are ordered by adjusted rating with dense ranks", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Identity, ShouldEqual, "sure")
			So(rows[1].Identity, ShouldEqual, "steady")
			So(rows[2].Identity, ShouldEqual, "lucky")
			for i, r := range rows {
				So(r.Rank, ShouldEqual, i+1)
			}
		})

		Convey("And raw rating and deviation are kept", func() {
			So(rows[2].Rating, ShouldEqual, 1700)
			So(rows[2].Deviation, ShouldEqual, 200)
			So(rows[2].AdjustedRating, ShouldEqual, 1300)
			So(rows[2].DisplayName, ShouldEqual, "Lucky")
			So(rows[2].Affiliation, ShouldEqual, "A")
			So(rows[2].MatchCount, ShouldEqual, len("lucky"))
		})
	})

	Convey("Given competitors with equal adjusted ratings", t, func() {
		src := fakeSource{
			"b": {Rating: 1500, Deviation: 100},
			"a": {Rating: 1400, Deviation: 50},
			"c": {Rating: 1300, Deviation: 0},
		}
		forward := []model.Competitor{{Identity: "a"}, {Identity: "b"}, {Identity: "c"}}
		reversed := []model.Competitor{{Identity: "c"}, {Identity: "b"}, {Identity: "a"}}

		r1, err1 := ranking.Assemble(forward, src)
		r2, err2 := ranking.Assemble(reversed, src)

		Convey("Then ties are broken by identity regardless of input order", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(r1, ShouldResemble, r2)
			So(r1[0].Identity, ShouldEqual, "a")
			So(r1[1].Identity, ShouldEqual, "b")
			So(r1[2].Identity, ShouldEqual, "c")
		})
	})

	Convey("Given a competitor listed twice", t, func() {
		src := fakeSource{"a": {Rating: 1500, Deviation: 10}}
		rows, err := ranking.Assemble([]model.Competitor{
			{Identity: "a", DisplayName: "First"},
			{Identity: "a", DisplayName: "Second"},
		}, src)

		Convey("Then it appears once with its first metadata", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].DisplayName, ShouldEqual, "First")
		})
	})

	Convey("Given a competitor the engine does not know", t, func() {
		_, err := ranking.Assemble([]model.Competitor{{Identity: "ghost", DisplayName: "Ghost"}}, fakeSource{})

		Convey("Then the lookup error propagates", func() {
			So(errors.Is(err, glicko.ErrUnknownCompetitor), ShouldBeTrue)
		})
	})

	Convey("Given a real engine after one period", t, func() {
		e := glicko.New()
		So(e.Add("winner"), ShouldBeNil)
		So(e.Add("loser"), ShouldBeNil)
		So(e.Add("idle"), ShouldBeNil)
		_, err := e.ApplyPeriod([]model.Match{{Winner: "winner", Loser: "loser"}}, 0, 1)
		So(err, ShouldBeNil)

		rows, err := ranking.Assemble([]model.Competitor{
			{Identity: "idle"}, {Identity: "loser"}, {Identity: "winner"},
		}, e)

		Convey("Then the winner leads and the idle competitor trails it on uncertainty", func() {
			So(err, ShouldBeNil)
			So(rows[0].Identity, ShouldEqual, "winner")
			So(rows[0].MatchCount, ShouldEqual, 1)
			So(rows[1].Identity, ShouldEqual, "idle")
			So(rows[1].MatchCount, ShouldEqual, 0)
			So(rows[1].Deviation, ShouldAlmostEqual, 350, 1e-9)
			So(rows[2].Identity, ShouldEqual, "loser")
		})
	})
}
