package model_test

import (
	"testing"

	"github.com/okian/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseFormat(t *testing.T) {
	Convey("Given format names from configuration", t, func() {
		Convey("When parsing known names", func() {
			single, err1 := model.ParseFormat("single")
			paired, err2 := model.ParseFormat(" PAIRED ")

			Convey("Then they map to the enum", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(single, ShouldEqual, model.FormatSingle)
				So(paired, ShouldEqual, model.FormatPaired)
				So(single.String(), ShouldEqual, "single")
				So(paired.String(), ShouldEqual, "paired")
			})
		})

		Convey("When parsing an unknown name", func() {
			_, err := model.ParseFormat("parli")

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "parli")
			})
		})
	})
}

func TestOutcomeString(t *testing.T) {
	Convey("Given outcomes", t, func() {
		So(model.OutcomeFirst.String(), ShouldEqual, "aff")
		So(model.OutcomeSecond.String(), ShouldEqual, "neg")
		So(model.Outcome(0).String(), ShouldEqual, "unknown")
	})
}

func TestRatingStateAdjusted(t *testing.T) {
	Convey("Given a rating state", t, func() {
		s := model.RatingState{Rating: 1600, Deviation: 75, Volatility: 0.06}

		Convey("Then the adjusted rating subtracts two deviations", func() {
			So(s.Adjusted(), ShouldEqual, 1450)
		})
	})
}
