package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/podium/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRankingRow(t *testing.T) {
	Convey("Given a RankingRow", t, func() {
		row := types.RankingRow{
			Rank:           3,
			Identity:       "abc123",
			DisplayName:    "Jane Doe",
			Affiliation:    "Greenhill",
			Rating:         1650.5,
			Deviation:      80.25,
			Volatility:     0.06,
			AdjustedRating: 1490,
			MatchCount:     12,
		}

		Convey("When encoding it as JSON", func() {
			raw, err := json.Marshal(row)
			So(err, ShouldBeNil)

			var fields map[string]any
			So(json.Unmarshal(raw, &fields), ShouldBeNil)

			Convey("Then it should use the report field names", func() {
				So(fields["rank"], ShouldEqual, 3.0)
				So(fields["hash"], ShouldEqual, "abc123")
				So(fields["name"], ShouldEqual, "Jane Doe")
				So(fields["school"], ShouldEqual, "Greenhill")
				So(fields["adjusted_rating"], ShouldEqual, 1490.0)
				So(fields["deviation"], ShouldEqual, 80.25)
				So(fields["matches"], ShouldEqual, 12.0)
			})
		})

		Convey("When it is the zero value", func() {
			var zero types.RankingRow

			Convey("Then it should carry no rank", func() {
				So(zero.Rank, ShouldEqual, 0)
				So(zero.Identity, ShouldBeEmpty)
			})
		})
	})
}
