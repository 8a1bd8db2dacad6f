package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/Xarpp/ChallongeExportData/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStanding(t *testing.T) {
	Convey("Given a Standing", t, func() {
		s := types.Standing{Rank: 1, Name: "alice", Rating: 1100, Calibration: 9, MatchesPlayed: 4, MatchesWon: 3}

		Convey("Then the win rate is won over played", func() {
			So(s.WinRate(), ShouldEqual, 0.75)
		})

		Convey("Then a rookie has a zero win rate", func() {
			So(types.Standing{}.WinRate(), ShouldEqual, 0.0)
		})

		Convey("When encoded as JSON", func() {
			data, err := json.Marshal(s)
			So(err, ShouldBeNil)

			Convey("Then it uses snake_case keys", func() {
				So(string(data), ShouldContainSubstring, `"matches_played":4`)
				So(string(data), ShouldContainSubstring, `"tournaments_played":0`)
			})
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a Match without a winner", t, func() {
		data, err := json.Marshal(types.Match{ID: "7", State: "open"})
		So(err, ShouldBeNil)

		Convey("Then empty sides and winner are omitted", func() {
			So(string(data), ShouldNotContainSubstring, "winner")
			So(string(data), ShouldNotContainSubstring, "side1")
			So(string(data), ShouldContainSubstring, `"notified_open":false`)
		})
	})
}
