package competitor_test

import (
	"errors"
	"testing"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func individual(name string, r, cal int) *competitor.Individual {
	row := competitor.Fresh(name)
	row.Rating = r
	row.Calibration = cal
	return competitor.NewIndividual(name+"-id", row)
}

func TestIndividual(t *testing.T) {
	Convey("Given a fresh individual", t, func() {
		a := competitor.NewIndividual("17", competitor.Fresh("alice"))

		So(a.ID(), ShouldEqual, "17")
		So(a.Rating(), ShouldEqual, rating.InitialRating)
		So(a.CalibrationRemaining(), ShouldEqual, rating.CalibrationMatches)
		So(a.Stats().TournamentsPlayed, ShouldEqual, 1)

		Convey("When it wins with pending deltas set", func() {
			a.SetPending(rating.Deltas{Win: 100, Lose: -100})
			o := a.Apply(true)

			Convey("Then rating, counters and calibration move once", func() {
				So(o, ShouldResemble, competitor.Outcome{Delta: 100, Won: true, CalibrationSpent: true})
				So(a.Rating(), ShouldEqual, 1100)
				So(a.CalibrationRemaining(), ShouldEqual, 9)
				So(a.Stats().MatchesPlayed, ShouldEqual, 1)
				So(a.Stats().MatchesWon, ShouldEqual, 1)
				So(a.IsWinner(), ShouldBeTrue)
			})

			Convey("And the outcome is refunded", func() {
				So(a.Refund(o), ShouldBeNil)

				Convey("Then the individual is back to its starting row", func() {
					So(a.Row(), ShouldResemble, competitor.Fresh("alice"))
					So(a.IsWinner(), ShouldBeFalse)
				})
			})
		})

		Convey("When previewing a loss", func() {
			a.SetPending(rating.Deltas{Win: 100, Lose: -100})
			o := a.Preview(false)

			Convey("Then nothing changes", func() {
				So(o.Delta, ShouldEqual, -100)
				So(o.CalibrationSpent, ShouldBeFalse)
				So(a.Row(), ShouldResemble, competitor.Fresh("alice"))
			})
		})

		Convey("When rebound to a new remote id", func() {
			a.Rebind("99")
			So(a.ID(), ShouldEqual, "99")
		})
	})

	Convey("Given a mature individual", t, func() {
		m := individual("bob", 1300, 0)
		m.SetPending(rating.Deltas{Win: 20, Lose: -30})

		Convey("When it loses", func() {
			o := m.Apply(false)

			Convey("Then calibration stays at zero and is not restored by a refund", func() {
				So(o.CalibrationSpent, ShouldBeFalse)
				So(m.CalibrationRemaining(), ShouldEqual, 0)
				So(m.Refund(o), ShouldBeNil)
				So(m.CalibrationRemaining(), ShouldEqual, 0)
				So(m.Rating(), ShouldEqual, 1300)
			})
		})
	})

	Convey("Given an individual hydrated with 2 calibration matches left", t, func() {
		c := individual("carol", 1000, 2)
		c.SetPending(rating.Deltas{Win: 100, Lose: -100})

		Convey("When a forged outcome claims a spent calibration step", func() {
			So(c.Refund(competitor.Outcome{Delta: 0, CalibrationSpent: true}), ShouldBeNil)

			Convey("Then calibration never exceeds the starting value", func() {
				So(c.CalibrationRemaining(), ShouldEqual, 2)
				So(c.Stats().MatchesPlayed, ShouldEqual, 0)
			})
		})

		Convey("When it plays past its calibration window", func() {
			for i := 0; i < 4; i++ {
				c.Apply(true)
			}

			Convey("Then calibration bottoms out at zero", func() {
				So(c.CalibrationRemaining(), ShouldEqual, 0)
				So(c.Stats().MatchesPlayed, ShouldEqual, 4)
			})
		})
	})
}

func TestTeam(t *testing.T) {
	Convey("Given a team of a calibrating 800 and a mature 1200", t, func() {
		low := individual("low", 800, 5)
		high := individual("high", 1200, 0)
		team := competitor.NewTeam("t1", "GG", low, high)

		Convey("Then its rating is the truncated average", func() {
			So(team.Rating(), ShouldEqual, 1000)
			So(team.CalibrationRemaining(), ShouldEqual, 0)
			So(team.Individuals(), ShouldHaveLength, 2)
		})

		Convey("When the team wins a mature-K match against an equal team", func() {
			team.SetPending(rating.Compute(1000, 1000, team.CalibrationRemaining()))
			o := team.Apply(true)

			Convey("Then the calibrating member gets four times the team delta", func() {
				So(o.Delta, ShouldEqual, 25)
				So(low.Rating(), ShouldEqual, 900)
				So(high.Rating(), ShouldEqual, 1225)
				So(low.CalibrationRemaining(), ShouldEqual, 4)
				So(team.Rating(), ShouldEqual, 1062)
				So(team.IsWinner(), ShouldBeTrue)
				So(low.IsWinner(), ShouldBeTrue)
			})

			Convey("And the result is refunded", func() {
				So(team.Refund(o), ShouldBeNil)

				Convey("Then every member is restored", func() {
					So(low.Rating(), ShouldEqual, 800)
					So(high.Rating(), ShouldEqual, 1200)
					So(low.CalibrationRemaining(), ShouldEqual, 5)
					So(team.Rating(), ShouldEqual, 1000)
					So(team.Stats().MatchesPlayed, ShouldEqual, 0)
				})
			})
		})

		Convey("When previewing a result", func() {
			team.SetPending(rating.Deltas{Win: 25, Lose: -25})
			o := team.Preview(false)

			Convey("Then member shares are recorded without side effects", func() {
				So(o.Members, ShouldResemble, []competitor.Outcome{{Delta: -100}, {Delta: -25}})
				So(low.Rating(), ShouldEqual, 800)
			})
		})

		Convey("When refunding an outcome for a different roster", func() {
			err := team.Refund(competitor.Outcome{Delta: 25})
			So(errors.Is(err, competitor.ErrOutcomeMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a team without members", t, func() {
		empty := competitor.NewTeam("t2", "ghost")
		So(empty.Rating(), ShouldEqual, rating.InitialRating)
	})
}

func TestFresh(t *testing.T) {
	Convey("Given a new name", t, func() {
		So(competitor.Fresh("dave"), ShouldResemble, model.Row{
			Name: "dave", Rating: 1000, Calibration: 10, TournamentsPlayed: 1,
		})
	})
}
