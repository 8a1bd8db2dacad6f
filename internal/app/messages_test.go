package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/ledger"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
)

func TestTransitionMessage(t *testing.T) {
	Convey("Given two individuals", t, func() {
		alice := competitor.NewIndividual("p1", model.Row{Name: "alice", Rating: 1000, Calibration: 0})
		bob := competitor.NewIndividual("p2", model.Row{Name: "bob", Rating: 1400, Calibration: 0})
		alice.SetPending(rating.Compute(1000, 1400, 0))
		bob.SetPending(rating.Compute(1400, 1000, 0))

		Convey("When an upcoming match is announced in solo mode", func() {
			msg, ok := transitionMessage(ledger.Transition{Kind: ledger.KindUpcoming, Side1: alice, Side2: bob}, FormatSolo)

			Convey("Then it carries the predictions", func() {
				So(ok, ShouldBeTrue)
				So(msg.Description, ShouldEqual, "alice (1000 TRP) vs bob (1400 TRP)")
				So(msg.Footer, ShouldEqual, "📈 ELO Predictions\n- alice: +45 (W) / -4 (L)\n- bob: +4 (W) / -45 (L)")
			})
		})

		Convey("When a corrected result is announced", func() {
			msg, ok := transitionMessage(ledger.Transition{Kind: ledger.KindCorrected, Side1: alice, Side2: bob, WinnerID: "p2"}, FormatSolo)

			Convey("Then the winner is marked and the correction noted", func() {
				So(ok, ShouldBeTrue)
				So(msg.Title, ShouldEqual, TitleFinished)
				So(msg.Description, ShouldEqual, "alice (1000 TRP) vs (W) bob (1400 TRP)")
				So(msg.Footer, ShouldEqual, correctedFooter)
			})
		})

		Convey("When a silent transition is rendered", func() {
			_, ok := transitionMessage(ledger.Transition{Kind: ledger.KindReset, Side1: alice, Side2: bob}, FormatSolo)

			Convey("Then nothing is announced", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestRosterMessage(t *testing.T) {
	Convey("Given a team slot", t, func() {
		ann := competitor.NewIndividual("a", model.Row{Name: "ann", Rating: 800})
		ben := competitor.NewIndividual("b", model.Row{Name: "ben", Rating: 1200})
		team := competitor.NewTeam("p1", "Red", ann, ben)

		Convey("Then the team roster nests members under the team name", func() {
			msg := rosterMessage(TitleFinal, []competitor.Competitor{team}, FormatTeam)
			So(msg.Title, ShouldEqual, TitleFinal)
			So(msg.Description, ShouldEqual, "Team Red\nann (800 TRP)\nben (1200 TRP)\n\n")
		})

		Convey("Then the solo roster lists the individuals", func() {
			msg := rosterMessage(TitleLineup, []competitor.Competitor{ann, ben}, FormatSolo)
			So(msg.Description, ShouldEqual, "ann (800 TRP)\nben (1200 TRP)\n")
		})
	})
}
