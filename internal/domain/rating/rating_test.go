package rating_test

import (
	"testing"

	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpectedScore(t *testing.T) {
	Convey("Given two ratings", t, func() {
		Convey("When they are equal", func() {
			Convey("Then the expected score is one half", func() {
				So(rating.ExpectedScore(1000, 1000), ShouldEqual, 0.5)
				So(rating.ExpectedScore(1734, 1734), ShouldEqual, 0.5)
			})
		})

		Convey("When one side is 400 points stronger", func() {
			Convey("Then it is ten times more likely to win", func() {
				So(rating.ExpectedScore(1400, 1000), ShouldAlmostEqual, 10.0/11.0, 1e-9)
				So(rating.ExpectedScore(1000, 1400), ShouldAlmostEqual, 1.0/11.0, 1e-9)
			})
		})

		Convey("Then both perspectives sum to one", func() {
			So(rating.ExpectedScore(1210, 980)+rating.ExpectedScore(980, 1210), ShouldAlmostEqual, 1.0, 1e-12)
		})
	})
}

func TestKFactor(t *testing.T) {
	Convey("Given remaining calibration", t, func() {
		So(rating.KFactor(10), ShouldEqual, rating.CalibrationK)
		So(rating.KFactor(1), ShouldEqual, rating.CalibrationK)
		So(rating.KFactor(0), ShouldEqual, rating.MatureK)
		So(rating.KFactor(-1), ShouldEqual, rating.MatureK)
	})
}

func TestCompute(t *testing.T) {
	Convey("Given two calibrating competitors at 1000", t, func() {
		d := rating.Compute(1000, 1000, 10)

		Convey("Then win and lose are symmetric halves of K", func() {
			So(d.Win, ShouldEqual, 100)
			So(d.Lose, ShouldEqual, -100)
		})
	})

	Convey("Given two mature competitors at 1000", t, func() {
		d := rating.Compute(1000, 1000, 0)
		So(d.Win, ShouldEqual, 25)
		So(d.Lose, ShouldEqual, -25)
	})

	Convey("Given an underdog", t, func() {
		d := rating.Compute(1000, 1400, 0)

		Convey("Then deltas are truncated toward zero", func() {
			// 50 * 10/11 = 45.45..., 50 * -1/11 = -4.54...
			So(d.Win, ShouldEqual, 45)
			So(d.Lose, ShouldEqual, -4)
		})
	})

	Convey("Then the signs always hold", t, func() {
		for _, pair := range [][2]int{{900, 1500}, {1500, 900}, {1000, 1001}, {2400, 100}} {
			d := rating.Compute(pair[0], pair[1], 3)
			So(d.Win, ShouldBeGreaterThanOrEqualTo, 0)
			So(d.Lose, ShouldBeLessThanOrEqualTo, 0)
		}
	})
}

func TestScaleForMember(t *testing.T) {
	Convey("Given a team delta", t, func() {
		Convey("When the member is calibrating", func() {
			So(rating.ScaleForMember(25, 4), ShouldEqual, 100)
			So(rating.ScaleForMember(-25, 1), ShouldEqual, -100)
		})

		Convey("When the member is mature", func() {
			So(rating.ScaleForMember(25, 0), ShouldEqual, 25)
		})
	})
}

func TestAverage(t *testing.T) {
	Convey("Given member ratings", t, func() {
		So(rating.Average([]int{800, 1200}), ShouldEqual, 1000)
		So(rating.Average([]int{1000, 1001}), ShouldEqual, 1000)
		So(rating.Average([]int{1203}), ShouldEqual, 1203)

		Convey("When there are no members", func() {
			So(rating.Average(nil), ShouldEqual, rating.InitialRating)
		})
	})
}
