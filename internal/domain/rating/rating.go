// Package rating implements the Elo arithmetic used to score bracket matches.
//
// Everything here is pure: no state, no errors, no I/O.
package rating

import "math"

// Rating model constants.
const (
	// InitialRating is assigned to competitors seen for the first time.
	InitialRating = 1000
	// CalibrationMatches is the number of matches played with the larger K.
	CalibrationMatches = 10
	// CalibrationK is the K-factor while calibration remains.
	CalibrationK = 200.0
	// MatureK is the K-factor once calibration is exhausted.
	MatureK = 50.0
	// TeamCalibrationMultiplier scales a team delta for members still calibrating.
	TeamCalibrationMultiplier = 4

	eloScale = 400.0
)

// Deltas holds the signed rating change for a side if it wins or loses.
type Deltas struct {
	Win  int
	Lose int
}

// Pick returns Win or Lose.
func (d Deltas) Pick(won bool) int {
	if won {
		return d.Win
	}
	return d.Lose
}

// ExpectedScore is the probability that a side rated a beats a side rated b.
func ExpectedScore(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/eloScale))
}

// KFactor returns the K-factor for the given remaining calibration.
func KFactor(calibrationRemaining int) float64 {
	if calibrationRemaining > 0 {
		return CalibrationK
	}
	return MatureK
}

// Compute returns the deltas for a side rated r facing an opponent rated opp.
// Results are truncated toward zero, so Win >= 0 and Lose <= 0.
func Compute(r, opp, calibrationRemaining int) Deltas {
	k := KFactor(calibrationRemaining)
	e := ExpectedScore(r, opp)
	return Deltas{
		Win:  int(k * (1 - e)),
		Lose: int(k * (0 - e)),
	}
}

// ScaleForMember returns the share of a team delta applied to one member.
func ScaleForMember(teamDelta, memberCalibration int) int {
	if memberCalibration > 0 {
		return teamDelta * TeamCalibrationMultiplier
	}
	return teamDelta
}

// Average returns the truncated mean of ratings, or InitialRating when empty.
func Average(ratings []int) int {
	if len(ratings) == 0 {
		return InitialRating
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(float64(sum) / float64(len(ratings)))
}
