package model_test

import (
	"errors"
	"sort"
	"testing"

	model "github.com/Xarpp/ChallongeExportData/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMatchState(t *testing.T) {
	Convey("Given remote state strings", t, func() {
		Convey("When they are known", func() {
			for in, want := range map[string]model.MatchState{
				"pending":   model.StatePending,
				"open":      model.StateOpen,
				" Complete": model.StateComplete,
			} {
				got, err := model.ParseMatchState(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When they are unknown", func() {
			_, err := model.ParseMatchState("underway")
			So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestPriority(t *testing.T) {
	Convey("Given matches in every state", t, func() {
		matches := []model.RemoteMatch{
			{ID: "1", State: model.StateOpen},
			{ID: "2", State: model.StateComplete},
			{ID: "3", State: model.StatePending},
			{ID: "4", State: model.StateOpen},
			{ID: "5", State: model.StateComplete},
		}

		Convey("When stable sorted by priority", func() {
			sort.SliceStable(matches, func(i, j int) bool {
				return matches[i].State.Priority() < matches[j].State.Priority()
			})

			Convey("Then pending precedes complete precedes open, keeping arrival order", func() {
				ids := make([]string, 0, len(matches))
				for _, m := range matches {
					ids = append(ids, m.ID)
				}
				So(ids, ShouldResemble, []string{"3", "2", "5", "1", "4"})
			})
		})
	})
}
