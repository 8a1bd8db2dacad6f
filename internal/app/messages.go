package service

import (
	"fmt"
	"strings"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/ledger"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// Announcement titles.
const (
	TitleLineup   = "📋 Tournament lineup: "
	TitleFinal    = "📋 Tournament is over! Updated rating:"
	TitleUpcoming = "🏆 New Match Upcoming"
	TitleFinished = "🏁 Finished match"

	correctedFooter = "Result corrected"
)

func label(c competitor.Competitor) string {
	return fmt.Sprintf("%s (%d TRP)", c.Name(), c.Rating())
}

// rosterMessage lists every competitor with its current rating. Teams are
// listed by name with their members underneath.
func rosterMessage(title string, slots []competitor.Competitor, format Format) model.Message {
	var b strings.Builder
	for _, c := range slots {
		if format == FormatTeam {
			fmt.Fprintf(&b, "Team %s\n", c.Name())
			for _, m := range c.Individuals() {
				b.WriteString(label(m))
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
			continue
		}
		b.WriteString(label(c))
		b.WriteByte('\n')
	}
	return model.Message{Title: title, Description: b.String()}
}

// transitionMessage renders an announcing transition. ok is false for kinds
// that are not announced.
func transitionMessage(t ledger.Transition, format Format) (model.Message, bool) {
	if !t.Kind.Announces() || t.Side1 == nil || t.Side2 == nil {
		return model.Message{}, false
	}
	switch t.Kind {
	case ledger.KindUpcoming:
		msg := model.Message{
			Title:       TitleUpcoming,
			Description: label(t.Side1) + " vs " + label(t.Side2),
		}
		if format == FormatSolo {
			msg.Footer = "📈 ELO Predictions\n" + prediction(t.Side1) + "\n" + prediction(t.Side2)
		}
		return msg, true
	default:
		left, right := label(t.Side1), label(t.Side2)
		if t.WinnerID == t.Side1.ID() {
			left = "(W) " + left
		} else {
			right = "(W) " + right
		}
		msg := model.Message{Title: TitleFinished, Description: left + " vs " + right}
		if t.Kind == ledger.KindCorrected {
			msg.Footer = correctedFooter
		}
		return msg, true
	}
}

func prediction(c competitor.Competitor) string {
	d := c.Pending()
	return fmt.Sprintf("- %s: %+d (W) / %d (L)", c.Name(), d.Win, d.Lose)
}
