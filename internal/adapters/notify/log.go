package notify

import (
	"context"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
)

// LogNotifier writes messages to the log instead of a chat channel.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a LogNotifier writing to l.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	if l == nil {
		l = logger.Nop()
	}
	return &LogNotifier{log: l}
}

func (n *LogNotifier) Send(ctx context.Context, msg model.Message) error {
	n.log.Info(ctx, msg.Title,
		logger.String("description", msg.Description),
		logger.String("footer", msg.Footer))
	return nil
}
