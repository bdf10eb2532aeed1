// Package notifications defines the user-facing alert surface the booking
// flow talks to: fire-and-forget toasts and blocking yes/no prompts.
package notifications

import (
	"context"
	"time"

	"github.com/TopTalentDev/tutor-booking/utils"
	"go.uber.org/zap"
)

// Notifier shows a dismissable toast. Duration 0 means the surface's default
// lifetime.
type Notifier interface {
	Notify(title, message, dismissLabel string, duration time.Duration)
}

// Confirmer presents a blocking yes/no prompt.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// LogNotifier is the headless implementation: toasts go to the log. Useful in
// tests and for the stub environment, where no widget surface exists.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: utils.GetLogger().Named("notify")}
}

func (n *LogNotifier) Notify(title, message, dismissLabel string, duration time.Duration) {
	n.logger.Info("toast",
		zap.String("title", title),
		zap.String("message", message))
}

// Confirm always answers yes; a headless surface has nobody to ask.
func (n *LogNotifier) Confirm(ctx context.Context, title, message string) (bool, error) {
	n.logger.Info("confirm", zap.String("title", title), zap.String("message", message))
	return true, nil
}
