// Package notify raises a desktop notification whenever the timer moves to
// a new phase.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/pomodoro/internal/timer"
	"github.com/gen2brain/beeep"
)

// Sender delivers one notification.
type Sender func(title, message string) error

// Desktop sends through the OS notification center.
func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notifier turns timer transitions into notifications.
type Notifier struct {
	send     Sender
	settings timer.Settings
	logger   *slog.Logger
}

// New creates a Notifier. settings supply the durations quoted in messages.
func New(send Sender, settings timer.Settings, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{send: send, settings: settings, logger: logger}
}

// Run consumes events until ctx is done or events is closed. Failed
// notifications are logged and otherwise ignored.
func (n *Notifier) Run(ctx context.Context, events <-chan timer.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			n.Handle(ev)
		}
	}
}

// Handle notifies for ev if it is a phase transition.
func (n *Notifier) Handle(ev timer.Event) {
	if !ev.Transition() {
		return
	}

	title, message := Message(ev, n.settings)
	if err := n.send(title, message); err != nil {
		n.logger.Warn("failed to send notification", "phase", ev.State.Phase.String(), "error", err)
	}
}

// Message builds the notification text for a transition.
func Message(ev timer.Event, settings timer.Settings) (title, message string) {
	next := ev.State.Phase
	length := timer.FormatClock(settings.Seconds(next))

	if !next.IsBreak() {
		return "Break over", fmt.Sprintf("Back to work for %s.", length)
	}

	if next == timer.LongBreak {
		return "Work session done", fmt.Sprintf("You earned a %s long break.", length)
	}

	return "Work session done", fmt.Sprintf("Take a %s short break.", length)
}
