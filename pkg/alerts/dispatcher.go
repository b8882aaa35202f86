package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Dispatcher fans an alert out to every configured notifier. Delivery is
// sequential and synchronous; the caller is blocked until every backend has
// returned.
type Dispatcher struct {
	notifiers []Notifier
	log       *slog.Logger
}

// NewDispatcher creates a dispatcher over the given notifiers.
func NewDispatcher(log *slog.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, log: log}
}

// Notifiers returns the configured backends.
func (d *Dispatcher) Notifiers() []Notifier { return d.notifiers }

// Dispatch delivers the alert to each backend in turn. A backend failure is
// logged and does not prevent delivery to the rest; the joined errors are
// returned for callers that want them.
func (d *Dispatcher) Dispatch(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range d.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			d.log.Warn("notifier failed", "notifier", n.Name(), "level", alert.Level, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		d.log.Debug("alert delivered", "notifier", n.Name(), "level", alert.Level)
	}
	return errors.Join(errs...)
}
