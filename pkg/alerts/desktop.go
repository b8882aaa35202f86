package alerts

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier raises OS desktop notifications.
type DesktopNotifier struct{}

// NewDesktopNotifier creates a desktop notifier. It needs no configuration;
// availability of the underlying OS facility is discovered on first send.
func NewDesktopNotifier() DesktopNotifier { return DesktopNotifier{} }

func (DesktopNotifier) Name() string { return "desktop" }

// Send raises the notification. Threshold alerts use the attention-grabbing
// variant, summaries a plain one. The context is unused; the OS call has no
// cancellation hook.
func (DesktopNotifier) Send(_ context.Context, alert Alert) error {
	var err error
	if alert.Level == AlertInfo {
		err = beeep.Notify(alert.Title, alert.Message, "")
	} else {
		err = beeep.Alert(alert.Title, alert.Message, "")
	}
	if err != nil {
		return fmt.Errorf("show desktop notification: %w", err)
	}
	return nil
}
