package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AlertLevel indicates the category of a battery alert.
type AlertLevel string

const (
	AlertLow  AlertLevel = "low"  // Discharged to the low threshold while unplugged
	AlertHigh AlertLevel = "high" // Charged to the high threshold while plugged in
	AlertInfo AlertLevel = "info" // Informational, e.g. scheduled summaries
)

// Alert represents a battery threshold notification.
type Alert struct {
	ID        string     `json:"id"`
	Level     AlertLevel `json:"level"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Percent   int        `json:"percent"`
	Charging  bool       `json:"charging"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notifier delivers alerts to the user or an external system.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Implementations must be safe for concurrent use.
	Send(ctx context.Context, alert Alert) error
}

// LowBattery builds the alert fired when charge drops to the low threshold
// while unplugged.
func LowBattery(percent int) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Level:     AlertLow,
		Title:     fmt.Sprintf("Battery Low: %d%%", percent),
		Message:   "Please connect your charger.",
		Percent:   percent,
		Charging:  false,
		CreatedAt: time.Now().UTC(),
	}
}

// HighBattery builds the alert fired when charge rises to the high threshold
// while plugged in.
func HighBattery(percent int) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Level:     AlertHigh,
		Title:     fmt.Sprintf("Battery High: %d%%", percent),
		Message:   "You can unplug the charger.",
		Percent:   percent,
		Charging:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// Info builds an informational alert such as a scheduled summary.
func Info(title, message string) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Level:     AlertInfo,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
