package alerts

import (
	"log/slog"

	"battnotify/pkg/model"
)

// FromSettings builds the notifier set enabled by settings. A backend that
// fails to initialize is skipped with a warning so one bad credential does
// not disable alerting entirely.
func FromSettings(settings model.Settings, log *slog.Logger) []Notifier {
	var out []Notifier

	if settings.NotifyDesktop {
		out = append(out, NewDesktopNotifier())
	}
	if settings.WebhookURL != "" {
		out = append(out, NewWebhookNotifier(settings.WebhookURL, settings.WebhookSecret))
	}
	if settings.SlackWebhookURL != "" {
		out = append(out, NewSlackNotifier(settings.SlackWebhookURL))
	}
	if settings.TelegramToken != "" && settings.TelegramChatID != 0 {
		tn, err := NewTelegramNotifier(settings.TelegramToken, settings.TelegramChatID)
		if err != nil {
			log.Warn("telegram notifier disabled", "error", err)
		} else {
			out = append(out, tn)
		}
	}
	return out
}
