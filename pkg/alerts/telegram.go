package alerts

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// TelegramNotifier sends alerts to a Telegram chat through a send-only bot.
// No update polling is started.
type TelegramNotifier struct {
	bot     *tele.Bot
	chatID  tele.ChatID
	limiter *rate.Limiter
}

// NewTelegramNotifier creates the bot and verifies the token against the
// Telegram API. Sends are rate limited to stay inside the per-chat API
// budget.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:     bot,
		chatID:  tele.ChatID(chatID),
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 1),
	}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) Send(ctx context.Context, alert Alert) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}
	text := alert.Title
	if alert.Message != "" {
		text += "\n" + alert.Message
	}
	if _, err := t.bot.Send(t.chatID, text); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	return nil
}
