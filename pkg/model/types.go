package model

import "time"

// Threshold and poll interval bounds enforced when settings are saved.
const (
	MinThreshold   = 1
	MaxThreshold   = 100
	MinPollSeconds = 5
	MaxPollSeconds = 600
)

// Settings is the persisted configuration record. The four threshold and
// startup fields are what the settings editor manages; the remaining fields
// tune logging, history recording and notification backends.
type Settings struct {
	LowThreshold   int  `yaml:"low_threshold" mapstructure:"low_threshold"`
	HighThreshold  int  `yaml:"high_threshold" mapstructure:"high_threshold"`
	PollSeconds    int  `yaml:"poll_seconds" mapstructure:"poll_seconds"`
	StartWithLogin bool `yaml:"start_with_login" mapstructure:"start_with_login"`

	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`

	HistoryDriver string `yaml:"history_driver" mapstructure:"history_driver"`
	HistoryPath   string `yaml:"history_path" mapstructure:"history_path"`
	HistoryDSN    string `yaml:"history_dsn" mapstructure:"history_dsn"`

	HTTPAddr    string `yaml:"http_addr" mapstructure:"http_addr"`
	SummaryCron string `yaml:"summary_cron" mapstructure:"summary_cron"`

	NotifyDesktop   bool   `yaml:"notify_desktop" mapstructure:"notify_desktop"`
	WebhookURL      string `yaml:"webhook_url" mapstructure:"webhook_url"`
	WebhookSecret   string `yaml:"webhook_secret" mapstructure:"webhook_secret"`
	SlackWebhookURL string `yaml:"slack_webhook_url" mapstructure:"slack_webhook_url"`
	TelegramToken   string `yaml:"telegram_token" mapstructure:"telegram_token"`
	TelegramChatID  int64  `yaml:"telegram_chat_id" mapstructure:"telegram_chat_id"`
}

// Clamped returns a copy with the editable fields forced into their valid
// ranges: thresholds into [1,100], poll interval into [5,600] seconds.
func (s Settings) Clamped() Settings {
	s.LowThreshold = clampInt(s.LowThreshold, MinThreshold, MaxThreshold)
	s.HighThreshold = clampInt(s.HighThreshold, MinThreshold, MaxThreshold)
	s.PollSeconds = clampInt(s.PollSeconds, MinPollSeconds, MaxPollSeconds)
	return s
}

// PollInterval returns the delay between polls. Values below the minimum are
// floored rather than rejected so that a hand-edited file cannot produce a
// busy loop.
func (s Settings) PollInterval() time.Duration {
	secs := s.PollSeconds
	if secs < MinPollSeconds {
		secs = MinPollSeconds
	}
	return time.Duration(secs) * time.Second
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AlertState is the last alert category fired by the watch loop. It exists
// to deduplicate notifications while a threshold condition persists.
type AlertState string

const (
	StateNone AlertState = "none"
	StateLow  AlertState = "low"
	StateHigh AlertState = "high"
)

// BatterySample is one telemetry reading. State carries the raw power state
// reported by the OS for diagnostics; decisions use Percent and Charging.
type BatterySample struct {
	Percent  int    `json:"percent"`
	Charging bool   `json:"charging"`
	State    string `json:"state,omitempty"`
}

// AlertEvent is a fired notification as recorded in history.
type AlertEvent struct {
	ID        string    `json:"id" db:"id"`
	Level     string    `json:"level" db:"level"`
	Percent   int       `json:"percent" db:"percent"`
	Charging  bool      `json:"charging" db:"charging"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SampleRecord is a battery sample as recorded in history.
type SampleRecord struct {
	ID         int64     `json:"id" db:"id"`
	Percent    int       `json:"percent" db:"percent"`
	Charging   bool      `json:"charging" db:"charging"`
	State      string    `json:"state" db:"state"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// SampleStats holds aggregated sample statistics for a time window.
type SampleStats struct {
	Count      int64     `json:"count"`
	MinPercent int       `json:"min_percent"`
	MaxPercent int       `json:"max_percent"`
	AvgPercent float64   `json:"avg_percent"`
	FirstAt    time.Time `json:"first_at"`
	LastAt     time.Time `json:"last_at"`
}

// Snapshot is the watch loop's last published observation.
type Snapshot struct {
	Sample           *BatterySample `json:"sample,omitempty"`
	State            AlertState     `json:"state"`
	RatePerHour      float64        `json:"rate_per_hour,omitempty"`
	RemainingSeconds int64          `json:"remaining_seconds,omitempty"`
	PolledAt         time.Time      `json:"polled_at"`
}
