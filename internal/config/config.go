package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"battnotify/pkg/model"
)

// EnvPrefix is prepended to upper-cased setting keys for environment
// overrides, e.g. BATTNOTIFY_LOW_THRESHOLD=15.
const EnvPrefix = "BATTNOTIFY"

// Store reads and writes the settings file. Load never fails; Save surfaces
// I/O errors to the caller.
type Store struct {
	path string
}

// NewStore returns a store for the given file path, or the default per-user
// path when path is empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the settings file path the store operates on.
func (s *Store) Path() string { return s.path }

// DefaultPath resolves the settings file location: the BATTNOTIFY_CONFIG
// environment variable if set, otherwise config.yaml under the per-user
// configuration directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultHistoryPath returns the default location of the history database,
// alongside the settings file.
func DefaultHistoryPath() string {
	return filepath.Join(baseDir(), "history.db")
}

func baseDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "battnotify")
}

// Defaults returns the settings used when no file exists or a field is
// missing or malformed.
func Defaults() model.Settings {
	return model.Settings{
		LowThreshold:   20,
		HighThreshold:  80,
		PollSeconds:    60,
		StartWithLogin: true,

		LogLevel:  "info",
		LogFormat: "text",

		HistoryDriver: "sqlite",
		HistoryPath:   DefaultHistoryPath(),

		NotifyDesktop: true,
	}
}

// Load reads the settings file and environment overrides. Any read or parse
// failure falls back to defaults; individual fields of the wrong kind keep
// their default while the rest of the file is honored. Unknown keys are
// ignored. Load never returns an error.
func (s *Store) Load() model.Settings {
	out := Defaults()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// A missing or malformed file leaves the defaults in place; environment
	// overrides still apply below.
	_ = v.ReadInConfig()

	out.LowThreshold = settingInt(v.Get("low_threshold"), out.LowThreshold)
	out.HighThreshold = settingInt(v.Get("high_threshold"), out.HighThreshold)
	out.PollSeconds = settingInt(v.Get("poll_seconds"), out.PollSeconds)
	out.StartWithLogin = settingBool(v.Get("start_with_login"), out.StartWithLogin)

	out.LogLevel = settingString(v.Get("log_level"), out.LogLevel)
	out.LogFormat = settingString(v.Get("log_format"), out.LogFormat)

	out.HistoryDriver = settingString(v.Get("history_driver"), out.HistoryDriver)
	out.HistoryPath = settingString(v.Get("history_path"), out.HistoryPath)
	out.HistoryDSN = settingString(v.Get("history_dsn"), out.HistoryDSN)

	out.HTTPAddr = settingString(v.Get("http_addr"), out.HTTPAddr)
	out.SummaryCron = settingString(v.Get("summary_cron"), out.SummaryCron)

	out.NotifyDesktop = settingBool(v.Get("notify_desktop"), out.NotifyDesktop)
	out.WebhookURL = settingString(v.Get("webhook_url"), out.WebhookURL)
	out.WebhookSecret = settingString(v.Get("webhook_secret"), out.WebhookSecret)
	out.SlackWebhookURL = settingString(v.Get("slack_webhook_url"), out.SlackWebhookURL)
	out.TelegramToken = settingString(v.Get("telegram_token"), out.TelegramToken)
	out.TelegramChatID = settingInt64(v.Get("telegram_chat_id"), out.TelegramChatID)

	return out
}

// Save clamps the editable fields and writes the full record, replacing any
// prior content. The file is written to a temporary name in the same
// directory and renamed into place.
func (s *Store) Save(settings model.Settings) error {
	settings = settings.Clamped()

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// settingInt overlays raw onto def when raw holds an integral value.
// Booleans and fractional numbers are not integers; numeric strings are
// accepted so environment overrides work.
func settingInt(raw any, def int) int {
	if raw == nil {
		return def
	}
	switch f := raw.(type) {
	case bool:
		return def
	case float64:
		if f != math.Trunc(f) {
			return def
		}
	case float32:
		if float64(f) != math.Trunc(float64(f)) {
			return def
		}
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return def
	}
	return n
}

func settingInt64(raw any, def int64) int64 {
	if raw == nil {
		return def
	}
	if _, isBool := raw.(bool); isBool {
		return def
	}
	n, err := cast.ToInt64E(raw)
	if err != nil {
		return def
	}
	return n
}

// settingBool overlays raw onto def when raw is a boolean or a boolean-like
// string ("true", "1", ...). Plain numbers are not booleans.
func settingBool(raw any, def bool) bool {
	switch b := raw.(type) {
	case nil:
		return def
	case bool:
		return b
	case string:
		parsed, err := cast.ToBoolE(b)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

func settingString(raw any, def string) string {
	s, ok := raw.(string)
	if !ok {
		return def
	}
	return s
}
