package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"battnotify/internal/config"
	"battnotify/pkg/model"
)

// Version metadata set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	cfgFile      string
	openSettings bool
)

var rootCmd = &cobra.Command{
	Use:   "battnotify",
	Short: "Battery threshold notifier",
	Long: `battnotify watches the battery level and sends a notification when the
charge drops below the low threshold while unplugged, or climbs above the
high threshold while charging. Run without arguments it syncs the
launch-at-login registration and watches until interrupted.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if openSettings {
			return editSettings(cmd.Context())
		}
		return watch(cmd.Context(), watchOptions{})
	},
}

// Execute runs the CLI under a signal-aware context.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default: <user config dir>/battnotify/config.yaml)")
	rootCmd.Flags().BoolVar(&openSettings, "settings", false, "open the settings editor and exit")
}

// loadStore opens the settings store honoring the --config override.
func loadStore() *config.Store {
	return config.NewStore(cfgFile)
}

// newLogger creates a structured logger from settings.
func newLogger(settings model.Settings) *slog.Logger {
	level := slog.LevelInfo
	switch settings.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if settings.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
