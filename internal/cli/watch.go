package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"battnotify/internal/server"
	"battnotify/internal/startup"
	"battnotify/pkg/alerts"
	"battnotify/pkg/monitor"
	"battnotify/pkg/power"
	"battnotify/pkg/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the battery and send threshold alerts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		once, _ := cmd.Flags().GetBool("once")
		httpAddr, _ := cmd.Flags().GetString("http")
		return watch(cmd.Context(), watchOptions{once: once, httpAddr: httpAddr})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("once", false, "evaluate a single poll and exit")
	watchCmd.Flags().String("http", "", "status API listen address (overrides http_addr)")
}

type watchOptions struct {
	once     bool
	httpAddr string
}

// watch is the long-running mode: it reconciles the launch-at-login
// registration, then polls the battery until the context is canceled.
// Auxiliary services (settings watcher, status API, summary cron) run
// alongside the loop and their failures are logged, never fatal.
func watch(ctx context.Context, opts watchOptions) error {
	cfgStore := loadStore()
	settings := cfgStore.Load()
	logger := newLogger(settings)

	store, err := storage.Open(settings)
	if err != nil {
		return fmt.Errorf("open history storage: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	dispatcher := alerts.NewDispatcher(logger, alerts.FromSettings(settings, logger)...)
	loop := monitor.NewLoop(settings, power.NewSystemReader(), dispatcher, store, logger)

	if opts.once {
		loop.Tick(ctx)
		return nil
	}

	if err := startup.Sync(ctx, logger, startup.Detect(logger), settings.StartWithLogin); err != nil {
		logger.Error("startup registration sync failed", "error", err)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Warn("systemd readiness notification failed", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := cfgStore.Watch(ctx, logger, loop.UpdateSettings); err != nil {
			logger.Error("settings watch failed", "error", err)
		}
	}()

	addr := settings.HTTPAddr
	if opts.httpAddr != "" {
		addr = opts.httpAddr
	}
	if addr != "" {
		api := server.NewServer(loop, store, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := api.Run(ctx, addr); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	if settings.SummaryCron != "" {
		stop, err := scheduleSummary(ctx, settings.SummaryCron, store, dispatcher, logger)
		if err != nil {
			logger.Error("summary schedule invalid", "cron", settings.SummaryCron, "error", err)
		} else {
			defer stop()
		}
	}

	err = loop.Run(ctx)
	wg.Wait()
	return err
}

// scheduleSummary dispatches a periodic info notification that aggregates
// the samples recorded since the previous run.
func scheduleSummary(ctx context.Context, spec string, store storage.Storage, dispatcher *alerts.Dispatcher, logger *slog.Logger) (func(), error) {
	if store == nil {
		return nil, errors.New("battery summary requires history storage")
	}

	var mu sync.Mutex
	last := time.Now().UTC()

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		mu.Lock()
		since := last
		last = time.Now().UTC()
		mu.Unlock()

		stats, err := store.SampleStats(ctx, since)
		if err != nil {
			logger.Error("aggregate samples for summary", "error", err)
			return
		}
		if stats.Count == 0 {
			logger.Debug("no samples since last summary")
			return
		}

		message := fmt.Sprintf("Average %.0f%% (min %d%%, max %d%%) across %d readings since %s.",
			stats.AvgPercent, stats.MinPercent, stats.MaxPercent, stats.Count, since.Local().Format("15:04"))
		if err := dispatcher.Dispatch(ctx, alerts.Info("Battery Summary", message)); err != nil {
			logger.Error("dispatch summary", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Info("battery summary scheduled", "cron", spec)
	return func() { c.Stop() }, nil
}
