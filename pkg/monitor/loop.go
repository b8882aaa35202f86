package monitor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"battnotify/pkg/alerts"
	"battnotify/pkg/model"
	"battnotify/pkg/power"
	"battnotify/pkg/storage"
)

// unavailableBackoff is the retry delay when no battery is readable. It is
// clamped to the poll interval so the retry never waits longer than a
// normal tick.
const unavailableBackoff = 10 * time.Second

// Loop polls battery telemetry and dispatches threshold alerts. The alert
// state deduplicates notifications: while a condition persists only the
// first crossing fires, and returning to the neutral band re-arms both
// alerts.
type Loop struct {
	reader     power.Reader
	dispatcher *alerts.Dispatcher
	store      storage.Storage // optional, nil disables history
	logger     *slog.Logger

	mu       sync.Mutex
	settings model.Settings

	state    model.AlertState
	prev     *model.BatterySample
	prevAt   time.Time
	snapshot atomic.Pointer[model.Snapshot]
}

// NewLoop creates a watch loop. The settings value is the startup snapshot;
// UpdateSettings swaps it between ticks. store may be nil.
func NewLoop(settings model.Settings, reader power.Reader, dispatcher *alerts.Dispatcher, store storage.Storage, logger *slog.Logger) *Loop {
	return &Loop{
		reader:     reader,
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
		settings:   settings,
		state:      model.StateNone,
	}
}

// Settings returns the settings the next tick will use.
func (l *Loop) Settings() model.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}

// UpdateSettings replaces the cached settings. The change takes effect at
// the next tick boundary.
func (l *Loop) UpdateSettings(s model.Settings) {
	l.mu.Lock()
	l.settings = s
	l.mu.Unlock()
}

// State returns the current alert state.
func (l *Loop) State() model.AlertState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Snapshot returns the last published observation. Before the first tick it
// reports an empty snapshot in the none state.
func (l *Loop) Snapshot() model.Snapshot {
	if s := l.snapshot.Load(); s != nil {
		return *s
	}
	return model.Snapshot{State: model.StateNone}
}

// Run executes ticks until ctx is canceled. Tick failures never terminate
// the loop; a panicking notifier backend is logged and the loop continues
// after the normal poll delay.
func (l *Loop) Run(ctx context.Context) error {
	s := l.Settings()
	l.logger.Info("watch loop started",
		"low", s.LowThreshold,
		"high", s.HighThreshold,
		"poll", s.PollInterval(),
	)
	for {
		delay := l.guardedTick(ctx)
		select {
		case <-ctx.Done():
			l.logger.Info("watch loop stopped")
			return nil
		case <-time.After(delay):
		}
	}
}

func (l *Loop) guardedTick(ctx context.Context) (delay time.Duration) {
	delay = l.Settings().PollInterval()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("tick panicked", "panic", r)
		}
	}()
	return l.Tick(ctx)
}

// Tick evaluates one poll: read telemetry, fire on threshold crossings,
// publish a snapshot. It returns the delay before the next tick, which is
// the short backoff when telemetry is unavailable and the poll interval
// otherwise.
func (l *Loop) Tick(ctx context.Context) time.Duration {
	settings := l.Settings()

	sample, err := l.reader.Read()
	if err != nil {
		l.logger.Error("battery read failed", "error", err)
		return backoffDelay(settings)
	}
	if sample == nil {
		l.logger.Debug("no battery present, retrying")
		return backoffDelay(settings)
	}

	now := time.Now().UTC()

	l.mu.Lock()
	var toFire *alerts.Alert
	switch {
	case !sample.Charging && sample.Percent <= settings.LowThreshold:
		if l.state != model.StateLow {
			l.state = model.StateLow
			a := alerts.LowBattery(sample.Percent)
			toFire = &a
		}
	case sample.Charging && sample.Percent >= settings.HighThreshold:
		if l.state != model.StateHigh {
			l.state = model.StateHigh
			a := alerts.HighBattery(sample.Percent)
			toFire = &a
		}
	default:
		// Neutral band: re-arm both alerts without firing.
		l.state = model.StateNone
	}
	state := l.state

	rate := 0.0
	var remaining time.Duration
	if l.prev != nil {
		rate = ChargeRate(*l.prev, *sample, now.Sub(l.prevAt))
		remaining = RemainingTime(sample.Percent, sample.Charging, rate)
	}
	l.prev = sample
	l.prevAt = now
	l.mu.Unlock()

	// Dispatch outside the lock; delivery blocks the tick, not readers.
	if toFire != nil {
		l.fire(ctx, *toFire)
	}

	l.snapshot.Store(&model.Snapshot{
		Sample:           sample,
		State:            state,
		RatePerHour:      rate,
		RemainingSeconds: int64(remaining / time.Second),
		PolledAt:         now,
	})

	l.recordSample(ctx, sample, now)
	return settings.PollInterval()
}

// fire dispatches the alert and records it. A dispatch failure is logged
// only; the state transition has already happened, so the condition will
// not re-fire while it persists.
func (l *Loop) fire(ctx context.Context, alert alerts.Alert) {
	l.logger.Warn("battery threshold crossed",
		"level", alert.Level,
		"percent", alert.Percent,
		"charging", alert.Charging,
	)
	if err := l.dispatcher.Dispatch(ctx, alert); err != nil {
		l.logger.Error("dispatch alert", "level", alert.Level, "error", err)
	}
	if l.store == nil {
		return
	}
	event := model.AlertEvent{
		ID:        alert.ID,
		Level:     string(alert.Level),
		Percent:   alert.Percent,
		Charging:  alert.Charging,
		Title:     alert.Title,
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt,
	}
	if err := l.store.SaveAlert(ctx, event); err != nil {
		l.logger.Error("record alert", "error", err)
	}
}

func (l *Loop) recordSample(ctx context.Context, sample *model.BatterySample, at time.Time) {
	if l.store == nil {
		return
	}
	rec := model.SampleRecord{
		Percent:    sample.Percent,
		Charging:   sample.Charging,
		State:      sample.State,
		RecordedAt: at,
	}
	if err := l.store.SaveSample(ctx, rec); err != nil {
		l.logger.Error("record sample", "error", err)
	}
}

func backoffDelay(settings model.Settings) time.Duration {
	if d := settings.PollInterval(); d < unavailableBackoff {
		return d
	}
	return unavailableBackoff
}
