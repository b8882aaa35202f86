// Package startup registers the watch process to launch at login.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// Manager installs or removes the login-time registration for the watch
// process. All operations are idempotent.
type Manager interface {
	// Name identifies the backend in logs and CLI output.
	Name() string
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	Enabled(ctx context.Context) (bool, error)
}

// Detect picks the best available backend: a systemd user unit when
// systemctl is on PATH, an XDG autostart entry otherwise. Platforms with
// neither get a no-op manager.
func Detect(log *slog.Logger) Manager {
	if runtime.GOOS != "linux" {
		log.Info("startup registration not supported on this platform", "os", runtime.GOOS)
		return Noop{}
	}
	if m, err := NewSystemd(); err == nil {
		return m
	}
	if m, err := NewDesktopEntry(); err == nil {
		return m
	}
	log.Info("no startup registration backend available")
	return Noop{}
}

// Sync reconciles the OS registration with the persisted flag. Nothing
// happens when the state already matches.
func Sync(ctx context.Context, log *slog.Logger, m Manager, want bool) error {
	enabled, err := m.Enabled(ctx)
	if err != nil {
		return fmt.Errorf("query startup registration: %w", err)
	}
	if enabled == want {
		return nil
	}
	if want {
		log.Info("enabling startup registration", "backend", m.Name())
		return m.Enable(ctx)
	}
	log.Info("disabling startup registration", "backend", m.Name())
	return m.Disable(ctx)
}

// Noop satisfies Manager on platforms without a usable backend.
type Noop struct{}

func (Noop) Name() string { return "none" }

func (Noop) Enable(context.Context) error { return nil }

func (Noop) Disable(context.Context) error { return nil }

func (Noop) Enabled(context.Context) (bool, error) { return false, nil }
