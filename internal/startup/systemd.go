package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const unitName = "battnotify.service"

// Systemd manages a per-user unit under ~/.config/systemd/user, enabled
// and disabled through systemctl --user.
type Systemd struct {
	unitPath string
	execPath string
	run      func(ctx context.Context, args ...string) (string, error)
}

// NewSystemd returns the systemd-user backend. It fails when systemctl is
// not on PATH so Detect can fall through to the next backend.
func NewSystemd() (*Systemd, error) {
	if _, err := exec.LookPath("systemctl"); err != nil {
		return nil, fmt.Errorf("systemctl not found: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &Systemd{
		unitPath: filepath.Join(home, ".config", "systemd", "user", unitName),
		execPath: execPath,
		run:      runSystemctl,
	}, nil
}

func runSystemctl(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "systemctl", append([]string{"--user"}, args...)...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (s *Systemd) Name() string { return "systemd" }

// Enable writes the unit file and enables it for the login session.
func (s *Systemd) Enable(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.unitPath), 0o755); err != nil {
		return fmt.Errorf("mkdir unit dir: %w", err)
	}
	if err := os.WriteFile(s.unitPath, []byte(renderUnit(s.execPath)), 0o644); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}
	for _, args := range [][]string{{"daemon-reload"}, {"enable", unitName}} {
		if out, err := s.run(ctx, args...); err != nil {
			return fmt.Errorf("systemctl --user %s: %w (%s)", strings.Join(args, " "), err, out)
		}
	}
	return nil
}

// Disable disables the unit and removes the file. A missing unit counts as
// already disabled.
func (s *Systemd) Disable(ctx context.Context) error {
	if _, err := os.Stat(s.unitPath); os.IsNotExist(err) {
		return nil
	}
	if out, err := s.run(ctx, "disable", unitName); err != nil {
		return fmt.Errorf("systemctl --user disable: %w (%s)", err, out)
	}
	if err := os.Remove(s.unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove unit file: %w", err)
	}
	if out, err := s.run(ctx, "daemon-reload"); err != nil {
		return fmt.Errorf("systemctl --user daemon-reload: %w (%s)", err, out)
	}
	return nil
}

// Enabled reports whether the unit is enabled for the login session.
func (s *Systemd) Enabled(ctx context.Context) (bool, error) {
	// is-enabled exits non-zero when disabled; the printed state is
	// authoritative either way.
	out, _ := s.run(ctx, "is-enabled", unitName)
	return out == "enabled", nil
}

func renderUnit(execPath string) string {
	return fmt.Sprintf(`[Unit]
Description=Battery charge monitor
After=graphical-session.target

[Service]
Type=simple
ExecStart=%s watch
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`, execPath)
}
