package startup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DesktopEntry manages an XDG autostart entry, the fallback for sessions
// without a user systemd.
type DesktopEntry struct {
	path     string
	execPath string
}

// NewDesktopEntry returns the XDG autostart backend.
func NewDesktopEntry() (*DesktopEntry, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &DesktopEntry{
		path:     filepath.Join(dir, "autostart", "battnotify.desktop"),
		execPath: execPath,
	}, nil
}

func (d *DesktopEntry) Name() string { return "xdg-autostart" }

func (d *DesktopEntry) Enable(context.Context) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("mkdir autostart dir: %w", err)
	}
	if err := os.WriteFile(d.path, []byte(renderDesktopEntry(d.execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (d *DesktopEntry) Disable(context.Context) error {
	if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func (d *DesktopEntry) Enabled(context.Context) (bool, error) {
	if _, err := os.Stat(d.path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat desktop entry: %w", err)
	}
	return true, nil
}

func renderDesktopEntry(execPath string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=battnotify
Comment=Battery charge monitor
Exec=%s watch
X-GNOME-Autostart-enabled=true
`, execPath)
}
