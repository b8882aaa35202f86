package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battnotify/internal/config"
	"battnotify/internal/startup"
)

type fakeLoginManager struct {
	enabled  bool
	enables  int
	disables int
	fail     error
}

func (m *fakeLoginManager) Name() string { return "fake" }

func (m *fakeLoginManager) Enable(context.Context) error {
	m.enables++
	if m.fail != nil {
		return m.fail
	}
	m.enabled = true
	return nil
}

func (m *fakeLoginManager) Disable(context.Context) error {
	m.disables++
	if m.fail != nil {
		return m.fail
	}
	m.enabled = false
	return nil
}

func (m *fakeLoginManager) Enabled(context.Context) (bool, error) { return m.enabled, nil }

// runScript feeds a scripted session to the editor against a fresh store
// and returns the store and everything printed.
func runScript(t *testing.T, script string, mgr startup.Manager) (*config.Store, string) {
	t.Helper()

	store := config.NewStore(filepath.Join(t.TempDir(), "config.yaml"))
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := runEditor(context.Background(), strings.NewReader(script), &out, store, mgr, logger)
	require.NoError(t, err)
	return store, out.String()
}

func TestEditor_SaveFlow(t *testing.T) {
	mgr := &fakeLoginManager{enabled: true}
	store, out := runScript(t, "15\n85\n120\nno\n\n", mgr)

	saved := store.Load()
	assert.Equal(t, 15, saved.LowThreshold)
	assert.Equal(t, 85, saved.HighThreshold)
	assert.Equal(t, 120, saved.PollSeconds)
	assert.False(t, saved.StartWithLogin)

	assert.Contains(t, out, "Settings saved to")
	assert.Equal(t, 1, mgr.disables)
	assert.Zero(t, mgr.enables)
}

func TestEditor_ClampsOutOfRange(t *testing.T) {
	mgr := &fakeLoginManager{enabled: true}
	store, out := runScript(t, "150\n90\n1\n\n\n", mgr)

	saved := store.Load()
	assert.Equal(t, 100, saved.LowThreshold)
	assert.Equal(t, 90, saved.HighThreshold)
	assert.Equal(t, 5, saved.PollSeconds)

	assert.Contains(t, out, "Lowered to the maximum of 100.")
	assert.Contains(t, out, "Raised to the minimum of 5.")
	assert.Zero(t, mgr.enables)
	assert.Zero(t, mgr.disables)
}

func TestEditor_RetriesOnJunkInput(t *testing.T) {
	store, out := runScript(t, "abc\n25\n\n\n\n\n", &fakeLoginManager{enabled: true})

	assert.Contains(t, out, `"abc" is not a whole number.`)
	assert.Equal(t, 25, store.Load().LowThreshold)
}

func TestEditor_CancelSavesNothing(t *testing.T) {
	mgr := &fakeLoginManager{enabled: true}
	store, out := runScript(t, "\n\n\n\nno\ncancel\n", mgr)

	saved := store.Load()
	assert.Equal(t, config.Defaults(), saved)
	assert.Contains(t, out, "No changes saved.")
	assert.Zero(t, mgr.enables)
	assert.Zero(t, mgr.disables)
}

func TestEditor_ReviewEditsSingleField(t *testing.T) {
	store, _ := runScript(t, "\n\n\n\n2\n55\n\n", &fakeLoginManager{enabled: true})

	saved := store.Load()
	assert.Equal(t, 55, saved.HighThreshold)
	assert.Equal(t, 20, saved.LowThreshold)
}

func TestEditor_EnableOnToggle(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "config.yaml"))
	loginOff := config.Defaults()
	loginOff.StartWithLogin = false
	require.NoError(t, store.Save(loginOff))

	mgr := &fakeLoginManager{}
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := runEditor(context.Background(), strings.NewReader("\n\n\nyes\n\n"), &out, store, mgr, logger)

	require.NoError(t, err)
	assert.True(t, store.Load().StartWithLogin)
	assert.Equal(t, 1, mgr.enables)
	assert.Zero(t, mgr.disables)
}

func TestEditor_StartupFailureKeepsSavedFile(t *testing.T) {
	mgr := &fakeLoginManager{enabled: true, fail: errors.New("systemctl missing")}
	store, out := runScript(t, "\n\n\n\nno\n\n", mgr)

	assert.False(t, store.Load().StartWithLogin)
	assert.Contains(t, out, "Could not update startup registration")
	assert.Equal(t, 1, mgr.disables)
}

func TestEditor_EOFAcceptsDefaults(t *testing.T) {
	mgr := &fakeLoginManager{enabled: true}
	store, out := runScript(t, "", mgr)

	assert.Equal(t, config.Defaults(), store.Load())
	assert.Contains(t, out, "Settings saved to")
	assert.Zero(t, mgr.enables)
	assert.Zero(t, mgr.disables)
}

func TestEditor_TestWithoutBackends(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "config.yaml"))
	desktopOff := config.Defaults()
	desktopOff.NotifyDesktop = false
	require.NoError(t, store.Save(desktopOff))

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := runEditor(context.Background(), strings.NewReader("\n\n\n\ntest\ncancel\n"), &out, store, &fakeLoginManager{enabled: true}, logger)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No notification backends configured.")
}

func TestResolveTheme_NonTerminal(t *testing.T) {
	theme := resolveTheme(&bytes.Buffer{})

	assert.False(t, theme.enabled)
	assert.Equal(t, "plain", theme.paint(theme.accent, "plain"))
}
