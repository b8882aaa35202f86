package alerts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battnotify/pkg/alerts"
)

type fakeNotifier struct {
	name string
	err  error
	sent []alerts.Alert
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(_ context.Context, alert alerts.Alert) error {
	f.sent = append(f.sent, alert)
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_FansOut(t *testing.T) {
	a := &fakeNotifier{name: "a"}
	b := &fakeNotifier{name: "b"}
	d := alerts.NewDispatcher(testLogger(), a, b)

	err := d.Dispatch(context.Background(), alerts.LowBattery(12))
	require.NoError(t, err)
	assert.Len(t, a.sent, 1)
	assert.Len(t, b.sent, 1)
	assert.Equal(t, alerts.AlertLow, a.sent[0].Level)
}

func TestDispatcher_FailureDoesNotStopOthers(t *testing.T) {
	bad := &fakeNotifier{name: "bad", err: errors.New("boom")}
	good := &fakeNotifier{name: "good"}
	d := alerts.NewDispatcher(testLogger(), bad, good)

	err := d.Dispatch(context.Background(), alerts.HighBattery(90))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Len(t, good.sent, 1, "remaining notifiers still receive the alert")
}

func TestDispatcher_Empty(t *testing.T) {
	d := alerts.NewDispatcher(testLogger())
	assert.NoError(t, d.Dispatch(context.Background(), alerts.LowBattery(1)))
	assert.Empty(t, d.Notifiers())
}
