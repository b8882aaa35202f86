package config_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battnotify/internal/config"
	"battnotify/pkg/model"
)

func TestWatch_DeliversChange(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(config.Defaults()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan model.Settings, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, discardLogger(), func(ns model.Settings) {
			changes <- ns
		})
	}()

	// Give the watcher a moment to register before mutating the file.
	time.Sleep(100 * time.Millisecond)

	next := config.Defaults()
	next.LowThreshold = 33
	require.NoError(t, s.Save(next))

	select {
	case got := <-changes:
		assert.Equal(t, 33, got.LowThreshold)
	case <-time.After(5 * time.Second):
		t.Fatal("no settings change delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_SuppressesNoopRewrite(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(config.Defaults()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan model.Settings, 4)
	go func() {
		_ = s.Watch(ctx, discardLogger(), func(ns model.Settings) {
			changes <- ns
		})
	}()
	time.Sleep(100 * time.Millisecond)

	// Rewriting identical settings must not invoke the callback.
	require.NoError(t, s.Save(config.Defaults()))

	select {
	case got := <-changes:
		t.Fatalf("unexpected change delivered: %+v", got)
	case <-time.After(1 * time.Second):
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
