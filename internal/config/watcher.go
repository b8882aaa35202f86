package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"battnotify/pkg/model"
)

// Editors and Save itself replace the file via rename, so watching the
// parent directory is the only reliable way to keep receiving events.
const watchDebounce = 250 * time.Millisecond

// Watch blocks until ctx is done, invoking onChange with freshly loaded
// settings after the file settles following a change. Events that load to
// identical settings are suppressed. The returned error reports watcher
// setup failure only; callers treat it as a degrade to the startup snapshot.
func (s *Store) Watch(ctx context.Context, log *slog.Logger, onChange func(model.Settings)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		pending *time.Timer
		last    = s.Load()
	)
	fire := func() {
		cur := s.Load()
		mu.Lock()
		changed := cur != last
		last = cur
		mu.Unlock()
		if !changed {
			return
		}
		log.Info("settings reloaded", "path", s.path)
		onChange(cur)
	}

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			mu.Unlock()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(watchDebounce, fire)
			mu.Unlock()
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("settings watcher error", "error", werr)
		}
	}
}
