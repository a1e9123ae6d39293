// Package watch re-ensures cached artifacts when they are deleted or
// truncated on disk, using fsnotify on the cache directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// DefaultDebounce groups bursts of events (a rename is remove + create).
const DefaultDebounce = 500 * time.Millisecond

// DefaultCooldown is how long an artifact that failed integrity checks is
// left alone before file events may trigger another ensure.
const DefaultCooldown = 5 * time.Minute

// Watcher watches the cache directory and repairs registered artifacts.
type Watcher struct {
	cache    driving.CacheManager
	dir      string
	specs    map[string]domain.ArtifactSpec
	debounce time.Duration
	cooldown time.Duration

	mu      sync.Mutex
	pending map[string]struct{}

	// quiet holds, per artifact, the time before which events are dropped.
	// Ensure itself deletes and rewrites files, so its own events must not
	// queue the artifact again.
	quiet map[string]time.Time
}

// New creates a watcher over dir for the artifacts cache knows about.
func New(cache driving.CacheManager, dir string) *Watcher {
	specs := make(map[string]domain.ArtifactSpec)
	for _, spec := range cache.Specs() {
		specs[spec.Name] = spec
	}
	return &Watcher{
		cache:    cache,
		dir:      dir,
		specs:    specs,
		debounce: DefaultDebounce,
		cooldown: DefaultCooldown,
		pending:  make(map[string]struct{}),
		quiet:    make(map[string]time.Time),
	}
}

// Run blocks until ctx is done, re-ensuring artifacts as events arrive.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for %d artifacts", w.dir, len(w.specs))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if name := w.handle(event); name != "" {
				w.mu.Lock()
				w.pending[name] = struct{}{}
				w.mu.Unlock()
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// handle returns the artifact to re-ensure for event, or "" to ignore it.
func (w *Watcher) handle(event fsnotify.Event) string {
	base := filepath.Base(event.Name)

	// Store temp files and other dotfiles.
	if strings.HasPrefix(base, ".") {
		return ""
	}
	spec, ok := w.specs[base]
	if !ok {
		return ""
	}

	name := ""
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		logger.Debug("watch: %s removed", base)
		name = base
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				name = base
			}
			break
		}
		if info.Size() < spec.MinimumValidSize {
			logger.Debug("watch: %s is %d bytes, below %d", base, info.Size(), spec.MinimumValidSize)
			name = base
			break
		}
		// A valid copy ends any cooldown.
		w.mu.Lock()
		delete(w.quiet, base)
		w.mu.Unlock()
	}
	if name == "" || w.isQuiet(name) {
		return ""
	}
	return name
}

// isQuiet reports whether events for name are currently dropped.
func (w *Watcher) isQuiet(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	until, ok := w.quiet[name]
	if !ok {
		return false
	}
	if time.Now().Before(until) {
		logger.Debug("watch: ignoring %s until %s", name, until.Format(time.TimeOnly))
		return true
	}
	delete(w.quiet, name)
	return false
}

// silence drops events for name for d from now.
func (w *Watcher) silence(name string, d time.Duration) {
	w.mu.Lock()
	w.quiet[name] = time.Now().Add(d)
	w.mu.Unlock()
}

// flush ensures every pending artifact in name order.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	names := make([]string, 0, len(w.pending))
	for name := range w.pending {
		names = append(names, name)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(names)
	for _, name := range names {
		res, err := w.cache.Ensure(ctx, name, false)
		if errors.Is(err, domain.ErrIntegrityFailure) {
			// Ensure discarded the undersized copy. Leave it to the
			// revalidate sweep rather than fetching again on that delete.
			w.silence(name, w.cooldown)
			logger.Error("watch: re-ensure %s: %v (pausing for %s)", name, err, w.cooldown)
			continue
		}
		w.silence(name, w.debounce)
		if err != nil {
			logger.Error("watch: re-ensure %s: %v", name, err)
			continue
		}
		logger.Info("watch: %s repaired (%d bytes, %d fetches)", name, res.SizeBytes, res.Fetches)
	}
}
