package themesync

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for events to settle
const DefaultDebounce = 100 * time.Millisecond

// FileEvent reports a changed file
type FileEvent struct {
	Theme string    `json:"theme"`
	File  string    `json:"file"`
	Op    string    `json:"op"`
	At    time.Time `json:"at"`
}

// WatchOptions configures Watch
type WatchOptions struct {
	Debounce time.Duration // Default DefaultDebounce
}

// Watch reports changes to the CSS files of the active theme and to the
// global stylesheet until ctx is done. Events are debounced: fn receives
// one call per settled burst with every file that changed, sorted by path.
// A theme switch moves the watch to the new theme.
func (e *Engine) Watch(ctx context.Context, opts WatchOptions, fn func([]FileEvent)) error {
	if err := e.gate(); err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	global := e.registry.GlobalCSSPath()
	if err := fsw.Add(filepath.Dir(global)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(global), err)
	}

	active, _ := e.registry.ActiveTheme()
	themeDir := ""
	watchTheme := func(id string) {
		if themeDir != "" {
			_ = fsw.Remove(themeDir)
			themeDir = ""
		}
		if id == "" {
			return
		}
		dir := e.registry.Paths(id).Dir
		if err := fsw.Add(dir); err != nil {
			e.log.Warn("cannot watch theme", map[string]any{"theme": id, "dir": dir, "error": err.Error()})
			return
		}
		themeDir = dir
	}
	watchTheme(active)
	e.log.Info("watching", map[string]any{"theme": active, "global": e.rel(global)})

	var (
		mu      sync.Mutex
		pending = make(map[string]FileEvent)
		timer   *time.Timer
	)
	flush := func() {
		mu.Lock()
		batch := make([]FileEvent, 0, len(pending))
		for _, ev := range pending {
			batch = append(batch, ev)
		}
		pending = make(map[string]FileEvent)
		mu.Unlock()

		if len(batch) == 0 {
			return
		}
		sort.Slice(batch, func(i, j int) bool { return batch[i].File < batch[j].File })
		fn(batch)
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !e.relevant(event.Name, global, themeDir) {
				continue
			}

			// A rewritten global stylesheet may have switched themes
			if event.Name == global {
				if id, err := e.registry.ActiveTheme(); err == nil && id != active {
					active = id
					watchTheme(id)
					e.registry.Invalidate()
				}
			}

			mu.Lock()
			pending[event.Name] = FileEvent{
				Theme: active,
				File:  e.rel(event.Name),
				Op:    strings.ToLower(event.Op.String()),
				At:    time.Now(),
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, flush)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			e.log.Warn("watch error", map[string]any{"error": err.Error()})
		}
	}
}

// relevant keeps the global stylesheet and CSS files of the theme directory,
// ignoring backups and temp files
func (e *Engine) relevant(path, global, themeDir string) bool {
	if path == global {
		return true
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return themeDir != "" && filepath.Dir(path) == themeDir && strings.HasSuffix(base, ".css")
}
