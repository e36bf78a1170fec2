package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/checktree/pkg/debug"
)

// DefaultPollInterval is the polling interval in fallback mode.
const DefaultPollInterval = 2 * time.Second

// ForcePollEnv forces polling mode when set to a true value.
const ForcePollEnv = "CHECKTREE_FORCE_POLL"

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce window.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback run after a debounced change.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback run on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll uses polling even when fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

type fileStat struct {
	mtime time.Time
	size  int64
}

// Watcher monitors a set of files. Changes to any of them are coalesced
// into one notification.
type Watcher struct {
	paths            []string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
	polling   bool
	stats     map[string]fileStat

	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// New creates a watcher for paths. Stdin ("-") is skipped.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
		stats:            make(map[string]fileStat),
	}
	for _, p := range paths {
		if p == "-" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		w.paths = append(w.paths, abs)
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = newDebouncer(w.debounceDuration, w.notifyChange)
	return w, nil
}

// Start begins watching until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	ctx, w.cancel = context.WithCancel(ctx)

	for _, p := range w.paths {
		info, err := os.Stat(p)
		switch {
		case err == nil:
			w.stats[p] = fileStat{mtime: info.ModTime(), size: info.Size()}
		case os.IsPermission(err):
			w.cancel()
			return ErrPermission
		default:
			w.stats[p] = fileStat{}
		}
	}

	w.polling = w.forcePoll || envBool(ForcePollEnv)
	if !w.polling {
		if err := w.startFsnotify(ctx); err != nil {
			debug.Log("watcher: fsnotify unavailable, polling: %v", err)
			w.polling = true
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	w.started = true
	return nil
}

// startFsnotify watches the directories of every path. Watching the
// directory keeps working across editors that save by rename.
func (w *Watcher) startFsnotify(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return err
		}
		dirs[dir] = true
	}
	w.fsWatcher = fsw
	go w.watchFsnotify(ctx, fsw)
	return nil
}

// Stop stops watching. The change channel stays open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives after each debounced change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Paths returns the watched absolute paths.
func (w *Watcher) Paths() []string {
	return w.paths
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func (w *Watcher) watched(name string) bool {
	for _, p := range w.paths {
		if p == name {
			return true
		}
	}
	return false
}

func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.watched(name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.poll() {
				w.debouncer.Trigger()
			}
		}
	}
}

// poll stats every path and reports whether any changed.
func (w *Watcher) poll() bool {
	changed := false
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			w.mu.RLock()
			hadFile := !w.stats[p].mtime.IsZero()
			w.mu.RUnlock()
			switch {
			case os.IsNotExist(err):
				if hadFile {
					w.onError(ErrFileRemoved)
				}
			case os.IsPermission(err):
				w.onError(ErrPermission)
			default:
				w.onError(err)
			}
			continue
		}

		w.mu.Lock()
		prev := w.stats[p]
		if info.ModTime().After(prev.mtime) || info.Size() != prev.size {
			w.stats[p] = fileStat{mtime: info.ModTime(), size: info.Size()}
			changed = true
		}
		w.mu.Unlock()
	}
	return changed
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
