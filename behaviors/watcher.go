package behaviors

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher owns the fsnotify handle and debounce bookkeeping for one
// Plugin. Grounded directly on the teacher's FileWatcher (cmd/dive/cli/
// watch.go): the Events/Errors select loop, the addRecursiveWatch walk,
// and the per-path debounce map all carry over unchanged in shape; only
// the action taken on a settled change differs (there: trigger an LLM
// turn; here: call onChange so the Plugin can log a reload against the
// owning entity).
type fileWatcher struct {
	watcher   *fsnotify.Watcher
	matcher   *matcher
	debounce  time.Duration
	onChange  func(path string)
	mu        sync.Mutex
	lastEvent map[string]time.Time
}

func newFileWatcher(cfg Config, m *matcher, onChange func(path string)) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &fileWatcher{
		watcher:   w,
		matcher:   m,
		debounce:  cfg.Debounce,
		onChange:  onChange,
		lastEvent: map[string]time.Time{},
	}, nil
}

// addRecursiveWatch mirrors the teacher's addRecursiveWatch: it walks
// root and registers every directory (fsnotify has no native recursive
// mode) so changes anywhere beneath root surface as events.
func (fw *fileWatcher) addRecursiveWatch(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = fw.watcher.Add(path)
		}
		return nil
	})
}

// run drains the watcher's Events/Errors channels until stop is closed.
func (fw *fileWatcher) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (fw *fileWatcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !fw.matcher.matches(event.Name) {
		return
	}

	fw.mu.Lock()
	now := time.Now()
	if last, ok := fw.lastEvent[event.Name]; ok && now.Sub(last) < fw.debounce {
		fw.mu.Unlock()
		return
	}
	fw.lastEvent[event.Name] = now
	fw.mu.Unlock()

	fw.onChange(event.Name)
}

func (fw *fileWatcher) close() error {
	return fw.watcher.Close()
}
