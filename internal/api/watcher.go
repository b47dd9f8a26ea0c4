package api

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/amterp/palette/internal/config"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events a single file write produces.
const debounceDelay = 100 * time.Millisecond

// ChangeType indicates what happened to a color file.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// ColorChange describes a change to a single color file on disk.
type ColorChange struct {
	Type    ChangeType `json:"type"`
	ColorID string     `json:"color_id"`
	Path    string     `json:"path"` // Relative to the data directory
}

// ColorChangeSubscriber receives color change notifications.
type ColorChangeSubscriber interface {
	OnColorChange(change ColorChange)
}

// FileWatcher watches the colors directory and notifies subscribers when
// color files are written or removed, whether by this server or by hand.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	dataDir     string
	mu          sync.RWMutex
	subscribers []ColorChangeSubscriber
	debounce    map[string]*time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool
	running     bool
}

// NewFileWatcher creates a watcher for <dataDir>/colors.
func NewFileWatcher(dataDir string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		dataDir:  dataDir,
		debounce: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber.
func (fw *FileWatcher) Subscribe(sub ColorChangeSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.subscribers = append(fw.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (fw *FileWatcher) Unsubscribe(sub ColorChangeSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for i, s := range fw.subscribers {
		if s == sub {
			fw.subscribers = append(fw.subscribers[:i], fw.subscribers[i+1:]...)
			return
		}
	}
}

// Start begins watching. A stopped watcher cannot be restarted.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("file watcher cannot be restarted after stop")
	}
	fw.running = true
	fw.mu.Unlock()

	colorsDir := filepath.Join(fw.dataDir, config.ColorsDir)
	if err := fw.watcher.Add(colorsDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", colorsDir, err)
	}

	go fw.run()
	return nil
}

// Stop stops watching and cancels pending notifications.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.stopped = true
	fw.mu.Unlock()

	fw.debounceMu.Lock()
	for path, timer := range fw.debounce {
		timer.Stop()
		delete(fw.debounce, path)
	}
	fw.debounceMu.Unlock()

	close(fw.stopCh)
	return fw.watcher.Close()
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-fw.stopCh:
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	// Skip editor swap files and hidden files
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return
	}

	fw.debounceMu.Lock()
	if timer, exists := fw.debounce[event.Name]; exists {
		timer.Stop()
	}
	fw.debounce[event.Name] = time.AfterFunc(debounceDelay, func() {
		fw.emitChange(event)
		fw.debounceMu.Lock()
		delete(fw.debounce, event.Name)
		fw.debounceMu.Unlock()
	})
	fw.debounceMu.Unlock()
}

func (fw *FileWatcher) emitChange(event fsnotify.Event) {
	// A debounce timer may fire after Stop
	fw.mu.RLock()
	if fw.stopped {
		fw.mu.RUnlock()
		return
	}
	subs := make([]ColorChangeSubscriber, len(fw.subscribers))
	copy(subs, fw.subscribers)
	fw.mu.RUnlock()

	change, ok := fw.classifyChange(event)
	if !ok {
		return
	}

	for _, sub := range subs {
		sub.OnColorChange(change)
	}
}

// classifyChange maps an fsnotify event on colors/<id>.json to a ColorChange.
func (fw *FileWatcher) classifyChange(event fsnotify.Event) (ColorChange, bool) {
	relPath, err := filepath.Rel(fw.dataDir, event.Name)
	if err != nil {
		return ColorChange{}, false
	}

	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) != 2 || parts[0] != config.ColorsDir || !strings.HasSuffix(parts[1], ".json") {
		return ColorChange{}, false
	}

	change := ColorChange{
		ColorID: strings.TrimSuffix(parts[1], ".json"),
		Path:    relPath,
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		change.Type = ChangeCreated
	case event.Op&fsnotify.Write != 0:
		change.Type = ChangeModified
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		change.Type = ChangeDeleted
	default:
		return ColorChange{}, false
	}

	return change, true
}
