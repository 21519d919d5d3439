// Package settings loads, persists and watches the user configuration file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"

	"snip/hotkey"
	"snip/log"
)

const fileName = "settings.yaml"

// watchDebounce coalesces the editor save dance (truncate, write, rename)
// into a single reload.
const watchDebounce = 100 * time.Millisecond

// File is the on-disk shape of the settings file.
type File struct {
	Hotkeys HotkeysSection `yaml:"hotkeys"`
}

// HotkeysSection holds chords in their textual form, e.g. "alt+a" or
// "ctrl+shift+f2". Empty strings fall back to the built-in defaults.
type HotkeysSection struct {
	CaptureRegion string `yaml:"capture_region"`
	OpenSettings  string `yaml:"open_settings"`
}

// ResolvePath returns the settings file location: an explicit flag value wins,
// then the SNIP_SETTINGS_PATH environment variable, then the OS config dir.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("SNIP_SETTINGS_PATH"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(dir, "snip", fileName)
}

// Store is the live settings state. Parsed gestures are cached so readers
// never pay the parse cost; invalid chords are logged once at load time and
// reported as absent.
type Store struct {
	path string

	mu       sync.Mutex
	file     File
	capture  *hotkey.Gesture
	open     *hotkey.Gesture
	onChange []func()

	watcher   *fsnotify.Watcher
	watchStop chan struct{}
	closeOnce sync.Once
}

// Load reads the settings file at path. A missing file is not an error; it
// yields an empty store that will be materialized by the first Save.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	s.apply(f)
	return s, nil
}

// apply swaps in a freshly parsed file and re-derives the gesture cache.
func (s *Store) apply(f File) {
	s.mu.Lock()
	s.file = f
	s.capture = parseChord("capture_region", f.Hotkeys.CaptureRegion)
	s.open = parseChord("open_settings", f.Hotkeys.OpenSettings)
	s.mu.Unlock()
}

func parseChord(name, raw string) *hotkey.Gesture {
	if raw == "" {
		return nil
	}
	g, err := hotkey.ParseGesture(raw)
	if err != nil {
		log.Warnf("settings: %s chord %q: %v", name, raw, err)
		return nil
	}
	return &g
}

// Path returns where the store reads and writes its file.
func (s *Store) Path() string { return s.path }

// CaptureRegion implements hotkey.Settings.
func (s *Store) CaptureRegion() (hotkey.Gesture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capture == nil {
		return hotkey.Gesture{}, false
	}
	return *s.capture, true
}

// OpenSettings implements hotkey.Settings.
func (s *Store) OpenSettings() (hotkey.Gesture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil {
		return hotkey.Gesture{}, false
	}
	return *s.open, true
}

// HotkeyStrings returns the raw chord strings as stored, for editing UIs.
func (s *Store) HotkeyStrings() (captureRegion, openSettings string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Hotkeys.CaptureRegion, s.file.Hotkeys.OpenSettings
}

// OnChange registers a callback fired after every successful reload or Save.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), len(s.onChange))
	copy(fns, s.onChange)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// SetHotkeys updates the chord strings and persists the file. Callbacks fire
// after the write so watchers see the state they can also read back.
func (s *Store) SetHotkeys(captureRegion, openSettings string) error {
	s.mu.Lock()
	f := s.file
	s.mu.Unlock()
	f.Hotkeys.CaptureRegion = captureRegion
	f.Hotkeys.OpenSettings = openSettings
	s.apply(f)
	if err := s.Save(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Save writes the current state to disk, creating parent directories as
// needed. The write goes through a temp file and rename so a crash never
// leaves a half-written settings file.
func (s *Store) Save() error {
	s.mu.Lock()
	f := s.file
	s.mu.Unlock()

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Watch reloads the store when the file changes on disk. External edits go
// live without a restart. Returns an error if the directory cannot be
// watched; the store still works, it just will not pick up outside edits.
func (s *Store) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	// Watch the directory, not the file: editors replace files by rename
	// and a file watch dies with the old inode.
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		w.Close()
		return fmt.Errorf("settings dir: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("settings watcher: %w", err)
	}
	s.watcher = w
	s.watchStop = make(chan struct{})
	go s.watchLoop()
	return nil
}

func (s *Store) watchLoop() {
	var pending *time.Timer
	var pendingC <-chan time.Time
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != fileName {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(watchDebounce)
				pendingC = pending.C
			} else {
				pending.Reset(watchDebounce)
			}
		case <-pendingC:
			pending = nil
			pendingC = nil
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("settings watcher: %v", err)
		case <-s.watchStop:
			return
		}
	}
}

func (s *Store) reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("settings reload: %v", err)
		}
		return
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		// Keep the last good state; a half-saved edit fixes itself on
		// the next write event.
		log.Warnf("settings reload: %v", err)
		return
	}
	s.apply(f)
	log.Info("settings reloaded")
	s.notify()
}

// Close stops the watcher. Idempotent.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			close(s.watchStop)
			s.watcher.Close()
		}
	})
}
