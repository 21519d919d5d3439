// Package session runs one region-capture interaction at a time: show the
// overlay, let the user drag out a region, capture it, export the result.
package session

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"snip/log"
)

// Region is a screen rectangle in global coordinates.
type Region struct {
	X, Y, W, H int
}

// Overlay is the region-selection surface. Show hands over two callbacks:
// exactly one of them fires, on the UI thread, when the interaction ends.
type Overlay interface {
	Show(onSelect func(Region), onCancel func())
	Hide()
}

// Capturer grabs the pixels for a region and returns the written file path.
type Capturer func(Region) (string, error)

// Config wires a Controller. Export defaults to copying the capture path to
// the system clipboard.
type Config struct {
	Overlay Overlay
	Capture Capturer
	Export  func(path string) error
	// OnClosed fires after every session ends, cancelled or not.
	OnClosed func(cancelled bool)
}

// Controller owns the at-most-one active session invariant. It implements
// the hotkey package's Session boundary.
type Controller struct {
	overlay  Overlay
	capture  Capturer
	export   func(string) error
	onClosed func(bool)

	mu     sync.Mutex
	active bool
	id     string
}

func New(cfg Config) *Controller {
	export := cfg.Export
	if export == nil {
		export = clipboard.WriteAll
	}
	return &Controller{
		overlay:  cfg.Overlay,
		capture:  cfg.Capture,
		export:   export,
		onClosed: cfg.OnClosed,
	}
}

// Start begins a capture session. A second Start while one is active is an
// error; callers guard against it but the invariant lives here.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return errors.New("capture session already active")
	}
	c.active = true
	c.id = uuid.NewString()
	id := c.id
	c.mu.Unlock()

	log.SessionStart(id)
	c.overlay.Show(c.onSelect, c.onCancel)
	return nil
}

// onSelect runs on the UI thread when the user completes a selection.
func (c *Controller) onSelect(r Region) {
	if !c.Active() {
		return
	}
	c.overlay.Hide()
	path, err := c.capture(r)
	if err != nil {
		log.Errorf("capture failed: %v", err)
		c.close(true)
		return
	}
	if err := c.export(path); err != nil {
		log.Warnf("clipboard export: %v", err)
	}
	log.Infof("captured %s", path)
	c.close(false)
}

func (c *Controller) onCancel() {
	c.CloseCurrent()
}

// CloseCurrent cancels the active session. No-op when none is active, so the
// cancel hotkey firing after a natural finish is harmless.
func (c *Controller) CloseCurrent() {
	if !c.Active() {
		return
	}
	c.overlay.Hide()
	c.close(true)
}

func (c *Controller) close(cancelled bool) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	id := c.id
	c.mu.Unlock()

	log.SessionEnd(id, cancelled)
	if c.onClosed != nil {
		c.onClosed(cancelled)
	}
}

// Active implements the session boundary the hotkey manager consumes.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ID returns the current session id, empty when idle.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return ""
	}
	return c.id
}
