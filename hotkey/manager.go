package hotkey

import (
	"maps"
	"sync"

	"snip/log"
)

// Registration ids. Native ids are provider-private; these are the stable
// string ids the orchestrator owns.
const (
	IDCaptureRegion = "capture_region"
	IDOpenSettings  = "open_settings"
	IDCancelCapture = "cancel_capture"
)

// Built-in gestures used when settings carry none.
var (
	DefaultCaptureRegion = FromChar(ModAlt, 'A')
	DefaultOpenSettings  = FromChar(ModAlt, 'O')
	cancelGesture        = FromNamedKey(ModNone, KeyEscape)
)

// Settings is the settings collaborator boundary: configured gestures plus a
// change notification.
type Settings interface {
	CaptureRegion() (Gesture, bool)
	OpenSettings() (Gesture, bool)
	OnChange(func())
}

// Session is the capture-session collaborator boundary.
type Session interface {
	Start() error
	CloseCurrent()
	Active() bool
}

// ManagerConfig wires the orchestrator's collaborators.
type ManagerConfig struct {
	Provider Provider
	Monitor  LayoutMonitor // optional
	Settings Settings
	Session  Session
	Dispatch Dispatch
	// OpenSettingsUI is invoked on the UI thread when the open-settings
	// chord fires.
	OpenSettingsUI func()
}

// Manager owns the active provider and keeps registrations in sync with
// settings and keyboard-layout changes. The transient cancel chord lives only
// while a capture session is active.
type Manager struct {
	provider       Provider
	monitor        LayoutMonitor
	settings       Settings
	session        Session
	dispatch       Dispatch
	openSettingsUI func()

	mu        sync.Mutex
	current   map[string]Gesture
	closed    bool
	watchStop chan struct{}
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		provider:       cfg.Provider,
		monitor:        cfg.Monitor,
		settings:       cfg.Settings,
		session:        cfg.Session,
		dispatch:       cfg.Dispatch,
		openSettingsUI: cfg.OpenSettingsUI,
		watchStop:      make(chan struct{}),
	}
}

// Initialize checks platform support, performs the initial full reload and
// starts watching settings and layout changes. Unsupported platforms are a
// logged no-op, not an error.
func (m *Manager) Initialize() error {
	if !m.provider.Supported() {
		log.Warn("global hotkeys not supported on this platform")
		return nil
	}
	if !m.provider.HasPermissions() {
		log.Warn("no permission to register global hotkeys")
		return nil
	}
	if m.settings != nil {
		m.settings.OnChange(m.Reload)
	}
	if m.monitor != nil {
		go m.watchLayout()
	}
	m.Reload()
	return nil
}

// Reload re-reads the configured gestures and re-registers everything. A
// reload that leaves the gesture set value-equal changes nothing observable
// and skips the native churn. Layout monitoring runs only while at least one
// configured gesture is character-based.
func (m *Manager) Reload() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	next := m.configured()
	unchanged := maps.Equal(next, m.current)
	m.current = next
	m.mu.Unlock()

	if !unchanged {
		m.provider.UnregisterAll()
		for id, g := range next {
			if !m.provider.Register(id, g, m.callbackFor(id)) {
				log.Warnf("hotkey %s (%s) inactive", id, g.DisplayString())
			}
		}
		if m.session != nil && m.session.Active() {
			m.RegisterCancelHotkey()
		}
	}
	m.syncMonitor(next)
}

func (m *Manager) configured() map[string]Gesture {
	gestures := map[string]Gesture{
		IDCaptureRegion: DefaultCaptureRegion,
		IDOpenSettings:  DefaultOpenSettings,
	}
	if m.settings != nil {
		if g, ok := m.settings.CaptureRegion(); ok {
			gestures[IDCaptureRegion] = g
		}
		if g, ok := m.settings.OpenSettings(); ok {
			gestures[IDOpenSettings] = g
		}
	}
	return gestures
}

func (m *Manager) callbackFor(id string) func() {
	switch id {
	case IDCaptureRegion:
		return m.onCaptureRegion
	case IDOpenSettings:
		return m.onOpenSettings
	default:
		return func() {}
	}
}

// onCaptureRegion runs on the UI thread. Re-entrant triggers while a session
// is already active are ignored. The cancel chord is registered off-thread:
// on macOS a provider call from the UI thread would block the loop it needs.
func (m *Manager) onCaptureRegion() {
	if m.session == nil || m.session.Active() {
		return
	}
	m.dispatch(func() {
		if err := m.session.Start(); err != nil {
			log.Warnf("capture session: %v", err)
			return
		}
		// A session can finish inside Start (non-interactive overlays);
		// no cancel chord then.
		if m.session.Active() {
			go m.RegisterCancelHotkey()
		}
	})
}

func (m *Manager) onOpenSettings() {
	if m.openSettingsUI != nil {
		m.dispatch(m.openSettingsUI)
	}
}

func (m *Manager) onCancel() {
	if m.session != nil {
		m.session.CloseCurrent()
	}
	go m.UnregisterCancelHotkey()
}

// RegisterCancelHotkey reserves Escape for the duration of a capture session
// rather than holding it permanently.
func (m *Manager) RegisterCancelHotkey() bool {
	return m.provider.Register(IDCancelCapture, cancelGesture, m.onCancel)
}

func (m *Manager) UnregisterCancelHotkey() bool {
	return m.provider.Unregister(IDCancelCapture)
}

// TriggerCapture starts a capture as if the chord had fired, for tray menus.
func (m *Manager) TriggerCapture() {
	m.onCaptureRegion()
}

// TriggerOpenSettings opens the settings UI as if the chord had fired.
func (m *Manager) TriggerOpenSettings() {
	m.onOpenSettings()
}

func (m *Manager) watchLayout() {
	for {
		select {
		case <-m.monitor.Changes():
			m.onLayoutChange()
		case <-m.watchStop:
			return
		}
	}
}

// onLayoutChange re-resolves character gestures only; named keys are
// layout-invariant and re-touching them is wasted work.
func (m *Manager) onLayoutChange() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	gestures := maps.Clone(m.current)
	m.mu.Unlock()

	for id, g := range gestures {
		if !g.IsChar() {
			continue
		}
		if !m.provider.Register(id, g, m.callbackFor(id)) {
			log.Warnf("hotkey %s (%s) lost after layout change", id, g.DisplayString())
		}
	}
}

func (m *Manager) syncMonitor(gestures map[string]Gesture) {
	if m.monitor == nil {
		return
	}
	anyChar := false
	for _, g := range gestures {
		if g.IsChar() {
			anyChar = true
			break
		}
	}
	switch {
	case anyChar && !m.monitor.Monitoring():
		if err := m.monitor.Start(); err != nil {
			log.Warnf("layout monitor: %v", err)
		}
	case !anyChar && m.monitor.Monitoring():
		m.monitor.Stop()
	}
}

// Close is idempotent; it stops monitoring and tears down the provider.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.watchStop)
	m.mu.Unlock()

	if m.monitor != nil {
		m.monitor.Stop()
	}
	return m.provider.Close()
}
