package hotkey

import (
	"sync"
	"time"

	"snip/log"
)

// LayoutMonitor detects keyboard layout switches so character-based gestures
// can be re-resolved. The orchestrator runs it only while at least one
// configured gesture is character-based; for named-key-only configurations it
// is pure overhead.
type LayoutMonitor interface {
	Start() error
	Stop()
	Monitoring() bool
	Changes() <-chan struct{}
}

// NewLayoutMonitor returns the layout monitor for the current platform, or
// nil when none is available.
func NewLayoutMonitor(p Provider) LayoutMonitor {
	return newLayoutMonitor(p)
}

// eventMonitor adapts a provider-pushed layout-change channel (Windows: the
// OS posts a message to the hotkey window, no polling needed).
type eventMonitor struct {
	src <-chan struct{}

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	changes chan struct{}
}

func newEventMonitor(src <-chan struct{}) *eventMonitor {
	return &eventMonitor{
		src:     src,
		changes: make(chan struct{}, 1),
	}
}

func (m *eventMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	m.running = true
	m.stop = make(chan struct{})
	// A push buffered while stopped is stale; drop it so Start does not
	// fire an immediate re-registration.
	select {
	case <-m.src:
	default:
	}
	go m.forward(m.stop)
	return nil
}

func (m *eventMonitor) forward(stop chan struct{}) {
	for {
		select {
		case <-m.src:
			log.LayoutChange()
			select {
			case m.changes <- struct{}{}:
			default:
			}
		case <-stop:
			return
		}
	}
}

func (m *eventMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
}

func (m *eventMonitor) Monitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *eventMonitor) Changes() <-chan struct{} { return m.changes }

// pollMonitor compares a stable layout identifier at a fixed interval and
// fires when it changes, debounced. Repeated poll errors disable monitoring
// entirely so an unusable layout API cannot spam the log.
type pollMonitor struct {
	pollID   func() (string, error)
	interval time.Duration
	debounce time.Duration
	maxErrs  int

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	changes  chan struct{}
	lastID   string
	lastFire time.Time
}

func newPollMonitor(pollID func() (string, error), interval, debounce time.Duration, maxErrs int) *pollMonitor {
	return &pollMonitor{
		pollID:   pollID,
		interval: interval,
		debounce: debounce,
		maxErrs:  maxErrs,
		changes:  make(chan struct{}, 1),
	}
}

func (m *pollMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	id, err := m.pollID()
	if err == nil {
		m.lastID = id
	}
	m.running = true
	m.stop = make(chan struct{})
	go m.loop(m.stop)
	return nil
}

func (m *pollMonitor) loop(stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	errs := 0
	for {
		select {
		case <-ticker.C:
			id, err := m.pollID()
			if err != nil {
				errs++
				if errs >= m.maxErrs {
					log.MonitorDisabled(errs)
					m.disable(stop)
					return
				}
				continue
			}
			errs = 0
			m.observe(id)
		case <-stop:
			return
		}
	}
}

func (m *pollMonitor) observe(id string) {
	m.mu.Lock()
	changed := id != m.lastID
	debounced := time.Since(m.lastFire) >= m.debounce
	m.lastID = id
	if changed && debounced {
		m.lastFire = time.Now()
	}
	m.mu.Unlock()

	if changed && debounced {
		log.LayoutChange()
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
}

// disable self-stops after persistent poll failures; Start() rearms.
func (m *pollMonitor) disable(stop chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running && m.stop == stop {
		m.running = false
	}
}

func (m *pollMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
}

func (m *pollMonitor) Monitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *pollMonitor) Changes() <-chan struct{} { return m.changes }
