package hotkey

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeInputSource struct {
	mu   sync.Mutex
	id   string
	err  error
}

func (s *fakeInputSource) poll() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.id, nil
}

func (s *fakeInputSource) set(id string) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

func (s *fakeInputSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func waitChange(t *testing.T, m LayoutMonitor) {
	t.Helper()
	select {
	case <-m.Changes():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for layout change")
	}
}

func expectNoChange(t *testing.T, m LayoutMonitor, d time.Duration) {
	t.Helper()
	select {
	case <-m.Changes():
		t.Fatal("unexpected layout change")
	case <-time.After(d):
	}
}

func TestPollMonitorFiresOnIDChange(t *testing.T) {
	src := &fakeInputSource{id: "com.apple.keylayout.US"}
	m := newPollMonitor(src.poll, 5*time.Millisecond, 0, 3)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	expectNoChange(t, m, 30*time.Millisecond)

	src.set("com.apple.keylayout.German")
	waitChange(t, m)

	// Same id again: nothing further.
	expectNoChange(t, m, 30*time.Millisecond)
}

func TestPollMonitorDebounce(t *testing.T) {
	src := &fakeInputSource{id: "us"}
	m := newPollMonitor(src.poll, 5*time.Millisecond, time.Hour, 3)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	src.set("de")
	waitChange(t, m)

	// Second switch lands inside the debounce window.
	src.set("fr")
	expectNoChange(t, m, 50*time.Millisecond)
}

func TestPollMonitorSelfDisablesAfterErrors(t *testing.T) {
	src := &fakeInputSource{id: "us"}
	m := newPollMonitor(src.poll, 5*time.Millisecond, 0, 3)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	src.fail(fmt.Errorf("layout API unavailable"))

	deadline := time.After(time.Second)
	for m.Monitoring() {
		select {
		case <-deadline:
			t.Fatal("monitor never disabled itself")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Disabled: even a changed id no longer fires.
	src.fail(nil)
	src.set("de")
	expectNoChange(t, m, 50*time.Millisecond)

	// Start rearms.
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()
	if !m.Monitoring() {
		t.Fatal("monitor should run again after Start")
	}
	src.set("fr")
	waitChange(t, m)
}

func TestPollMonitorStartStop(t *testing.T) {
	src := &fakeInputSource{id: "us"}
	m := newPollMonitor(src.poll, 5*time.Millisecond, 0, 3)

	if m.Monitoring() {
		t.Fatal("fresh monitor should not be running")
	}
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(); err != nil {
		t.Fatal("second Start should be a no-op, not an error")
	}
	m.Stop()
	if m.Monitoring() {
		t.Fatal("Stop should halt monitoring")
	}
	m.Stop() // idempotent
}

func TestEventMonitorForwardsPush(t *testing.T) {
	src := make(chan struct{}, 1)
	m := newEventMonitor(src)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	src <- struct{}{}
	waitChange(t, m)

	m.Stop()
	if m.Monitoring() {
		t.Fatal("Stop should halt monitoring")
	}
}

func TestEventMonitorDropsPushBufferedWhileStopped(t *testing.T) {
	src := make(chan struct{}, 1)
	m := newEventMonitor(src)

	// OS pushes a layout change while nobody is monitoring.
	src <- struct{}{}

	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	expectNoChange(t, m, 50*time.Millisecond)

	// Live pushes still get through.
	src <- struct{}{}
	waitChange(t, m)
}
