package session

import (
	"errors"
	"sync"
	"testing"
)

type fakeOverlay struct {
	mu       sync.Mutex
	shows    int
	hides    int
	onSelect func(Region)
	onCancel func()
}

func (o *fakeOverlay) Show(onSelect func(Region), onCancel func()) {
	o.mu.Lock()
	o.shows++
	o.onSelect = onSelect
	o.onCancel = onCancel
	o.mu.Unlock()
}

func (o *fakeOverlay) Hide() {
	o.mu.Lock()
	o.hides++
	o.mu.Unlock()
}

// SimSelect simulates the user completing a drag on the overlay.
func (o *fakeOverlay) SimSelect(r Region) {
	o.mu.Lock()
	fn := o.onSelect
	o.mu.Unlock()
	fn(r)
}

// SimDismiss simulates the user dismissing the overlay directly.
func (o *fakeOverlay) SimDismiss() {
	o.mu.Lock()
	fn := o.onCancel
	o.mu.Unlock()
	fn()
}

type fixture struct {
	overlay  *fakeOverlay
	captured []Region
	exported []string
	closed   []bool
	capErr   error
	ctrl     *Controller
}

func newFixture() *fixture {
	f := &fixture{overlay: &fakeOverlay{}}
	f.ctrl = New(Config{
		Overlay: f.overlay,
		Capture: func(r Region) (string, error) {
			if f.capErr != nil {
				return "", f.capErr
			}
			f.captured = append(f.captured, r)
			return "/tmp/snip-test.png", nil
		},
		Export: func(path string) error {
			f.exported = append(f.exported, path)
			return nil
		},
		OnClosed: func(cancelled bool) {
			f.closed = append(f.closed, cancelled)
		},
	})
	return f
}

func TestStartShowsOverlayOnce(t *testing.T) {
	f := newFixture()
	if err := f.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if !f.ctrl.Active() {
		t.Fatal("session should be active after Start")
	}
	if f.overlay.shows != 1 {
		t.Errorf("overlay shows = %d, want 1", f.overlay.shows)
	}
	if f.ctrl.ID() == "" {
		t.Error("active session should carry an id")
	}
}

func TestSecondStartRejected(t *testing.T) {
	f := newFixture()
	f.ctrl.Start()
	if err := f.ctrl.Start(); err == nil {
		t.Fatal("second Start while active must fail")
	}
	if f.overlay.shows != 1 {
		t.Errorf("overlay shows = %d after rejected Start", f.overlay.shows)
	}
}

func TestSelectCapturesAndExports(t *testing.T) {
	f := newFixture()
	f.ctrl.Start()

	f.overlay.SimSelect(Region{X: 10, Y: 20, W: 300, H: 200})

	if f.ctrl.Active() {
		t.Error("session should end after selection")
	}
	if len(f.captured) != 1 || f.captured[0].W != 300 {
		t.Errorf("captured = %v", f.captured)
	}
	if len(f.exported) != 1 || f.exported[0] != "/tmp/snip-test.png" {
		t.Errorf("exported = %v", f.exported)
	}
	if len(f.closed) != 1 || f.closed[0] {
		t.Errorf("closed = %v, want one non-cancelled close", f.closed)
	}
	if f.ctrl.ID() != "" {
		t.Error("idle session should report an empty id")
	}
}

func TestCaptureErrorClosesAsCancelled(t *testing.T) {
	f := newFixture()
	f.capErr = errors.New("screen gone")
	f.ctrl.Start()

	f.overlay.SimSelect(Region{W: 1, H: 1})

	if len(f.exported) != 0 {
		t.Error("nothing to export when capture fails")
	}
	if len(f.closed) != 1 || !f.closed[0] {
		t.Errorf("closed = %v, want one cancelled close", f.closed)
	}
}

func TestCloseCurrentCancels(t *testing.T) {
	f := newFixture()
	f.ctrl.Start()

	f.ctrl.CloseCurrent()

	if f.ctrl.Active() {
		t.Error("session still active after CloseCurrent")
	}
	if f.overlay.hides != 1 {
		t.Errorf("overlay hides = %d, want 1", f.overlay.hides)
	}
	if len(f.closed) != 1 || !f.closed[0] {
		t.Errorf("closed = %v, want one cancelled close", f.closed)
	}
}

func TestCloseCurrentIdleIsNoOp(t *testing.T) {
	f := newFixture()
	f.ctrl.CloseCurrent()
	if len(f.closed) != 0 || f.overlay.hides != 0 {
		t.Error("closing an idle controller must do nothing")
	}
}

func TestOverlayDismissCancels(t *testing.T) {
	f := newFixture()
	f.ctrl.Start()

	f.overlay.SimDismiss()

	if f.ctrl.Active() {
		t.Error("session still active after overlay dismiss")
	}
	if len(f.closed) != 1 || !f.closed[0] {
		t.Errorf("closed = %v, want one cancelled close", f.closed)
	}
}

func TestRestartAfterClose(t *testing.T) {
	f := newFixture()
	f.ctrl.Start()
	first := f.ctrl.ID()
	f.ctrl.CloseCurrent()

	if err := f.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	if f.ctrl.ID() == first {
		t.Error("restarted session must get a fresh id")
	}
}
