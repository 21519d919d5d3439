package hotkey

import (
	"sync"
	"testing"
)

// recordingDispatcher runs callbacks inline and counts deliveries, standing
// in for the UI thread.
type recordingDispatcher struct {
	mu    sync.Mutex
	calls int
}

func (d *recordingDispatcher) dispatch(fn func()) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	fn()
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestRegisterAndFire(t *testing.T) {
	ui := &recordingDispatcher{}
	p := NewFakeProvider(ui.dispatch)

	fired := 0
	if !p.Register(IDCaptureRegion, FromChar(ModAlt, 'A'), func() { fired++ }) {
		t.Fatal("register failed")
	}

	res, ok := p.ResolvedFor(IDCaptureRegion)
	if !ok {
		t.Fatal("no resolution recorded")
	}
	if want := ansiLetterKeyCode['a']; res.KeyCode != want {
		t.Errorf("keycode = %d, want %d", res.KeyCode, want)
	}
	if res.Mods != ModAlt {
		t.Errorf("mods = %v, want plain Alt (no implicit modifiers)", res.Mods)
	}

	if !p.SimFire(IDCaptureRegion) {
		t.Fatal("fire failed")
	}
	if fired != 1 {
		t.Errorf("callback fired %d times, want exactly 1", fired)
	}
	if ui.count() != 1 {
		t.Errorf("callback delivered %d times via UI dispatcher, want 1", ui.count())
	}
}

func TestImplicitShiftInEffectiveChord(t *testing.T) {
	p := NewFakeProvider(nil)

	if !p.Register("id", FromChar(ModAlt, '!'), func() {}) {
		t.Fatal("register failed")
	}
	res, _ := p.ResolvedFor("id")
	if !res.Mods.Has(ModShift) {
		t.Error("chord should carry the implicit Shift the layout requires")
	}
	if want := ansiPlainKeyCode['1']; res.KeyCode != want {
		t.Errorf("keycode = %d, want base-key %d", res.KeyCode, want)
	}
	if res.Display != "Alt+Shift+!" {
		t.Errorf("effective display = %q, want Alt+Shift+!", res.Display)
	}
}

func TestOverlappingRegisterLastWriteWins(t *testing.T) {
	p := NewFakeProvider(nil)
	g1 := FromChar(ModAlt, 'a')
	g2 := FromChar(ModAlt, 'b')

	fired2 := 0
	p.BeforeCommit = func() {
		// A second register for the same id lands while g1's native call is
		// still in flight.
		if !p.Register("id", g2, func() { fired2++ }) {
			t.Error("competing register should succeed")
		}
	}
	if p.Register("id", g1, func() {}) {
		t.Fatal("superseded register should report failure")
	}

	if p.LiveNativeCount() != 1 {
		t.Fatalf("live native ids = %d, want 1 (g1's orphan rolled back)", p.LiveNativeCount())
	}
	res, ok := p.ResolvedFor("id")
	if !ok {
		t.Fatal("no live resolution")
	}
	if want := ansiLetterKeyCode['b']; res.KeyCode != want {
		t.Errorf("surviving chord keycode = %d, want g2's %d", res.KeyCode, want)
	}

	p.SimFire("id")
	if fired2 != 1 {
		t.Errorf("g2 callback fired %d times, want 1", fired2)
	}
}

func TestUnregisterTwice(t *testing.T) {
	p := NewFakeProvider(nil)
	p.Register("id", FromChar(ModAlt, 'a'), func() {})

	if !p.Unregister("id") {
		t.Fatal("first unregister should return true")
	}
	if p.Unregister("id") {
		t.Fatal("second unregister should return false")
	}
	if p.LiveNativeCount() != 0 {
		t.Errorf("live native ids = %d, want 0", p.LiveNativeCount())
	}
}

func TestNativeFailureRollsBack(t *testing.T) {
	p := NewFakeProvider(nil)
	p.FailNative = true

	if p.Register("id", FromChar(ModAlt, 'a'), func() {}) {
		t.Fatal("register should fail when the OS rejects the chord")
	}
	if p.LiveNativeCount() != 0 {
		t.Errorf("live native ids = %d, want 0", p.LiveNativeCount())
	}
	if p.SimFire("id") {
		t.Error("nothing should be dispatchable after a failed register")
	}
}

func TestReRegisterReplacesChord(t *testing.T) {
	p := NewFakeProvider(nil)
	p.Register("id", FromChar(ModAlt, 'a'), func() {})
	p.Register("id", FromChar(ModAlt, 'b'), func() {})

	if p.LiveNativeCount() != 1 {
		t.Fatalf("live native ids = %d, want 1", p.LiveNativeCount())
	}
	res, _ := p.ResolvedFor("id")
	if want := ansiLetterKeyCode['b']; res.KeyCode != want {
		t.Errorf("keycode = %d, want replacement %d", res.KeyCode, want)
	}
}

func TestCloseDisposesProvider(t *testing.T) {
	p := NewFakeProvider(nil)
	p.Register("id", FromChar(ModAlt, 'a'), func() {})

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if p.LiveNativeCount() != 0 {
		t.Errorf("live native ids = %d after close, want 0", p.LiveNativeCount())
	}
	if p.Register("id", FromChar(ModAlt, 'a'), func() {}) {
		t.Error("register after close should fail")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
