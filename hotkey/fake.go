package hotkey

import "sync"

// FakeProvider drives the real registry state against an in-memory "native"
// table so provider semantics (eviction, rollback, fired-event dispatch) are
// testable without an OS.
type FakeProvider struct {
	dispatch Dispatch
	reg      *registryState

	mu        sync.Mutex
	native    map[int]*Resolved
	registers int

	// ResolveFn substitutes the resolver; defaults to the static US layout.
	ResolveFn func(Gesture) (*Resolved, error)
	// FailNative makes the next native registration fail.
	FailNative bool
	// BeforeCommit runs between the fake native call and the commit,
	// mimicking a slow native registration. Cleared after one use.
	BeforeCommit func()

	layoutCh chan struct{}
}

func NewFakeProvider(dispatch Dispatch) *FakeProvider {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &FakeProvider{
		dispatch: dispatch,
		reg:      newRegistryState(),
		native:   make(map[int]*Resolved),
		layoutCh: make(chan struct{}, 1),
	}
}

func (f *FakeProvider) Register(id string, g Gesture, cb func()) bool {
	f.mu.Lock()
	f.registers++
	f.mu.Unlock()

	resolve := f.ResolveFn
	if resolve == nil {
		resolve = fallbackResolve
	}
	res, err := resolve(g)
	if err != nil {
		return false
	}
	version, native, evicted, err := f.reg.beginRegister(id)
	if err != nil {
		return false
	}
	if evicted != 0 {
		f.removeNative(evicted)
	}

	f.mu.Lock()
	fail := f.FailNative
	f.FailNative = false
	if !fail {
		f.native[native] = res
	}
	hook := f.BeforeCommit
	f.BeforeCommit = nil
	f.mu.Unlock()

	if fail {
		return false
	}
	if hook != nil {
		hook()
	}
	if !f.reg.commitRegister(id, version, native, cb) {
		f.removeNative(native)
		return false
	}
	return true
}

func (f *FakeProvider) Unregister(id string) bool {
	native, ok := f.reg.beginUnregister(id)
	if !ok {
		return false
	}
	f.removeNative(native)
	return true
}

func (f *FakeProvider) UnregisterAll() {
	for _, native := range f.reg.snapshotUnregisterAll() {
		f.removeNative(native)
	}
}

func (f *FakeProvider) Supported() bool               { return true }
func (f *FakeProvider) HasPermissions() bool          { return true }
func (f *FakeProvider) LayoutChanges() <-chan struct{} { return f.layoutCh }

func (f *FakeProvider) Close() error {
	for _, native := range f.reg.markDisposedAndSnapshotAll() {
		f.removeNative(native)
	}
	return nil
}

func (f *FakeProvider) removeNative(native int) {
	f.mu.Lock()
	delete(f.native, native)
	f.mu.Unlock()
}

// SimFire simulates the OS firing the chord registered under id.
func (f *FakeProvider) SimFire(id string) bool {
	native, ok := f.reg.nativeFor(id)
	if !ok {
		return false
	}
	f.SimFireNative(native)
	return true
}

// SimFireNative simulates a fired-hotkey event for a raw native id; unknown
// ids are ignored, as in the real providers.
func (f *FakeProvider) SimFireNative(native int) {
	if cb, ok := f.reg.lookup(native); ok {
		f.dispatch(cb)
	}
}

// SimLayoutChange simulates a pushed layout-change notification.
func (f *FakeProvider) SimLayoutChange() {
	select {
	case f.layoutCh <- struct{}{}:
	default:
	}
}

// RegisterCalls reports how many Register calls were made, successful or not.
func (f *FakeProvider) RegisterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registers
}

// LiveNativeCount reports how many native registrations are currently held.
func (f *FakeProvider) LiveNativeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.native)
}

// ResolvedFor returns what id's gesture resolved to at registration time.
func (f *FakeProvider) ResolvedFor(id string) (*Resolved, bool) {
	native, ok := f.reg.nativeFor(id)
	if !ok {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.native[native]
	return res, ok
}

// FakeMonitor is a LayoutMonitor driven by SimChange.
type FakeMonitor struct {
	mu      sync.Mutex
	running bool
	changes chan struct{}
}

func NewFakeMonitor() *FakeMonitor {
	return &FakeMonitor{changes: make(chan struct{}, 1)}
}

func (m *FakeMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
	return nil
}

func (m *FakeMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

func (m *FakeMonitor) Monitoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *FakeMonitor) Changes() <-chan struct{} { return m.changes }

func (m *FakeMonitor) SimChange() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}
