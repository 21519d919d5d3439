//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

extern void snipHotkeyFired(UInt32 tag);

static OSStatus hotkeyHandler(EventHandlerCallRef next, EventRef ev, void *data) {
	EventHotKeyID hkID;
	OSStatus st = GetEventParameter(ev, kEventParamDirectObject, typeEventHotKeyID,
		NULL, sizeof(hkID), NULL, &hkID);
	if (st == noErr) {
		snipHotkeyFired(hkID.id);
	}
	return noErr;
}

static OSStatus installHotkeyHandler(void) {
	EventTypeSpec spec = { kEventClassKeyboard, kEventHotKeyPressed };
	return InstallEventHandler(GetApplicationEventTarget(), hotkeyHandler, 1, &spec, NULL, NULL);
}

static OSStatus registerEventHotKey(UInt32 sig, UInt32 tag, UInt32 carbonMods, UInt32 keyCode, EventHotKeyRef *out) {
	EventHotKeyID hkID = { sig, tag };
	return RegisterEventHotKey(keyCode, carbonMods, hkID, GetApplicationEventTarget(), 0, out);
}

static OSStatus unregisterEventHotKey(EventHotKeyRef ref) {
	return UnregisterEventHotKey(ref);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"snip/log"
)

// Four-byte creator signature stamped on every registration ('SNIP').
const hotkeySignature = 0x534E4950

const (
	carbonCmdKey     = 0x0100
	carbonShiftMask  = 0x0200
	carbonOptionMask = 0x0800
	carbonCtrlMask   = 0x1000
)

// darwinProvider registers chords through Carbon's application-level event
// hotkey facility. No dedicated thread: every native call hops to the UI/main
// thread with a bounded synchronous wait. This deliberately avoids a
// system-wide event tap, trading arbitrary key interception for working in
// sandboxed runs without the input-monitoring permission.
type darwinProvider struct {
	dispatch Dispatch
	resolver Resolver
	reg      *registryState

	mu   sync.Mutex
	refs map[int]C.EventHotKeyRef

	handlerOnce sync.Once
	handlerErr  error
	closeOnce   sync.Once
}

// The Carbon handler is process-wide; the exported callback reaches the
// provider through this pointer.
var activeDarwinProvider atomic.Pointer[darwinProvider]

func newProvider(dispatch Dispatch) Provider {
	p := &darwinProvider{
		dispatch: dispatch,
		resolver: newResolver(),
		reg:      newRegistryState(),
		refs:     make(map[int]C.EventHotKeyRef),
	}
	activeDarwinProvider.Store(p)
	return p
}

//export snipHotkeyFired
func snipHotkeyFired(tag C.UInt32) {
	p := activeDarwinProvider.Load()
	if p == nil {
		return
	}
	if cb, ok := p.reg.lookup(int(tag)); ok {
		p.dispatch(cb)
	}
}

func (p *darwinProvider) Supported() bool      { return true }
func (p *darwinProvider) HasPermissions() bool { return true }

// No native layout-change push exists on macOS; the layout monitor polls.
func (p *darwinProvider) LayoutChanges() <-chan struct{} { return nil }

func carbonModifiers(m Modifiers) uint32 {
	var mods uint32
	if m.Has(ModCtrl) {
		mods |= carbonCtrlMask
	}
	if m.Has(ModAlt) {
		mods |= carbonOptionMask
	}
	if m.Has(ModShift) {
		mods |= carbonShiftMask
	}
	if m.Has(ModSuper) {
		mods |= carbonCmdKey
	}
	return mods
}

func (p *darwinProvider) Register(id string, g Gesture, cb func()) bool {
	res, err := p.resolver.Resolve(g)
	if err != nil {
		log.Warnf("hotkey %s: %v", id, err)
		return false
	}
	version, native, evicted, err := p.reg.beginRegister(id)
	if err != nil {
		return false
	}
	if evicted != 0 {
		p.releaseNative(evicted)
	}

	var ref C.EventHotKeyRef
	var status C.OSStatus
	hopErr := p.runOnMain(func() {
		p.handlerOnce.Do(func() {
			if st := C.installHotkeyHandler(); st != 0 {
				p.handlerErr = fmt.Errorf("InstallEventHandler: OSStatus %d", int(st))
			}
		})
		if p.handlerErr != nil {
			status = -1
			return
		}
		status = C.registerEventHotKey(hotkeySignature, C.UInt32(native),
			C.UInt32(carbonModifiers(res.Mods)), C.UInt32(res.KeyCode), &ref)
	})
	if hopErr != nil || status != 0 || p.handlerErr != nil {
		log.Registration(id, res.Display, false)
		log.Warnf("hotkey %s (%s): register failed (OSStatus %d, %v, %v)",
			id, res.Display, int(status), hopErr, p.handlerErr)
		return false
	}

	p.mu.Lock()
	p.refs[native] = ref
	p.mu.Unlock()

	if !p.reg.commitRegister(id, version, native, cb) {
		// Superseded by a newer operation mid-flight; release the orphan.
		p.releaseNative(native)
		return false
	}
	log.Registration(id, res.Display, true)
	return true
}

func (p *darwinProvider) Unregister(id string) bool {
	native, ok := p.reg.beginUnregister(id)
	if !ok {
		return false
	}
	p.releaseNative(native)
	return true
}

func (p *darwinProvider) UnregisterAll() {
	for _, native := range p.reg.snapshotUnregisterAll() {
		p.releaseNative(native)
	}
}

func (p *darwinProvider) Close() error {
	p.closeOnce.Do(func() {
		for _, native := range p.reg.markDisposedAndSnapshotAll() {
			p.releaseNative(native)
		}
		activeDarwinProvider.CompareAndSwap(p, nil)
	})
	return nil
}

func (p *darwinProvider) releaseNative(native int) {
	p.mu.Lock()
	ref, ok := p.refs[native]
	delete(p.refs, native)
	p.mu.Unlock()
	if !ok {
		return
	}
	p.runOnMain(func() {
		C.unregisterEventHotKey(ref)
	})
}

// runOnMain hops to the UI/main thread and waits for completion with a
// bounded timeout. Callers must not already be blocking the UI thread.
func (p *darwinProvider) runOnMain(fn func()) error {
	done := make(chan struct{})
	p.dispatch(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-time.After(nativeCallTimeout):
		return fmt.Errorf("main-thread hotkey call timed out")
	}
}
