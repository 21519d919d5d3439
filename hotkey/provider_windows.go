//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"snip/log"
)

// windowsProvider hosts a hidden message-only window on a dedicated OS
// thread. Windows binds hotkey registration, unregistration and delivery to
// the registering thread's message queue, so every native call is marshalled
// onto that thread through the invoke queue.
type windowsProvider struct {
	dispatch Dispatch
	resolver Resolver
	reg      *registryState

	invokeCh chan invokeReq
	wakeFlag atomic.Bool
	hwnd     atomic.Uintptr

	ready    chan struct{} // closed once the window exists
	loopDone chan struct{} // closed when the message loop exits
	layoutCh chan struct{}

	closeOnce sync.Once
	closeErr  error
}

type invokeReq struct {
	fn   func()
	done chan struct{}
}

func newProvider(dispatch Dispatch) Provider {
	p := &windowsProvider{
		dispatch: dispatch,
		resolver: newResolver(),
		reg:      newRegistryState(),
		invokeCh: make(chan invokeReq, 16),
		ready:    make(chan struct{}),
		loopDone: make(chan struct{}),
		layoutCh: make(chan struct{}, 1),
	}
	go p.messageLoop()
	return p
}

func (p *windowsProvider) Supported() bool      { return true }
func (p *windowsProvider) HasPermissions() bool { return true }

func (p *windowsProvider) LayoutChanges() <-chan struct{} { return p.layoutCh }

func (p *windowsProvider) Register(id string, g Gesture, cb func()) bool {
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
		p.nativeUnregister(evicted)
	}

	var regErr error
	if err := p.invoke(func() { regErr = p.nativeRegister(native, res) }); err != nil {
		regErr = err
	}
	if regErr != nil {
		log.Registration(id, res.Display, false)
		log.Warnf("hotkey %s (%s): %v", id, res.Display, regErr)
		return false
	}
	if !p.reg.commitRegister(id, version, native, cb) {
		// Superseded by a newer operation mid-flight; release the orphan.
		p.nativeUnregister(native)
		return false
	}
	log.Registration(id, res.Display, true)
	return true
}

func (p *windowsProvider) Unregister(id string) bool {
	native, ok := p.reg.beginUnregister(id)
	if !ok {
		return false
	}
	p.nativeUnregister(native)
	return true
}

func (p *windowsProvider) UnregisterAll() {
	for _, native := range p.reg.snapshotUnregisterAll() {
		p.nativeUnregister(native)
	}
}

func (p *windowsProvider) Close() error {
	p.closeOnce.Do(func() {
		for _, native := range p.reg.markDisposedAndSnapshotAll() {
			p.nativeUnregister(native)
		}
		select {
		case <-p.ready:
			procPostMessageW.Call(p.hwnd.Load(), wmShutdown, 0, 0)
		case <-p.loopDone:
			return
		case <-time.After(nativeCallTimeout):
			p.closeErr = fmt.Errorf("hotkey message loop did not start")
			return
		}
		select {
		case <-p.loopDone:
		case <-time.After(nativeCallTimeout):
			p.closeErr = fmt.Errorf("hotkey message loop did not exit")
		}
	})
	return p.closeErr
}

// nativeRegister must run on the message-loop thread.
func (p *windowsProvider) nativeRegister(native int, res *Resolved) error {
	mods := nativeModifiers(res.Mods) | modNoRepeatWin
	ret, _, errno := procRegisterHotKey.Call(p.hwnd.Load(), uintptr(native), mods, uintptr(res.KeyCode))
	if ret == 0 {
		return fmt.Errorf("RegisterHotKey: %v", errno)
	}
	return nil
}

func (p *windowsProvider) nativeUnregister(native int) {
	p.invoke(func() {
		procUnregisterHotKey.Call(p.hwnd.Load(), uintptr(native))
	})
}

// invoke runs fn on the message-loop thread: enqueue, post one wake message
// (the flag keeps redundant posts off the queue) and block for completion
// with a bounded wait.
func (p *windowsProvider) invoke(fn func()) error {
	select {
	case <-p.ready:
	case <-p.loopDone:
		return fmt.Errorf("hotkey window unavailable")
	case <-time.After(nativeCallTimeout):
		return fmt.Errorf("timed out waiting for hotkey window")
	}

	req := invokeReq{fn: fn, done: make(chan struct{})}
	select {
	case p.invokeCh <- req:
	case <-p.loopDone:
		return fmt.Errorf("hotkey window closed")
	case <-time.After(nativeCallTimeout):
		return fmt.Errorf("hotkey invoke queue full")
	}

	if p.wakeFlag.CompareAndSwap(false, true) {
		procPostMessageW.Call(p.hwnd.Load(), wmWakeInvoke, 0, 0)
	}

	select {
	case <-req.done:
		return nil
	case <-p.loopDone:
		return fmt.Errorf("hotkey window closed during call")
	case <-time.After(nativeCallTimeout):
		return fmt.Errorf("native hotkey call timed out")
	}
}

func (p *windowsProvider) drainInvokes() {
	p.wakeFlag.Store(false)
	for {
		select {
		case req := <-p.invokeCh:
			req.fn()
			close(req.done)
		default:
			return
		}
	}
}

func (p *windowsProvider) wndProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	switch msg {
	case wmHotkey:
		// Unknown ids (already evicted or rolled back) are ignored.
		if cb, ok := p.reg.lookup(int(wparam)); ok {
			p.dispatch(cb)
		}
		return 0
	case wmInputLangChange:
		select {
		case p.layoutCh <- struct{}{}:
		default:
		}
		return 0
	case wmWakeInvoke:
		p.drainInvokes()
		return 0
	case wmShutdown:
		procDestroyWindow.Call(hwnd)
		return 0
	case wmDestroy:
		procPostQuitMessage.Call(0)
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return ret
}

// messageLoop registers a private window class, creates the message-only
// window and pumps messages until shutdown. Pending invokes are failed by the
// loopDone close when it exits.
func (p *windowsProvider) messageLoop() {
	runtime.LockOSThread()
	defer close(p.loopDone)

	hinst, _, _ := procGetModuleHandleW.Call(0)
	clsName, err := windows.UTF16PtrFromString("snip_hotkey_window")
	if err != nil {
		return
	}

	wc := wndClassExW{
		Size:      uint32(unsafe.Sizeof(wndClassExW{})),
		WndProc:   windows.NewCallback(p.wndProc),
		Instance:  hinst,
		ClassName: clsName,
	}
	atom, _, errno := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		log.Errorf("hotkey window class: %v", errno)
		return
	}
	defer procUnregisterClassW.Call(uintptr(unsafe.Pointer(clsName)), hinst)

	hwnd, _, errno := procCreateWindowExW.Call(
		0, uintptr(unsafe.Pointer(clsName)), 0, 0,
		0, 0, 0, 0,
		hwndMessage, 0, hinst, 0)
	if hwnd == 0 {
		log.Errorf("hotkey window create: %v", errno)
		return
	}
	p.hwnd.Store(hwnd)
	close(p.ready)

	var msg msgW
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if ret == 0 || ret == ^uintptr(0) {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}
