//go:build windows

package hotkey

import (
	"golang.org/x/sys/windows"
)

// Win32 surface shared by the windows provider, resolver and layout monitor.

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW   = user32.NewProc("RegisterClassExW")
	procUnregisterClassW   = user32.NewProc("UnregisterClassW")
	procCreateWindowExW    = user32.NewProc("CreateWindowExW")
	procDestroyWindow      = user32.NewProc("DestroyWindow")
	procDefWindowProcW     = user32.NewProc("DefWindowProcW")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procTranslateMessage   = user32.NewProc("TranslateMessage")
	procDispatchMessageW   = user32.NewProc("DispatchMessageW")
	procPostMessageW       = user32.NewProc("PostMessageW")
	procPostQuitMessage    = user32.NewProc("PostQuitMessage")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procVkKeyScanExW       = user32.NewProc("VkKeyScanExW")
	procGetKeyboardLayout  = user32.NewProc("GetKeyboardLayout")
	procGetModuleHandleW   = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetModuleHandleW")
)

const (
	wmDestroy         = 0x0002
	wmClose           = 0x0010
	wmHotkey          = 0x0312
	wmInputLangChange = 0x0051
	wmApp             = 0x8000

	// Private messages on the hotkey window.
	wmWakeInvoke = wmApp + 1
	wmShutdown   = wmApp + 2

	modAltWin      = 0x0001
	modControlWin  = 0x0002
	modShiftWin    = 0x0004
	modWinWin      = 0x0008
	modNoRepeatWin = 0x4000

	hwndMessage = ^uintptr(2) // HWND_MESSAGE: message-only window parent
)

type wndClassExW struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type msgW struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// nativeModifiers converts gesture modifiers to RegisterHotKey fsModifiers.
func nativeModifiers(m Modifiers) uintptr {
	var mods uintptr
	if m.Has(ModAlt) {
		mods |= modAltWin
	}
	if m.Has(ModCtrl) {
		mods |= modControlWin
	}
	if m.Has(ModShift) {
		mods |= modShiftWin
	}
	if m.Has(ModSuper) {
		mods |= modWinWin
	}
	return mods
}
