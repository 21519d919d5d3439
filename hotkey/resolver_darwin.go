//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

// currentLayoutData returns the 'uchr' layout data of the active keyboard
// input source, or NULL when the layout API is unusable (no input source, or
// a source without Unicode layout data, e.g. in constrained runtimes).
// On success *sourceOut must be CFRelease'd by the caller once the layout
// pointer is no longer used.
static const UCKeyboardLayout *currentLayoutData(TISInputSourceRef *sourceOut) {
	TISInputSourceRef source = TISCopyCurrentKeyboardInputSource();
	if (source == NULL) {
		return NULL;
	}
	CFDataRef data = (CFDataRef)TISGetInputSourceProperty(source, kTISPropertyUnicodeKeyLayoutData);
	if (data == NULL) {
		CFRelease(source);
		return NULL;
	}
	*sourceOut = source;
	return (const UCKeyboardLayout *)CFDataGetBytePtr(data);
}

// translateKey returns the character keyCode produces under the given Carbon
// modifier mask, or 0 when it produces nothing printable.
static UniChar translateKey(const UCKeyboardLayout *layout, UInt16 keyCode, UInt32 carbonMods) {
	UInt32 deadKeyState = 0;
	UniChar chars[4];
	UniCharCount len = 0;
	OSStatus st = UCKeyTranslate(layout, keyCode, kUCKeyActionDisplay,
		(carbonMods >> 8) & 0xFF, LMGetKbdType(), kUCKeyTranslateNoDeadKeysBit,
		&deadKeyState, 4, &len, chars);
	if (st != noErr || len == 0) {
		return 0;
	}
	return chars[0];
}
*/
import "C"

import (
	"fmt"
	"unicode"
)

const (
	carbonShiftKey  = 0x0200
	carbonOptionKey = 0x0800
)

type darwinResolver struct{}

func newResolver() Resolver {
	return darwinResolver{}
}

// Resolve maps a gesture onto a macOS virtual keycode. A-Z short-circuit to
// the static ANSI table with no layout-API call; other characters are found
// by brute-forcing UCKeyTranslate over candidate keycodes, trying no
// modifier, then Shift, then Option. The modifier that produced the match
// becomes an implicit modifier of the chord.
func (darwinResolver) Resolve(g Gesture) (*Resolved, error) {
	if !g.IsChar() {
		code, ok := macNamedKeyCode[g.Named]
		if !ok {
			return nil, fmt.Errorf("no native keycode for %s", g.Named)
		}
		return &Resolved{KeyCode: code, Mods: g.Mods, Display: g.DisplayString()}, nil
	}

	lower := unicode.ToLower(g.Char)
	if code, ok := ansiLetterKeyCode[lower]; ok {
		return &Resolved{KeyCode: code, Mods: g.Mods, Display: displayString(g.Mods, g.keyLabel())}, nil
	}

	var source C.TISInputSourceRef
	layout := C.currentLayoutData(&source)
	if layout == nil {
		return fallbackResolve(g)
	}
	defer C.CFRelease(C.CFTypeRef(source))

	candidates := []struct {
		carbon uint32
		mod    Modifiers
	}{
		{0, ModNone},
		{carbonShiftKey, ModShift},
		{carbonOptionKey, ModAlt},
	}
	for _, cand := range candidates {
		for code := 0; code < 128; code++ {
			ch := C.translateKey(layout, C.UInt16(code), C.UInt32(cand.carbon))
			if rune(ch) == g.Char {
				mods := g.Mods | cand.mod
				return &Resolved{
					KeyCode: uint32(code),
					Mods:    mods,
					Display: displayString(mods, g.keyLabel()),
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("character %q not typeable under active layout", g.Char)
}
