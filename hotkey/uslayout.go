package hotkey

import (
	"fmt"
	"unicode"
)

// Static US-ANSI layout tables using macOS virtual keycodes. The darwin
// resolver prefers these for A-Z (keycodes are not sequential by letter, so a
// table is mandatory) and falls back to them entirely when the layout API is
// unavailable in the current runtime. Kept free of build tags so the fallback
// path stays testable everywhere.

var ansiLetterKeyCode = map[rune]uint32{
	'a': 0, 'b': 11, 'c': 8, 'd': 2, 'e': 14, 'f': 3, 'g': 5, 'h': 4,
	'i': 34, 'j': 38, 'k': 40, 'l': 37, 'm': 46, 'n': 45, 'o': 31, 'p': 35,
	'q': 12, 'r': 15, 's': 1, 't': 17, 'u': 32, 'v': 9, 'w': 13, 'x': 7,
	'y': 16, 'z': 6,
}

var ansiPlainKeyCode = map[rune]uint32{
	'1': 18, '2': 19, '3': 20, '4': 21, '5': 23, '6': 22, '7': 26, '8': 28,
	'9': 25, '0': 29,
	'=': 24, '-': 27, ']': 30, '[': 33, '\'': 39, ';': 41, '\\': 42,
	',': 43, '/': 44, '.': 47, '`': 50, ' ': 49,
}

// Characters reachable only with Shift on a US layout, keyed to their
// unshifted base character.
var usShiftedBase = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5', '^': '6', '&': '7',
	'*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', ':': ';', '"': '\'', '|': '\\',
	'<': ',', '>': '.', '?': '/', '~': '`',
}

var macNamedKeyCode = map[NamedKey]uint32{
	KeyEnter:     36,
	KeyTab:       48,
	KeySpace:     49,
	KeyBackspace: 51,
	KeyEscape:    53,
	KeyHome:      115,
	KeyEnd:       119,
	KeyPageUp:    116,
	KeyPageDown:  121,
	KeyLeft:      123,
	KeyRight:     124,
	KeyDown:      125,
	KeyUp:        126,
	KeyInsert:    114, // kVK_Help on ANSI keyboards
	KeyDelete:    117, // forward delete
	KeyF1:        122, KeyF2: 120, KeyF3: 99, KeyF4: 118, KeyF5: 96,
	KeyF6: 97, KeyF7: 98, KeyF8: 100, KeyF9: 101, KeyF10: 109,
	KeyF11: 103, KeyF12: 111, KeyF13: 105, KeyF14: 107, KeyF15: 113,
	KeyF16: 106, KeyF17: 64, KeyF18: 79, KeyF19: 80, KeyF20: 90,
}

// usCharKeyCode maps a character to its US-layout keycode and whether Shift
// is required to produce it.
func usCharKeyCode(r rune) (code uint32, shift bool, ok bool) {
	lower := unicode.ToLower(r)
	if code, ok := ansiLetterKeyCode[lower]; ok {
		return code, false, true
	}
	if code, ok := ansiPlainKeyCode[r]; ok {
		return code, false, true
	}
	if base, ok := usShiftedBase[r]; ok {
		if code, ok := ansiPlainKeyCode[base]; ok {
			return code, true, true
		}
	}
	return 0, false, false
}

// fallbackResolve resolves a gesture against the static US layout. It is the
// darwin resolver's degraded mode when the layout API cannot be reached.
func fallbackResolve(g Gesture) (*Resolved, error) {
	if !g.IsChar() {
		code, ok := macNamedKeyCode[g.Named]
		if !ok {
			return nil, fmt.Errorf("no native keycode for %s", g.Named)
		}
		return &Resolved{KeyCode: code, Mods: g.Mods, Display: g.DisplayString()}, nil
	}
	code, shift, ok := usCharKeyCode(g.Char)
	if !ok {
		return nil, fmt.Errorf("character %q not typeable on US layout", g.Char)
	}
	mods := g.Mods
	if shift {
		mods |= ModShift
	}
	return &Resolved{KeyCode: code, Mods: mods, Display: displayString(mods, g.keyLabel())}, nil
}
