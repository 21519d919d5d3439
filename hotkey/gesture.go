package hotkey

import (
	"fmt"
	"strings"
	"unicode"
)

// Modifiers is a bit set of modifier keys in a gesture.
type Modifiers uint8

const (
	ModNone  Modifiers = 0
	ModCtrl  Modifiers = 1 << 0
	ModAlt   Modifiers = 1 << 1
	ModShift Modifiers = 1 << 2
	ModSuper Modifiers = 1 << 3 // Win key on Windows, Cmd on macOS
)

func (m Modifiers) Has(flag Modifiers) bool { return m&flag != 0 }

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModSuper) {
		parts = append(parts, "Super")
	}
	return strings.Join(parts, "+")
}

// NamedKey is a non-printable key that resolves the same under every
// keyboard layout.
type NamedKey int

const (
	KeyNone NamedKey = iota
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyEnter
	KeyTab
	KeyEscape
	KeySpace
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
)

var namedKeyNames = map[NamedKey]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyBackspace: "Backspace",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
}

func (k NamedKey) String() string {
	if k >= KeyF1 && k <= KeyF24 {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if s, ok := namedKeyNames[k]; ok {
		return s
	}
	return "?"
}

// Gesture is an immutable, layout-independent hotkey definition: a modifier
// set plus either a printable character or a named key, never both.
type Gesture struct {
	Mods  Modifiers
	Char  rune
	Named NamedKey
}

// FromChar builds a gesture for a printable character that is resolved
// against the active keyboard layout at registration time.
func FromChar(mods Modifiers, r rune) Gesture {
	return Gesture{Mods: mods, Char: r}
}

// FromNamedKey builds a gesture for a layout-invariant named key.
func FromNamedKey(mods Modifiers, k NamedKey) Gesture {
	return Gesture{Mods: mods, Named: k}
}

// IsChar reports whether the gesture's key depends on the keyboard layout.
func (g Gesture) IsChar() bool { return g.Char != 0 }

func (g Gesture) IsZero() bool { return g.Char == 0 && g.Named == KeyNone }

func (g Gesture) keyLabel() string {
	if g.IsChar() {
		return string(unicode.ToUpper(g.Char))
	}
	return g.Named.String()
}

// DisplayString renders the canonical human-readable form, e.g. "Alt+Shift+F2".
func (g Gesture) DisplayString() string {
	return displayString(g.Mods, g.keyLabel())
}

func displayString(mods Modifiers, keyLabel string) string {
	if mods == ModNone {
		return keyLabel
	}
	return mods.String() + "+" + keyLabel
}

var namedKeyByName = map[string]NamedKey{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"space":     KeySpace,
	"backspace": KeyBackspace,
	"left":      KeyLeft,
	"right":     KeyRight,
	"up":        KeyUp,
	"down":      KeyDown,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"insert":    KeyInsert,
	"delete":    KeyDelete,
}

// ParseGesture parses the settings-file form, e.g. "ctrl+alt+s" or
// "alt+shift+f2". Modifier and key names are case-insensitive; the last
// '+'-separated token is the key.
func ParseGesture(s string) (Gesture, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	keyStr := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyStr == "" {
		// "alt++" (and bare "+") end in a separator, leaving an empty
		// last token: the key is the literal '+'.
		if len(modParts) == 0 || modParts[len(modParts)-1] != "" {
			return Gesture{}, fmt.Errorf("empty key in %q", s)
		}
		keyStr = "+"
		modParts = modParts[:len(modParts)-1]
	}

	var mods Modifiers
	for _, p := range modParts {
		switch strings.TrimSpace(p) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		case "super", "win", "cmd", "meta":
			mods |= ModSuper
		default:
			return Gesture{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}

	if k, ok := namedKeyByName[keyStr]; ok {
		return FromNamedKey(mods, k), nil
	}
	if len(keyStr) >= 2 && keyStr[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(keyStr, "f%d", &n); err == nil && n >= 1 && n <= 24 {
			return FromNamedKey(mods, KeyF1+NamedKey(n-1)), nil
		}
	}
	runes := []rune(keyStr)
	if len(runes) == 1 && unicode.IsPrint(runes[0]) && !unicode.IsSpace(runes[0]) {
		return FromChar(mods, runes[0]), nil
	}
	return Gesture{}, fmt.Errorf("unknown key %q in %q", keyStr, s)
}
