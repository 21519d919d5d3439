//go:build windows

package hotkey

import (
	"fmt"
	"unicode"
)

type windowsResolver struct{}

func newResolver() Resolver {
	return windowsResolver{}
}

var winNamedKeyCode = map[NamedKey]uint32{
	KeyEnter:     0x0D,
	KeyTab:       0x09,
	KeyEscape:    0x1B,
	KeySpace:     0x20,
	KeyBackspace: 0x08,
	KeyPageUp:    0x21,
	KeyPageDown:  0x22,
	KeyEnd:       0x23,
	KeyHome:      0x24,
	KeyLeft:      0x25,
	KeyUp:        0x26,
	KeyRight:     0x27,
	KeyDown:      0x28,
	KeyInsert:    0x2D,
	KeyDelete:    0x2E,
}

// Resolve maps a gesture onto a Windows virtual keycode using the active
// keyboard layout of the current thread.
func (windowsResolver) Resolve(g Gesture) (*Resolved, error) {
	if !g.IsChar() {
		vk, ok := winNamedKeyCode[g.Named]
		if !ok {
			if g.Named >= KeyF1 && g.Named <= KeyF24 {
				vk = 0x70 + uint32(g.Named-KeyF1) // VK_F1
			} else {
				return nil, fmt.Errorf("no virtual keycode for %s", g.Named)
			}
		}
		return &Resolved{KeyCode: vk, Mods: g.Mods, Display: g.DisplayString()}, nil
	}

	// Lowercase first: VkKeyScanEx reports A-Z with a Shift state for the
	// uppercase form, which would spuriously force Shift into the chord.
	lower := unicode.ToLower(g.Char)
	hkl, _, _ := procGetKeyboardLayout.Call(0)
	ret, _, _ := procVkKeyScanExW.Call(uintptr(lower), hkl)
	scan := int16(ret)
	if scan == -1 {
		return nil, fmt.Errorf("character %q not typeable under active layout", g.Char)
	}

	vk := uint32(byte(scan))
	shiftState := byte(scan >> 8)
	mods := g.Mods
	if shiftState&0x01 != 0 {
		mods |= ModShift
	}
	if shiftState&0x02 != 0 {
		mods |= ModCtrl
	}
	if shiftState&0x04 != 0 {
		mods |= ModAlt
	}
	return &Resolved{KeyCode: vk, Mods: mods, Display: displayString(mods, g.keyLabel())}, nil
}
