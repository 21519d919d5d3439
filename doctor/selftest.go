package doctor

import (
	"fmt"
	"runtime"
	"time"
	"unicode"

	"github.com/micmonay/keybd_event"

	"snip/hotkey"
)

// synthesize presses the gesture's chord through the OS input layer so the
// registration check exercises the same path a real keypress takes.
func synthesize(g hotkey.Gesture) error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	if runtime.GOOS == "linux" {
		// uinput needs a moment before the virtual device accepts input
		time.Sleep(2 * time.Second)
	}

	code, err := synthKeyCode(g)
	if err != nil {
		return err
	}
	kb.SetKeys(code)
	kb.HasCTRL(g.Mods&hotkey.ModCtrl != 0)
	kb.HasALT(g.Mods&hotkey.ModAlt != 0)
	kb.HasSHIFT(g.Mods&hotkey.ModShift != 0)
	kb.HasSuper(g.Mods&hotkey.ModSuper != 0)

	time.Sleep(300 * time.Millisecond)
	return kb.Launching()
}

var synthLetterKeys = map[rune]int{
	'a': keybd_event.VK_A, 'b': keybd_event.VK_B, 'c': keybd_event.VK_C,
	'd': keybd_event.VK_D, 'e': keybd_event.VK_E, 'f': keybd_event.VK_F,
	'g': keybd_event.VK_G, 'h': keybd_event.VK_H, 'i': keybd_event.VK_I,
	'j': keybd_event.VK_J, 'k': keybd_event.VK_K, 'l': keybd_event.VK_L,
	'm': keybd_event.VK_M, 'n': keybd_event.VK_N, 'o': keybd_event.VK_O,
	'p': keybd_event.VK_P, 'q': keybd_event.VK_Q, 'r': keybd_event.VK_R,
	's': keybd_event.VK_S, 't': keybd_event.VK_T, 'u': keybd_event.VK_U,
	'v': keybd_event.VK_V, 'w': keybd_event.VK_W, 'x': keybd_event.VK_X,
	'y': keybd_event.VK_Y, 'z': keybd_event.VK_Z,
	'0': keybd_event.VK_0, '1': keybd_event.VK_1, '2': keybd_event.VK_2,
	'3': keybd_event.VK_3, '4': keybd_event.VK_4, '5': keybd_event.VK_5,
	'6': keybd_event.VK_6, '7': keybd_event.VK_7, '8': keybd_event.VK_8,
	'9': keybd_event.VK_9,
}

var synthNamedKeys = map[hotkey.NamedKey]int{
	hotkey.KeyF1: keybd_event.VK_F1, hotkey.KeyF2: keybd_event.VK_F2,
	hotkey.KeyF3: keybd_event.VK_F3, hotkey.KeyF4: keybd_event.VK_F4,
	hotkey.KeyF5: keybd_event.VK_F5, hotkey.KeyF6: keybd_event.VK_F6,
	hotkey.KeyF7: keybd_event.VK_F7, hotkey.KeyF8: keybd_event.VK_F8,
	hotkey.KeyF9: keybd_event.VK_F9, hotkey.KeyF10: keybd_event.VK_F10,
	hotkey.KeyF11:   keybd_event.VK_F11,
	hotkey.KeyF12:   keybd_event.VK_F12,
	hotkey.KeyEnter: keybd_event.VK_ENTER,
	hotkey.KeyTab:   keybd_event.VK_TAB,
	hotkey.KeySpace: keybd_event.VK_SPACE,
}

func synthKeyCode(g hotkey.Gesture) (int, error) {
	if g.IsChar() {
		if code, ok := synthLetterKeys[unicode.ToLower(g.Char)]; ok {
			return code, nil
		}
		return 0, fmt.Errorf("cannot synthesize %q", g.Char)
	}
	if code, ok := synthNamedKeys[g.Named]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("cannot synthesize %s", g.Named)
}
