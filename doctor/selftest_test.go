package doctor

import (
	"testing"

	"snip/hotkey"
)

func TestSynthKeyCodeCoversDefaults(t *testing.T) {
	for _, g := range []hotkey.Gesture{
		hotkey.DefaultCaptureRegion,
		hotkey.DefaultOpenSettings,
	} {
		if _, err := synthKeyCode(g); err != nil {
			t.Errorf("default gesture %s not synthesizable: %v", g.DisplayString(), err)
		}
	}
}

func TestSynthKeyCodeUnsupported(t *testing.T) {
	if _, err := synthKeyCode(hotkey.FromChar(hotkey.ModAlt, 'é')); err == nil {
		t.Error("non-ASCII char should not be synthesizable")
	}
	if _, err := synthKeyCode(hotkey.FromNamedKey(hotkey.ModAlt, hotkey.KeyF24)); err == nil {
		t.Error("F24 should not be synthesizable")
	}
}
