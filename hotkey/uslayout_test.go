package hotkey

import "testing"

func TestFallbackResolveASCII(t *testing.T) {
	// The degraded mode must still resolve every printable ASCII key class.
	for _, r := range "abcdefghijklmnopqrstuvwxyz0123456789-=[];'\\,./` " {
		if _, err := fallbackResolve(FromChar(ModNone, r)); err != nil {
			t.Errorf("fallbackResolve(%q): %v", r, err)
		}
	}
	for _, r := range "!@#$%^&*()_+{}:\"|<>?~" {
		res, err := fallbackResolve(FromChar(ModNone, r))
		if err != nil {
			t.Errorf("fallbackResolve(%q): %v", r, err)
			continue
		}
		if !res.Mods.Has(ModShift) {
			t.Errorf("fallbackResolve(%q): expected implicit Shift", r)
		}
	}
}

func TestFallbackResolveUppercaseLetters(t *testing.T) {
	lower, err := fallbackResolve(FromChar(ModAlt, 'a'))
	if err != nil {
		t.Fatal(err)
	}
	upper, err := fallbackResolve(FromChar(ModAlt, 'A'))
	if err != nil {
		t.Fatal(err)
	}
	if lower.KeyCode != upper.KeyCode {
		t.Errorf("keycode differs by case: %d vs %d", lower.KeyCode, upper.KeyCode)
	}
	// Lowercasing avoids spuriously forcing Shift for A-Z.
	if upper.Mods.Has(ModShift) {
		t.Error("letter resolution must not force Shift")
	}
}

func TestFallbackResolveNamedKeysStable(t *testing.T) {
	for _, k := range []NamedKey{KeyF1, KeyF12, KeyEnter, KeyEscape, KeyHome, KeyDelete, KeyUp} {
		first, err := fallbackResolve(FromNamedKey(ModCtrl, k))
		if err != nil {
			t.Fatalf("fallbackResolve(%s): %v", k, err)
		}
		// Named keys are a pure function of static tables.
		for i := 0; i < 3; i++ {
			again, err := fallbackResolve(FromNamedKey(ModCtrl, k))
			if err != nil {
				t.Fatal(err)
			}
			if *again != *first {
				t.Errorf("resolution of %s not stable: %+v vs %+v", k, first, again)
			}
		}
	}
}

func TestFallbackResolveUnmappable(t *testing.T) {
	if _, err := fallbackResolve(FromChar(ModNone, 'é')); err == nil {
		t.Error("non-US character should not resolve on the US fallback")
	}
	if _, err := fallbackResolve(FromNamedKey(ModNone, KeyF24)); err == nil {
		t.Error("F24 has no macOS keycode and should not resolve")
	}
}

func TestAnsiLetterTableNotSequential(t *testing.T) {
	// The macOS letter keycodes are not alphabetical; a couple of spot
	// checks guard against "helpful" reordering.
	if ansiLetterKeyCode['a'] != 0 || ansiLetterKeyCode['b'] != 11 || ansiLetterKeyCode['z'] != 6 {
		t.Error("ANSI letter table corrupted")
	}
}
