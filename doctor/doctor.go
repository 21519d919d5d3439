// Package doctor runs interactive diagnostics for the hotkey stack.
package doctor

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"snip/hotkey"
	"snip/settings"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

func pass(format string, args ...any) {
	fmt.Printf("  %s %s\n", passStyle.Render("PASS"), fmt.Sprintf(format, args...))
}

func fail(format string, args ...any) {
	fmt.Printf("  %s %s\n", failStyle.Render("FAIL"), fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Printf("  %s %s\n", warnStyle.Render("warn"), fmt.Sprintf(format, args...))
}

func section(n, total int, title string) {
	fmt.Println()
	fmt.Println(headStyle.Render(fmt.Sprintf("[%d/%d] %s", n, total, title)))
}

// Run executes the diagnostic checks and returns an exit code. selfTest
// additionally synthesizes the capture chord instead of waiting for the user
// to press it.
func Run(settingsPath string, selfTest bool) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "doctor needs an interactive terminal")
		return 1
	}
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("snip doctor - hotkey diagnostics")
	fmt.Println("================================")

	allPass := true

	store, ok := checkSettings(settingsPath)
	if !ok {
		allPass = false
	}
	gestures := checkResolver(store)
	if gestures == nil {
		allPass = false
	}
	if allPass && !checkLiveHotkey(gestures, selfTest) {
		allPass = false
	}
	if allPass && !checkClipboard() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println(passStyle.Render("All checks passed!"))
		return 0
	}
	fmt.Println(failStyle.Render("Some checks failed. See details above."))
	return 1
}

func checkSettings(path string) (*settings.Store, bool) {
	section(1, 4, "Settings file")
	resolved := settings.ResolvePath(path)
	fmt.Printf("  %s\n", resolved)

	store, err := settings.Load(resolved)
	if err != nil {
		fail("%v", err)
		return nil, false
	}
	if g, ok := store.CaptureRegion(); ok {
		fmt.Printf("  capture_region: %s\n", g.DisplayString())
	} else {
		fmt.Printf("  capture_region: (default %s)\n", hotkey.DefaultCaptureRegion.DisplayString())
	}
	if g, ok := store.OpenSettings(); ok {
		fmt.Printf("  open_settings: %s\n", g.DisplayString())
	} else {
		fmt.Printf("  open_settings: (default %s)\n", hotkey.DefaultOpenSettings.DisplayString())
	}
	pass("settings readable")
	return store, true
}

// checkResolver resolves the effective gestures against the active keyboard
// layout and returns them for the live check.
func checkResolver(store *settings.Store) map[string]hotkey.Gesture {
	section(2, 4, "Gesture resolution")

	gestures := map[string]hotkey.Gesture{
		"capture_region": hotkey.DefaultCaptureRegion,
		"open_settings":  hotkey.DefaultOpenSettings,
	}
	if store != nil {
		if g, ok := store.CaptureRegion(); ok {
			gestures["capture_region"] = g
		}
		if g, ok := store.OpenSettings(); ok {
			gestures["open_settings"] = g
		}
	}

	resolver := hotkey.NewResolver()
	ok := true
	for name, g := range gestures {
		res, err := resolver.Resolve(g)
		if err != nil {
			fail("%s (%s): %v", name, g.DisplayString(), err)
			ok = false
			continue
		}
		fmt.Printf("  %s: %s -> keycode 0x%02X\n", name, res.Display, res.KeyCode)
	}
	if !ok {
		return nil
	}
	pass("all gestures resolve on the active layout")
	return gestures
}

func checkLiveHotkey(gestures map[string]hotkey.Gesture, selfTest bool) bool {
	section(3, 4, "Live registration")

	g := gestures["capture_region"]
	fired := make(chan struct{}, 1)
	provider := hotkey.NewProvider(func(fn func()) { fn() })
	defer provider.Close()

	if !provider.Supported() {
		warn("global hotkeys not supported on this platform, skipping")
		return true
	}
	if !provider.HasPermissions() {
		fail("no permission to register global hotkeys")
		return false
	}
	if !provider.Register("doctor_test", g, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}) {
		fail("could not register %s", g.DisplayString())
		return false
	}
	defer provider.Unregister("doctor_test")

	if selfTest {
		fmt.Printf("  synthesizing %s...\n", g.DisplayString())
		if err := synthesize(g); err != nil {
			fail("key synthesis: %v", err)
			return false
		}
	} else {
		fmt.Printf("  Press %s...\n", g.DisplayString())
	}

	select {
	case <-fired:
		pass("hotkey fired")
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fail("timeout waiting for hotkey")
		return false
	}
}

func checkClipboard() bool {
	section(4, 4, "Clipboard export")

	sentinel := "snip-doctor-" + time.Now().Format("150405")
	if err := clipboard.WriteAll(sentinel); err != nil {
		fail("clipboard write: %v", err)
		return false
	}
	got, err := clipboard.ReadAll()
	if err != nil {
		fail("clipboard read: %v", err)
		return false
	}
	if got != sentinel {
		fail("clipboard round trip (got %q)", got)
		return false
	}
	pass("clipboard round trip")
	return true
}
