package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"snip/doctor"
	"snip/hotkey"
	"snip/log"
	"snip/session"
	"snip/settings"
)

var version = "dev"

func main() {
	// -gui takes over the main thread before flag.Parse runs
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	// Non-GUI modes still need the platform event loop on the main
	// thread, or Carbon hotkey events would never be delivered.
	runWithEventLoop(run)
}

func run() {
	guiFlag := flag.Bool("gui", false, "Run with tray icon and capture overlay")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run hotkey diagnostics and exit")
	selfTestFlag := flag.Bool("selftest", false, "With -doctor: synthesize the chord instead of waiting")
	testHotkeyFlag := flag.String("testhotkey", "", "Count fires of the given chord (e.g. alt+a) until quit")
	settingsFlag := flag.String("settings", "", "settings file path (default: OS-specific location)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	flag.Parse()
	_ = guiFlag

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *versionFlag {
		fmt.Printf("snip %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*settingsFlag, *selfTestFlag))
	}

	if *testHotkeyFlag != "" {
		runTestMode(*testHotkeyFlag)
		return
	}

	runHeadless(*settingsFlag)
}

// runHeadless is the no-overlay mode: hotkeys stay live and the capture
// chord grabs the primary display instead of a user-selected region.
func runHeadless(settingsPath string) {
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	store, err := settings.Load(settings.ResolvePath(settingsPath))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := store.Watch(); err != nil {
		log.Warnf("settings watch: %v", err)
	}
	defer store.Close()

	var mgr *hotkey.Manager
	ctrl := session.New(session.Config{
		Overlay: fullScreenOverlay{},
		Capture: session.CaptureToFile,
		OnClosed: func(bool) {
			go mgr.UnregisterCancelHotkey()
		},
	})

	mgr, cleanup := buildManager(store, ctrl, func(fn func()) { fn() }, nil)
	defer cleanup()

	if err := mgr.Initialize(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("snip running headless; Ctrl+C to quit")
	waitForSignal()
	mgr.Close()
}
