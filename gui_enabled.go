//go:build gui

package main

import (
	"fmt"
	"os"
	"runtime"

	"snip/gui"
	"snip/hotkey"
	"snip/log"
	"snip/session"
	"snip/settings"
)

var guiApp *gui.App

// initGUI owns the main thread: fyne's event loop must run there. The rest
// of the wiring happens in onReady once the loop is live.
func initGUI() {
	runtime.LockOSThread()

	logPath, err := log.ResolveDir("")
	if err == nil {
		log.SetDir(logPath)
		log.EnsureDir()
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
	}

	store, err := settings.Load(settings.ResolvePath(""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var mgr *hotkey.Manager
	guiApp = gui.NewApp(
		gui.Actions{
			CaptureRegion: func() { mgr.TriggerCapture() },
			OpenSettings:  func() { mgr.TriggerOpenSettings() },
		},
		store,
		func() { startHotkeys(store, &mgr) },
	)

	if err := gui.Run(guiApp); err != nil {
		log.Errorf("gui: %v", err)
		panic(err)
	}
	log.Close()
}

// startHotkeys runs once the fyne loop is live, so guiApp.Dispatch works.
func startHotkeys(store *settings.Store, mgrOut **hotkey.Manager) {
	if err := store.Watch(); err != nil {
		log.Warnf("settings watch: %v", err)
	}

	var mgr *hotkey.Manager
	ctrl := session.New(session.Config{
		Overlay: guiApp.Overlay(),
		Capture: session.CaptureToFile,
		OnClosed: func(bool) {
			go mgr.UnregisterCancelHotkey()
		},
	})

	mgr, _ = buildManager(store, ctrl, guiApp.Dispatch, guiApp.ShowSettings)
	*mgrOut = mgr

	if err := mgr.Initialize(); err != nil {
		log.Errorf("hotkeys: %v", err)
	}
}
