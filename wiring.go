package main

import (
	"fmt"
	"os"

	"github.com/kbinani/screenshot"

	"snip/hotkey"
	"snip/session"
	"snip/settings"
	"snip/shutdown"
)

// buildManager assembles the provider, layout monitor and orchestrator
// around the given collaborators. The returned cleanup tears down the native
// layer.
func buildManager(store *settings.Store, ctrl *session.Controller, dispatch hotkey.Dispatch, openSettingsUI func()) (*hotkey.Manager, func()) {
	provider := hotkey.NewProvider(dispatch)
	monitor := hotkey.NewLayoutMonitor(provider)

	mgr := hotkey.NewManager(hotkey.ManagerConfig{
		Provider:       provider,
		Monitor:        monitor,
		Settings:       store,
		Session:        ctrl,
		Dispatch:       dispatch,
		OpenSettingsUI: openSettingsUI,
	})
	return mgr, func() { mgr.Close() }
}

// fullScreenOverlay stands in for the interactive overlay in headless mode:
// "selecting" always yields the primary display's bounds.
type fullScreenOverlay struct{}

func (fullScreenOverlay) Show(onSelect func(session.Region), onCancel func()) {
	if screenshot.NumActiveDisplays() == 0 {
		onCancel()
		return
	}
	b := screenshot.GetDisplayBounds(0)
	onSelect(session.Region{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()})
}

func (fullScreenOverlay) Hide() {}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	<-sigChan
	fmt.Println()
}
