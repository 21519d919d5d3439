//go:build gui

package gui

import (
	_ "embed"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snip/log"
	"snip/login"
)

//go:embed assets/tray.png
var trayIcon []byte

// Actions are the tray/menu entry points, injected by main so the gui layer
// never reaches back into the hotkey machinery directly.
type Actions struct {
	CaptureRegion func()
	OpenSettings  func()
}

// SettingsForm is what the settings window reads and writes. Chords are the
// textual form, empty meaning "use the default".
type SettingsForm interface {
	HotkeyStrings() (captureRegion, openSettings string)
	SetHotkeys(captureRegion, openSettings string) error
}

type App struct {
	fyneApp fyne.App
	overlay *overlayWindow
	actions Actions
	form    SettingsForm
	onReady func()

	settingsWin fyne.Window
}

func NewApp(actions Actions, form SettingsForm, onReady func()) *App {
	return &App{actions: actions, form: form, onReady: onReady}
}

// Run starts the fyne event loop on the calling goroutine and blocks until
// Quit. onReady fires on a fresh goroutine once the loop is live.
func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.snip.gui")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	if desk, ok := a.fyneApp.(desktop.App); ok {
		icon := fyne.NewStaticResource("tray.png", trayIcon)
		loginItem := fyne.NewMenuItem("Start at Login", nil)
		loginItem.Checked = login.Enabled()
		menu := fyne.NewMenu("snip",
			fyne.NewMenuItem("Capture Region", func() {
				if a.actions.CaptureRegion != nil {
					a.actions.CaptureRegion()
				}
			}),
			fyne.NewMenuItem("Settings", func() {
				if a.actions.OpenSettings != nil {
					a.actions.OpenSettings()
				}
			}),
			fyne.NewMenuItemSeparator(),
			loginItem,
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", func() {
				a.fyneApp.Quit()
			}),
		)
		loginItem.Action = func() {
			var err error
			if loginItem.Checked {
				err = login.Disable()
			} else {
				err = login.Enable()
			}
			if err != nil {
				log.Warnf("start at login: %v", err)
				return
			}
			loginItem.Checked = !loginItem.Checked
			menu.Refresh()
		}
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(icon)
	}

	a.overlay = newOverlayWindow(a.fyneApp)

	go a.onReady()

	a.fyneApp.Run()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

// Dispatch marshals fn onto the fyne UI thread. It is the one dispatcher the
// rest of the app sees.
func (a *App) Dispatch(fn func()) {
	fyne.Do(fn)
}

// Overlay exposes the region-selection surface for the session controller.
func (a *App) Overlay() *overlayWindow {
	return a.overlay
}

// ShowSettings opens (or focuses) the settings window. Must run on the UI
// thread.
func (a *App) ShowSettings() {
	if a.settingsWin != nil {
		a.settingsWin.RequestFocus()
		return
	}
	w := a.fyneApp.NewWindow("snip settings")
	a.settingsWin = w

	capture, open := "", ""
	if a.form != nil {
		capture, open = a.form.HotkeyStrings()
	}
	captureEntry := widget.NewEntry()
	captureEntry.SetPlaceHolder("alt+a")
	captureEntry.SetText(capture)
	openEntry := widget.NewEntry()
	openEntry.SetPlaceHolder("alt+o")
	openEntry.SetText(open)

	status := widget.NewLabel("")
	form := widget.NewForm(
		widget.NewFormItem("Capture region", captureEntry),
		widget.NewFormItem("Open settings", openEntry),
	)
	form.SubmitText = "Save"
	form.OnSubmit = func() {
		if a.form == nil {
			return
		}
		if err := a.form.SetHotkeys(captureEntry.Text, openEntry.Text); err != nil {
			status.SetText(err.Error())
			return
		}
		status.SetText("Saved")
	}

	w.SetContent(container.NewVBox(form, status))
	w.SetOnClosed(func() { a.settingsWin = nil })
	w.Resize(fyne.NewSize(360, 180))
	w.Show()
}
