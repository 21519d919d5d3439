//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snip/session"
)

// overlayWindow is the fullscreen region-selection surface. It implements
// session.Overlay. The window is created lazily on first Show so idle runs
// never pay for it.
type overlayWindow struct {
	app    fyne.App
	window fyne.Window
	area   *selectionArea
}

func newOverlayWindow(app fyne.App) *overlayWindow {
	return &overlayWindow{app: app}
}

// Show must run on the UI thread. Exactly one of the callbacks fires.
func (o *overlayWindow) Show(onSelect func(session.Region), onCancel func()) {
	if o.window == nil {
		if drv, ok := o.app.Driver().(desktop.Driver); ok {
			o.window = drv.CreateSplashWindow()
		} else {
			o.window = o.app.NewWindow("snip")
		}
		o.area = newSelectionArea()
		o.window.SetContent(o.area)
		o.window.SetPadded(false)
		o.window.SetFullScreen(true)
	}
	o.area.arm(onSelect, onCancel)
	o.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			o.area.cancel()
		}
	})
	o.window.Show()
}

// Hide must run on the UI thread.
func (o *overlayWindow) Hide() {
	if o.window != nil {
		o.window.Hide()
	}
}

// selectionArea is the drag-to-select widget filling the overlay. A drag
// paints a rubber band and reports the final rectangle; a plain click
// cancels.
type selectionArea struct {
	widget.BaseWidget

	onSelect func(session.Region)
	onCancel func()

	dragging bool
	origin   fyne.Position
	current  fyne.Position

	dim  *canvas.Rectangle
	band *canvas.Rectangle
}

func newSelectionArea() *selectionArea {
	a := &selectionArea{
		dim:  canvas.NewRectangle(color.NRGBA{A: 96}),
		band: canvas.NewRectangle(color.NRGBA{R: 200, G: 200, B: 200, A: 48}),
	}
	a.band.StrokeColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	a.band.StrokeWidth = 1
	a.band.Hide()
	a.ExtendBaseWidget(a)
	return a
}

// arm resets the widget for a new interaction.
func (a *selectionArea) arm(onSelect func(session.Region), onCancel func()) {
	a.onSelect = onSelect
	a.onCancel = onCancel
	a.dragging = false
	a.band.Hide()
}

func (a *selectionArea) cancel() {
	a.dragging = false
	if a.onCancel != nil {
		a.onCancel()
	}
}

func (a *selectionArea) Tapped(*fyne.PointEvent) {
	a.cancel()
}

func (a *selectionArea) Dragged(ev *fyne.DragEvent) {
	if !a.dragging {
		a.dragging = true
		a.origin = fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		a.band.Show()
	}
	a.current = ev.Position
	a.refreshBand()
}

func (a *selectionArea) DragEnd() {
	if !a.dragging {
		return
	}
	a.dragging = false
	r := a.region()
	if r.W < 2 || r.H < 2 {
		a.cancel()
		return
	}
	if a.onSelect != nil {
		a.onSelect(r)
	}
}

func (a *selectionArea) region() session.Region {
	x1, x2 := a.origin.X, a.current.X
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	y1, y2 := a.origin.Y, a.current.Y
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return session.Region{X: int(x1), Y: int(y1), W: int(x2 - x1), H: int(y2 - y1)}
}

func (a *selectionArea) refreshBand() {
	r := a.region()
	a.band.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	a.band.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
	a.band.Refresh()
}

func (a *selectionArea) CreateRenderer() fyne.WidgetRenderer {
	return &selectionRenderer{area: a}
}

type selectionRenderer struct {
	area *selectionArea
}

func (r *selectionRenderer) Layout(size fyne.Size) {
	r.area.dim.Resize(size)
}

func (r *selectionRenderer) MinSize() fyne.Size {
	return fyne.NewSize(64, 64)
}

func (r *selectionRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.area.dim, r.area.band}
}

func (r *selectionRenderer) Refresh() {
	r.area.dim.Refresh()
}

func (r *selectionRenderer) Destroy() {}
