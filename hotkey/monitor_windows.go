//go:build windows

package hotkey

// Windows pushes WM_INPUTLANGCHANGE through the provider's hidden window, so
// the monitor just forwards that channel.
func newLayoutMonitor(p Provider) LayoutMonitor {
	src := p.LayoutChanges()
	if src == nil {
		return nil
	}
	return newEventMonitor(src)
}
