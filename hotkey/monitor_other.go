//go:build !windows && !darwin

package hotkey

func newLayoutMonitor(Provider) LayoutMonitor {
	return nil
}
