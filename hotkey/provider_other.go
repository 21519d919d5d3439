//go:build !windows && !darwin

package hotkey

// stubProvider is the slot for platforms without an implementation. The
// orchestrator detects Supported() == false and degrades to a no-op.
type stubProvider struct{}

func newProvider(Dispatch) Provider {
	return stubProvider{}
}

func (stubProvider) Register(string, Gesture, func()) bool { return false }
func (stubProvider) Unregister(string) bool                { return false }
func (stubProvider) UnregisterAll()                        {}
func (stubProvider) Supported() bool                       { return false }
func (stubProvider) HasPermissions() bool                  { return false }
func (stubProvider) LayoutChanges() <-chan struct{}        { return nil }
func (stubProvider) Close() error                          { return nil }
