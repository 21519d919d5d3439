package hotkey

import "time"

// Dispatch runs a function asynchronously on the application's UI thread.
// Provider callbacks are always delivered through it, never on the native
// message-loop or event thread.
type Dispatch func(func())

// nativeCallTimeout bounds every cross-thread native call in both
// directions. A timeout is treated as failure, never an indefinite hang.
const nativeCallTimeout = 2 * time.Second

// Provider owns one platform's native hotkey facility: its message loop or
// event handler, the resolver, and the versioned registration state.
type Provider interface {
	// Register resolves the gesture against the live keyboard layout and
	// reserves the chord system-wide under the given id, replacing any prior
	// registration for that id. Returns false on resolution failure, native
	// rejection (e.g. chord owned by another process) or when a newer
	// operation for the same id superseded this one mid-flight.
	Register(id string, g Gesture, cb func()) bool

	// Unregister releases the chord registered under id. Returns false when
	// nothing is registered for it.
	Unregister(id string) bool

	// UnregisterAll releases every live registration.
	UnregisterAll()

	// Supported reports whether this platform has a working implementation.
	Supported() bool

	// HasPermissions reports whether the OS will let us register hotkeys.
	HasPermissions() bool

	// LayoutChanges signals keyboard-layout switches when the platform
	// pushes them through the provider's native loop. Nil when it does not.
	LayoutChanges() <-chan struct{}

	// Close tears down the native resources. Idempotent; concurrent
	// operations fail fast once disposal has begun.
	Close() error
}

// NewProvider returns the hotkey provider for the current platform.
func NewProvider(dispatch Dispatch) Provider {
	return newProvider(dispatch)
}
