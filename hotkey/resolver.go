package hotkey

// Resolved is the concrete native chord a gesture maps to under the active
// keyboard layout. Mods includes any implicit modifier the OS requires to
// produce the character (e.g. Shift for '!'), which may not be part of the
// user's gesture. Produced fresh on every Resolve call; char resolutions are
// never cached across a layout change.
type Resolved struct {
	KeyCode uint32
	Mods    Modifiers
	Display string
}

// Resolver translates a gesture into a native keycode and effective modifier
// set using live OS keyboard-layout state. Resolve fails when the character
// cannot be typed under the active layout or a named key has no native
// mapping.
type Resolver interface {
	Resolve(g Gesture) (*Resolved, error)
}

// NewResolver returns the resolver for the current platform.
func NewResolver() Resolver {
	return newResolver()
}
