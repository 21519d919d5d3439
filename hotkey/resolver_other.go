//go:build !windows && !darwin

package hotkey

import "fmt"

type stubResolver struct{}

func newResolver() Resolver {
	return stubResolver{}
}

func (stubResolver) Resolve(g Gesture) (*Resolved, error) {
	return nil, fmt.Errorf("hotkey resolution not supported on this platform")
}
