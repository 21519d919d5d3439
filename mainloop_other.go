//go:build !darwin

package main

// Windows providers own a message-pump thread and Linux has no provider, so
// fn can take the main goroutine directly.
func runWithEventLoop(fn func()) {
	fn()
}
