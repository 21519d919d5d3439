//go:build darwin

package main

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>
*/
import "C"

import (
	"os"
	"runtime"
)

func init() {
	// RunApplicationEventLoop must run on the thread main() starts on.
	runtime.LockOSThread()
}

// runWithEventLoop keeps the main thread pumping Carbon events (hotkey
// presses arrive there) while fn runs on its own goroutine. The loop never
// returns, so the process exits when fn does.
func runWithEventLoop(fn func()) {
	go func() {
		fn()
		os.Exit(0)
	}()
	C.RunApplicationEventLoop()
}
