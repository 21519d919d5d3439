//go:build !darwin

package main

import "testing"

func TestRunWithEventLoopRunsFn(t *testing.T) {
	ran := false
	runWithEventLoop(func() { ran = true })
	if !ran {
		t.Fatal("fn did not run")
	}
}
