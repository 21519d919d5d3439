//go:build !gui

package main

func initGUI() {
	panic("snip: built without GUI support (rebuild with -tags gui)")
}
