//go:build !windows

package main

// registerGlobalHotkey is a no-op on non-Windows platforms; the tray menu
// and the in-window shortcut still toggle visibility.
func (a *App) registerGlobalHotkey() {
	// No-op
}
