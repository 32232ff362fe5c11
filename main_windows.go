//go:build windows

package main

import (
	goruntime "runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Win32 constants for RegisterHotKey
const (
	_MOD_ALT     = 0x0001
	_MOD_CONTROL = 0x0002
	_VK_T        = 0x54
	_WM_HOTKEY   = 0x0312
)

type winMsg struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// registerGlobalHotkey binds Ctrl+Alt+T to visibility toggling, so the
// overlay can be brought back while another application has focus.
// RegisterHotKey and its message loop must share one OS thread.
func (a *App) registerGlobalHotkey() {
	go func() {
		goruntime.LockOSThread()
		defer goruntime.UnlockOSThread()

		user32 := windows.NewLazyDLL("user32.dll")
		procRegisterHotKey := user32.NewProc("RegisterHotKey")
		procGetMessage := user32.NewProc("GetMessageW")

		ret, _, _ := procRegisterHotKey.Call(0, 1, _MOD_CONTROL|_MOD_ALT, _VK_T)
		if ret == 0 {
			a.log.Error().Msg("failed to register Ctrl+Alt+T hotkey")
			return
		}

		var msg winMsg
		for {
			r, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(r) <= 0 {
				return
			}
			if msg.Message == _WM_HOTKEY {
				a.ToggleVisibility()
			}
		}
	}()
}
