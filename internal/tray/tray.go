package tray

import (
	_ "embed"

	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// Options wires tray menu actions back to the app.
type Options struct {
	Tooltip    string
	OnShow     func()
	OnHide     func()
	OnOpenFile func()
	OnQuit     func()
}

// Manager owns the tray icon and its menu. The status item mirrors the
// visibility controller and is read-only.
type Manager struct {
	opts       Options
	menuStatus *systray.MenuItem
	menuShow   *systray.MenuItem
	menuHide   *systray.MenuItem
	menuOpen   *systray.MenuItem
	menuQuit   *systray.MenuItem
}

// New creates a tray manager. Call Start from its own goroutine; systray
// runs its own loop.
func New(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Start runs the tray until Stop or quit. Blocks; run from a goroutine.
// onReady fires once the icon exists, so the caller can confirm the tray
// came up at all.
func (m *Manager) Start(onReady func()) {
	systray.Run(func() {
		m.onReady()
		if onReady != nil {
			onReady()
		}
	}, func() {})
}

// Stop tears the tray icon down.
func (m *Manager) Stop() {
	systray.Quit()
}

func (m *Manager) onReady() {
	systray.SetIcon(iconData)
	systray.SetTitle("Reader")
	systray.SetTooltip(m.opts.Tooltip)

	m.menuStatus = systray.AddMenuItem("Status: waiting for file", "Current reader state")
	m.menuStatus.Disable()
	systray.AddSeparator()

	m.menuShow = systray.AddMenuItem("Show window", "Restore the overlay")
	m.menuHide = systray.AddMenuItem("Hide window", "Fade the overlay out")
	systray.AddSeparator()

	m.menuOpen = systray.AddMenuItem("Open file…", "Choose a text file to read")
	systray.AddSeparator()

	m.menuQuit = systray.AddMenuItem("Quit", "Exit the reader")

	go m.handleMenuEvents()
}

func (m *Manager) handleMenuEvents() {
	for {
		select {
		case <-m.menuShow.ClickedCh:
			if m.opts.OnShow != nil {
				m.opts.OnShow()
			}
		case <-m.menuHide.ClickedCh:
			if m.opts.OnHide != nil {
				m.opts.OnHide()
			}
		case <-m.menuOpen.ClickedCh:
			if m.opts.OnOpenFile != nil {
				m.opts.OnOpenFile()
			}
		case <-m.menuQuit.ClickedCh:
			if m.opts.OnQuit != nil {
				m.opts.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetStatus updates the read-only status item and the tooltip.
func (m *Manager) SetStatus(status string) {
	if m.menuStatus == nil {
		return
	}
	m.menuStatus.SetTitle("Status: " + status)
	systray.SetTooltip(m.opts.Tooltip + " - " + status)
}
