package visibility

import (
	"sync"
	"time"
)

// Tray status strings.
const (
	StatusHidden  = "hidden"
	StatusWaiting = "waiting for file"
	StatusReading = "reading"
)

// DefaultHideDelay is how long the window stays visible after the last
// interaction before fading out.
const DefaultHideDelay = 5 * time.Second

// Controller owns the hidden flag and the auto-hide countdown.
//
// Three states: visible with the countdown armed, visible with empty content
// (countdown suppressed), and hidden. Hiding is a cosmetic fade driven
// through OnHide — the window keeps its position and size, only the alpha
// drops to zero.
//
// Callers come from the UI thread, the tray menu goroutine, and the global
// hotkey goroutine, so state is mutexed. Callbacks run outside the lock.
type Controller struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	hidden bool
	empty  bool

	// Registered once at startup, before the first transition.
	OnHide   func()
	OnShow   func()
	OnStatus func(status string)
}

// New creates a controller in the visible-empty state.
func New(delay time.Duration) *Controller {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Controller{delay: delay, empty: true}
}

// Touch records a user interaction: the countdown restarts from zero. No-op
// while hidden or while content is empty.
func (c *Controller) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hidden || c.empty {
		return
	}
	c.armLocked()
}

// Hide fades the window out and stops the countdown.
func (c *Controller) Hide() {
	c.mu.Lock()
	if c.hidden {
		c.mu.Unlock()
		return
	}
	c.hidden = true
	c.stopLocked()
	onHide, onStatus, status := c.OnHide, c.OnStatus, c.statusLocked()
	c.mu.Unlock()

	if onHide != nil {
		onHide()
	}
	if onStatus != nil {
		onStatus(status)
	}
}

// Show restores the prior opacity and re-arms the countdown unless content
// is empty.
func (c *Controller) Show() {
	c.mu.Lock()
	c.hidden = false
	if c.empty {
		c.stopLocked()
	} else {
		c.armLocked()
	}
	onShow, onStatus, status := c.OnShow, c.OnStatus, c.statusLocked()
	c.mu.Unlock()

	if onShow != nil {
		onShow()
	}
	if onStatus != nil {
		onStatus(status)
	}
}

// Toggle hides a visible non-empty window, otherwise shows it.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	hideIt := !c.hidden && !c.empty
	c.mu.Unlock()

	if hideIt {
		c.Hide()
	} else {
		c.Show()
	}
	return !c.Hidden()
}

// SetEmpty tracks whether the display buffer has content. Empty content
// suppresses auto-hide entirely; loading content while visible arms it.
func (c *Controller) SetEmpty(empty bool) {
	c.mu.Lock()
	c.empty = empty
	if empty {
		c.stopLocked()
	} else if !c.hidden {
		c.armLocked()
	}
	onStatus, status := c.OnStatus, c.statusLocked()
	c.mu.Unlock()

	if onStatus != nil {
		onStatus(status)
	}
}

// Hidden reports whether the window is faded out.
func (c *Controller) Hidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hidden
}

// Empty reports whether auto-hide is suppressed.
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.empty
}

// Status returns the tray status line for the current state.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() string {
	switch {
	case c.hidden:
		return StatusHidden
	case c.empty:
		return StatusWaiting
	default:
		return StatusReading
	}
}

func (c *Controller) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.expire)
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// expire runs when the countdown fires. The empty and hidden checks are
// repeated here because the state may have changed after a stale timer was
// stopped but already scheduled.
func (c *Controller) expire() {
	c.mu.Lock()
	if c.empty || c.hidden {
		c.mu.Unlock()
		return
	}
	c.hidden = true
	c.stopLocked()
	onHide, onStatus, status := c.OnHide, c.OnStatus, c.statusLocked()
	c.mu.Unlock()

	if onHide != nil {
		onHide()
	}
	if onStatus != nil {
		onStatus(status)
	}
}
