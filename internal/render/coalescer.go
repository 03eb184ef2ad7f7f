package render

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg fires once per scheduled frame of a ResizeCoalescer
type FrameMsg struct{}

// ResizeCoalescer collapses bursts of size changes into at most one sync per frame
type ResizeCoalescer struct {
	interval     time.Duration
	scheduled    bool
	latest       ContainerBox
	disconnected bool
}

func NewResizeCoalescer(interval time.Duration) *ResizeCoalescer {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &ResizeCoalescer{interval: interval}
}

// Observe records box and schedules a frame unless one is already pending
func (c *ResizeCoalescer) Observe(box ContainerBox) tea.Cmd {
	if c.disconnected {
		return nil
	}
	c.latest = box
	if c.scheduled {
		return nil
	}
	c.scheduled = true
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// Frame clears the pending flag and returns the latest observed box
func (c *ResizeCoalescer) Frame(FrameMsg) (ContainerBox, bool) {
	if c.disconnected || !c.scheduled {
		return ContainerBox{}, false
	}
	c.scheduled = false
	return c.latest, true
}

// Pending reports whether a frame is scheduled
func (c *ResizeCoalescer) Pending() bool {
	return c.scheduled
}

// Disconnect stops observing. Safe to call more than once.
func (c *ResizeCoalescer) Disconnect() {
	c.disconnected = true
	c.scheduled = false
}
