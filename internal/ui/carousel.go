package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastTimerID atomic.Int64

func nextTimerID() int {
	return int(lastTimerID.Add(1))
}

// carouselTickMsg advances the carousel that scheduled it. Ticks whose id or
// tag no longer match are dropped, so a stopped carousel never changes.
type carouselTickMsg struct {
	id  int
	tag int
}

// carousel cycles an index over a fixed number of banners.
type carousel struct {
	id       int
	tag      int
	index    int
	count    int
	interval time.Duration
	running  bool
}

func newCarousel(count int, interval time.Duration) carousel {
	if interval <= 0 {
		interval = defaultCarouselInterval
	}
	return carousel{id: nextTimerID(), count: count, interval: interval}
}

// Start begins auto-advance and returns the first tick.
func (c carousel) Start() (carousel, tea.Cmd) {
	if c.count <= 1 {
		return c, nil
	}
	c.running = true
	c.tag++
	return c, c.tick()
}

// Stop cancels any tick already in flight.
func (c carousel) Stop() carousel {
	c.running = false
	c.tag++
	return c
}

// Index returns the current banner, always in [0, count).
func (c carousel) Index() int {
	return c.index
}

// Step moves the index by delta without touching the running timer.
func (c carousel) Step(delta int) carousel {
	if c.count == 0 {
		return c
	}
	c.index = ((c.index+delta)%c.count + c.count) % c.count
	return c
}

func (c carousel) Update(msg tea.Msg) (carousel, tea.Cmd) {
	tick, ok := msg.(carouselTickMsg)
	if !ok || !c.running || tick.id != c.id || tick.tag != c.tag {
		return c, nil
	}
	c.index = (c.index + 1) % c.count
	c.tag++
	return c, c.tick()
}

func (c carousel) tick() tea.Cmd {
	id, tag := c.id, c.tag
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return carouselTickMsg{id: id, tag: tag}
	})
}
