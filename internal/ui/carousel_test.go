package ui

import (
	"testing"
	"time"
)

func tickFor(c carousel) carouselTickMsg {
	return carouselTickMsg{id: c.id, tag: c.tag}
}

func TestCarousel_IndexAfterNTicks(t *testing.T) {
	c := newCarousel(5, time.Second)
	c, cmd := c.Start()
	if cmd == nil {
		t.Fatal("Start returned nil cmd")
	}

	for n := 1; n <= 23; n++ {
		c, cmd = c.Update(tickFor(c))
		if cmd == nil {
			t.Fatalf("tick %d: Update returned nil cmd while running", n)
		}
		if got, want := c.Index(), n%5; got != want {
			t.Fatalf("after %d ticks index = %d, want %d", n, got, want)
		}
		if c.Index() < 0 || c.Index() > 4 {
			t.Fatalf("index %d out of range", c.Index())
		}
	}
}

func TestCarousel_StopDropsInFlightTick(t *testing.T) {
	c := newCarousel(5, time.Second)
	c, _ = c.Start()
	pending := tickFor(c)

	c = c.Stop()
	c, cmd := c.Update(pending)
	if cmd != nil {
		t.Fatal("stopped carousel scheduled another tick")
	}
	if c.Index() != 0 {
		t.Fatalf("stopped carousel advanced to %d", c.Index())
	}
}

func TestCarousel_IgnoresStaleAndForeignTicks(t *testing.T) {
	a := newCarousel(5, time.Second)
	b := newCarousel(5, time.Second)
	a, _ = a.Start()
	b, _ = b.Start()

	stale := tickFor(a)
	a, _ = a.Update(stale)
	if a.Index() != 1 {
		t.Fatalf("index = %d, want 1", a.Index())
	}
	// Delivering the same tick twice must not advance again.
	a, _ = a.Update(stale)
	if a.Index() != 1 {
		t.Fatalf("duplicate tick advanced index to %d", a.Index())
	}

	b, _ = b.Update(tickFor(a))
	if b.Index() != 0 {
		t.Fatalf("foreign tick advanced index to %d", b.Index())
	}
}

func TestCarousel_SingleBannerDoesNotTick(t *testing.T) {
	c := newCarousel(1, time.Second)
	if _, cmd := c.Start(); cmd != nil {
		t.Fatal("single-banner carousel scheduled a tick")
	}
}

func TestCarousel_StepWraps(t *testing.T) {
	c := newCarousel(5, time.Second)
	c = c.Step(-1)
	if c.Index() != 4 {
		t.Fatalf("Step(-1) from 0 = %d, want 4", c.Index())
	}
	c = c.Step(3)
	if c.Index() != 2 {
		t.Fatalf("Step(3) from 4 = %d, want 2", c.Index())
	}
}

func TestSplash_TimerHides(t *testing.T) {
	s := newSplash(5 * time.Second)
	if !s.visible {
		t.Fatal("splash not visible")
	}
	if s.Start() == nil {
		t.Fatal("Start returned nil cmd")
	}
	s = s.Update(splashDoneMsg{id: s.id})
	if s.visible {
		t.Fatal("splash still visible after timer")
	}
}

func TestSplash_DismissIgnoresLateTimer(t *testing.T) {
	s := newSplash(5 * time.Second)
	pending := splashDoneMsg{id: s.id}

	s = s.Dismiss()
	if s.visible {
		t.Fatal("splash visible after Dismiss")
	}
	if s.id == pending.id {
		t.Fatal("Dismiss kept the pending timer id")
	}
	s = s.Update(pending)
	if s.visible {
		t.Fatal("late timer changed dismissed splash")
	}
}

func TestSplash_ZeroDelayDisabled(t *testing.T) {
	s := newSplash(0)
	if s.visible {
		t.Fatal("zero-delay splash is visible")
	}
	if s.Start() != nil {
		t.Fatal("zero-delay splash scheduled a timer")
	}
}
