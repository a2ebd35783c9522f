package service

import (
	"sync"
	"time"

	"homestyling/internal/model"
)

// Carousel rotates the landing-page promotional slides. Auto-advance runs on
// a fixed interval; any manual navigation resets the timer, and hover
// pause/resume maps to Pause/Resume.
type Carousel struct {
	mu       sync.Mutex
	slides   []model.Slide
	current  int
	interval time.Duration
	timer    *time.Timer
	paused   bool
	stopped  bool
}

// NewCarousel creates a rotator over a fixed slide array and starts autoplay.
func NewCarousel(slides []model.Slide, interval time.Duration) *Carousel {
	c := &Carousel{
		slides:   slides,
		interval: interval,
	}
	c.mu.Lock()
	c.scheduleLocked()
	c.mu.Unlock()
	return c
}

// State returns the current rotator view.
func (c *Carousel) State() model.CarouselState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CarouselState{
		Slides:  c.slides,
		Current: c.current,
		Paused:  c.paused,
	}
}

// Next advances one slide, wrapping past the end, and resets the timer.
func (c *Carousel) Next() int { return c.GoTo(c.index() + 1) }

// Prev steps one slide back, wrapping before the start, and resets the timer.
func (c *Carousel) Prev() int { return c.GoTo(c.index() - 1) }

// GoTo jumps to the given index modulo the slide count and resets the
// auto-advance timer.
func (c *Carousel) GoTo(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.slides) == 0 {
		return 0
	}
	c.current = ((index % len(c.slides)) + len(c.slides)) % len(c.slides)
	c.resetLocked()
	return c.current
}

// Pause halts auto-advance (hover enter).
func (c *Carousel) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Resume restarts auto-advance (hover leave).
func (c *Carousel) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.scheduleLocked()
}

// Stop shuts the rotator down for good.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Carousel) index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// advance is the timer callback; it steps forward and schedules the next tick.
func (c *Carousel) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.paused || len(c.slides) == 0 {
		return
	}
	c.current = (c.current + 1) % len(c.slides)
	c.scheduleLocked()
}

func (c *Carousel) resetLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !c.paused {
		c.scheduleLocked()
	}
}

func (c *Carousel) scheduleLocked() {
	if c.stopped || len(c.slides) == 0 {
		return
	}
	c.timer = time.AfterFunc(c.interval, c.advance)
}
