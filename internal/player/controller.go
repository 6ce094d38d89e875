// Package player coordinates one playback handle with the memo store:
// selection, transport controls, speed, and end-of-track behavior.
package player

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"memovox/internal/memo"
)

// ErrLoadFailure marks a source that could not be loaded or started. The
// selection still sticks; only the playing flag stays false.
var ErrLoadFailure = errors.New("player: load failure")

// Controller is the playback state machine. It owns the handle exclusively
// and is driven from the UI event loop: user intents call its methods, handle
// notifications arrive through Dispatch. No locking needed.
type Controller struct {
	handle Handle
	store  *memo.Store

	activeID string
	playing  bool
	position float64
	duration float64
	rateIdx  int
	mode     Mode
}

// NewController returns a controller in the idle state, rate 1.0, loop-all.
func NewController(handle Handle, store *memo.Store) *Controller {
	return &Controller{
		handle:  handle,
		store:   store,
		rateIdx: 1, // 1.0x
		mode:    LoopAll,
	}
}

// ActiveID returns the id of the loaded memo, or "" when idle.
func (c *Controller) ActiveID() string { return c.activeID }

// IsPlaying reports whether the handle is currently producing audio.
func (c *Controller) IsPlaying() bool { return c.playing }

// Position returns the playback cursor in seconds.
func (c *Controller) Position() float64 { return c.position }

// Duration returns the loaded memo's length in seconds.
func (c *Controller) Duration() float64 { return c.duration }

// Rate returns the current speed multiplier.
func (c *Controller) Rate() float64 { return Rates[c.rateIdx] }

// Mode returns the current end-of-track mode.
func (c *Controller) Mode() Mode { return c.mode }

// Select makes the given memo active. Selecting the already-active memo
// toggles play/pause and keeps the position; selecting another memo loads it
// from the start and plays immediately. Ids not present in the store are
// ignored.
func (c *Controller) Select(id string) error {
	m := c.store.FindByID(id)
	if m == nil {
		return nil
	}
	if id == c.activeID {
		if c.playing {
			c.Pause()
			return nil
		}
		return c.Resume()
	}
	return c.load(m)
}

// load swaps the handle to the memo and starts playback. The active id is
// updated even when loading fails, so the UI keeps showing the selection.
func (c *Controller) load(m *memo.Memo) error {
	c.activeID = m.ID
	c.position = 0
	c.duration = m.Duration
	c.playing = false

	if err := c.handle.Load(m); err != nil {
		zap.L().Warn("memo failed to load", zap.String("id", m.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	c.handle.SetRate(c.Rate())
	if err := c.handle.Play(); err != nil {
		zap.L().Warn("playback failed to start", zap.String("id", m.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	c.playing = true
	return nil
}

// Activate loads a memo without starting playback, leaving the controller
// loaded-paused at position zero. A freshly finalized recording goes through
// here. Ids not present in the store are ignored.
func (c *Controller) Activate(id string) error {
	m := c.store.FindByID(id)
	if m == nil {
		return nil
	}
	c.activeID = m.ID
	c.position = 0
	c.duration = m.Duration
	c.playing = false

	if err := c.handle.Load(m); err != nil {
		zap.L().Warn("memo failed to load", zap.String("id", m.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	c.handle.SetRate(c.Rate())
	return nil
}

// Pause halts playback. No-op when nothing is active.
func (c *Controller) Pause() {
	if c.activeID == "" {
		return
	}
	c.handle.Pause()
	c.playing = false
}

// Resume restarts playback from the current position. No-op when nothing is
// active.
func (c *Controller) Resume() error {
	if c.activeID == "" {
		return nil
	}
	if err := c.handle.Play(); err != nil {
		c.playing = false
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	c.playing = true
	return nil
}

// SeekTo moves the cursor, clamped to [0, duration].
func (c *Controller) SeekTo(seconds float64) {
	if c.activeID == "" {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > c.duration {
		seconds = c.duration
	}
	c.handle.SetPosition(seconds)
	c.position = seconds
}

// Skip moves the cursor relative to the current position, clamped.
func (c *Controller) Skip(deltaSeconds float64) {
	c.SeekTo(c.position + deltaSeconds)
}

// SetRate applies one of the fixed speed multipliers. Values outside the set
// are ignored. The rate sticks across track changes.
func (c *Controller) SetRate(rate float64) {
	for i, r := range Rates {
		if r == rate {
			c.rateIdx = i
			c.handle.SetRate(rate)
			return
		}
	}
}

// CycleRate advances to the next speed in the fixed list, wrapping.
func (c *Controller) CycleRate() {
	c.rateIdx = (c.rateIdx + 1) % len(Rates)
	c.handle.SetRate(c.Rate())
}

// SetMode sets the end-of-track mode.
func (c *Controller) SetMode(m Mode) { c.mode = m }

// CycleMode advances to the next mode, wrapping.
func (c *Controller) CycleMode() { c.mode = c.mode.Next() }

// Delete removes a memo from the store. Deleting the active memo stops
// playback and clears the selection so no dangling reference survives.
func (c *Controller) Delete(id string) {
	if id == c.activeID && c.activeID != "" {
		c.handle.Stop()
		c.activeID = ""
		c.playing = false
		c.position = 0
		c.duration = 0
	}
	c.store.Remove(id)
}

// Dispatch feeds a handle notification into the state machine.
func (c *Controller) Dispatch(ev Event) {
	switch ev.Kind {
	case EventTimeUpdated:
		c.position = ev.Position
		if c.duration > 0 && c.position > c.duration {
			c.position = c.duration
		}
	case EventDurationKnown:
		c.duration = ev.Duration
	case EventPlayStateChanged:
		c.playing = ev.Playing
	case EventEnded:
		c.onEnded()
	}
}

// onEnded applies the current mode when a track finishes naturally. When the
// active memo is no longer in the store (deleted under a stale event) the
// transition is a no-op.
func (c *Controller) onEnded() {
	c.playing = false
	c.position = c.duration

	idx := c.store.IndexOf(c.activeID)
	if idx < 0 {
		return
	}

	switch c.mode {
	case LoopOne:
		c.handle.SetPosition(0)
		c.position = 0
		if err := c.handle.Play(); err != nil {
			zap.L().Warn("loop restart failed", zap.String("id", c.activeID), zap.Error(err))
			return
		}
		c.playing = true

	case Sequential:
		if next := c.store.At(idx + 1); next != nil {
			if err := c.load(next); err != nil {
				zap.L().Warn("advance failed", zap.Error(err))
			}
		}
		// Last memo: stay loaded-paused at the end position.

	case LoopAll:
		next := c.store.At((idx + 1) % c.store.Len())
		if next == nil {
			return
		}
		if err := c.load(next); err != nil {
			zap.L().Warn("advance failed", zap.Error(err))
		}
	}
}
