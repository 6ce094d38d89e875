package player

import "memovox/internal/memo"

// EventKind identifies a playback handle notification.
type EventKind int

const (
	// EventTimeUpdated carries the current playback position.
	EventTimeUpdated EventKind = iota
	// EventDurationKnown carries the duration of the loaded source.
	EventDurationKnown
	// EventEnded fires once when playback reaches the natural end.
	EventEnded
	// EventPlayStateChanged carries whether the handle is producing audio.
	EventPlayStateChanged
)

// Event is a notification emitted by the playback handle. The UI drains the
// handle's event channel and feeds each event into Controller.Dispatch, so
// every state transition runs on the event loop.
type Event struct {
	Kind     EventKind
	Position float64
	Duration float64
	Playing  bool
}

// Handle is the single playback resource the controller owns. Exactly one
// source is loaded at a time; positions are in seconds.
type Handle interface {
	// Load swaps the handle's source to the given memo and resets the
	// position to zero without starting playback.
	Load(m *memo.Memo) error
	// Play starts or resumes playback from the current position.
	Play() error
	// Pause halts playback, keeping the position.
	Pause()
	// Stop halts playback and unloads the source.
	Stop()
	// SetPosition moves the playback cursor. Values outside the source are
	// clamped by the handle.
	SetPosition(seconds float64)
	// Position reports the current cursor in seconds.
	Position() float64
	// Duration reports the loaded source length in seconds.
	Duration() float64
	// SetRate applies a speed multiplier to live playback.
	SetRate(rate float64)
}
