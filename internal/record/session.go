// Package record captures microphone input into an in-memory buffer and
// finalizes it as a playable memo.
package record

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memovox/internal/memo"
)

// CaptureDevice is the audio input the session borrows while recording.
// Start delivers interleaved int16 chunks to the callback until Stop.
type CaptureDevice interface {
	Start(onChunk func(chunk []int16)) error
	Stop() error
}

// Pauser is the slice of the playback controller the session needs: starting
// a recording always pauses whatever is playing.
type Pauser interface {
	Pause()
}

// Session owns the capture device for the duration of one recording. Only
// one recording can be in flight; Start while active is ignored. Chunks are
// appended from the audio callback, so the buffer carries a lock — the rest
// of the session is driven from the UI event loop.
type Session struct {
	dev      CaptureDevice
	store    *memo.Store
	playback Pauser

	sampleRate int
	channels   int

	mu        sync.Mutex
	active    bool
	startedAt time.Time
	chunks    [][]int16

	now func() time.Time
}

// NewSession wires a capture device to the memo store.
func NewSession(dev CaptureDevice, store *memo.Store, playback Pauser, sampleRate, channels int) *Session {
	return &Session{
		dev:        dev,
		store:      store,
		playback:   playback,
		sampleRate: sampleRate,
		channels:   channels,
		now:        time.Now,
	}
}

// Active reports whether a recording is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Elapsed returns the wall-clock time since the recording started. Computed
// as a delta from the start instant rather than accumulated ticks, so a slow
// UI loop cannot drift it.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0
	}
	return s.now().Sub(s.startedAt)
}

// Start acquires the capture device and begins buffering. Any current
// playback is paused first. When the device cannot be acquired no session is
// created and the error is returned for the UI to surface.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.playback != nil {
		s.playback.Pause()
	}

	if err := s.dev.Start(s.append); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	s.mu.Lock()
	s.active = true
	s.startedAt = s.now()
	s.chunks = nil
	s.mu.Unlock()

	zap.L().Info("recording started")
	return nil
}

// append buffers one capture chunk. The device reuses its buffer between
// callbacks, so the chunk is copied.
func (s *Session) append(chunk []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	cp := make([]int16, len(chunk))
	copy(cp, chunk)
	s.chunks = append(s.chunks, cp)
}

// Stop halts capture, releases the device, and finalizes the buffered chunks
// into a new memo inserted at the front of the store. Every chunk buffered up
// to the stop instant is kept. Returns the new memo, or nil when no session
// was active.
func (s *Session) Stop() (*memo.Memo, error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil, nil
	}
	elapsed := s.now().Sub(s.startedAt)
	s.active = false
	chunks := s.chunks
	s.chunks = nil
	s.mu.Unlock()

	if err := s.dev.Stop(); err != nil {
		// The buffered audio is still good; finalize anyway.
		zap.L().Warn("capture device stop failed", zap.Error(err))
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	data := make([]int16, 0, total)
	for _, c := range chunks {
		data = append(data, c...)
	}

	m := &memo.Memo{
		ID:         uuid.NewString(),
		Title:      fmt.Sprintf("New Recording %d", s.store.Len()+1),
		Data:       data,
		SampleRate: s.sampleRate,
		Channels:   s.channels,
		Duration:   elapsed.Seconds(),
		CreatedAt:  s.now(),
	}
	if err := s.store.InsertFront(m); err != nil {
		return nil, fmt.Errorf("finalize recording: %w", err)
	}

	zap.L().Info("recording finalized",
		zap.String("id", m.ID),
		zap.Float64("duration", m.Duration),
		zap.Int("samples", len(data)))
	return m, nil
}
