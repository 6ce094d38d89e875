package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"memovox/internal/memo"
	"memovox/internal/player"
)

// timeUpdateEvery throttles position events from the audio callback.
const timeUpdateEvery = 100 * time.Millisecond

// Playback is the single playback handle over a PortAudio output stream.
// Speed multipliers are realized by advancing a fractional frame cursor by
// the rate per output frame, so 2.0x simply steps through the buffer twice
// as fast. The output callback runs on the audio thread; everything it
// shares with the UI-side methods sits behind the mutex, and notifications
// travel out through the buffered event channel.
type Playback struct {
	eng    *Engine
	events chan player.Event

	mu       sync.Mutex
	stream   *portaudio.Stream
	running  bool // stream started and not yet stopped
	data     []int16
	channels int
	rate     float64
	duration float64 // seconds, fixed per loaded memo
	frames   int
	srcRate  int
	cursor   float64 // fractional frame index
	playing  bool
	ended    bool
	// Ended must reach the controller or auto-advance stalls, so a send
	// that finds the channel full is retried on later callbacks.
	pendingEnded bool
	lastEmit     time.Time
}

// Playback returns the engine's playback facet.
func (e *Engine) Playback() *Playback {
	return &Playback{
		eng:    e,
		events: make(chan player.Event, 64),
	}
}

// Events is the stream of handle notifications the UI forwards into the
// playback controller.
func (p *Playback) Events() <-chan player.Event {
	return p.events
}

// emit delivers an event without ever blocking the audio thread; when the UI
// falls behind, stale position updates are dropped.
func (p *Playback) emit(ev player.Event) {
	select {
	case p.events <- ev:
	default:
	}
}

// Load swaps the handle's source to the given memo, resetting the cursor.
// The output stream is reopened because sample rate and channel count follow
// the memo.
func (p *Playback) Load(m *memo.Memo) error {
	p.Stop()

	if err := p.eng.ensureInit(); err != nil {
		return err
	}
	dev, err := p.eng.outputDevice()
	if err != nil {
		return err
	}

	params := portaudio.HighLatencyParameters(nil, dev)
	params.SampleRate = float64(m.SampleRate)
	params.Output.Channels = m.Channels
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, p.fill)
	if err != nil {
		return fmt.Errorf("open playback stream: %w", err)
	}

	p.mu.Lock()
	p.stream = stream
	p.running = false
	p.data = m.Data
	p.channels = m.Channels
	p.srcRate = m.SampleRate
	p.frames = m.Frames()
	p.duration = m.Duration
	p.cursor = 0
	p.playing = false
	p.ended = false
	p.pendingEnded = false
	if p.rate == 0 {
		p.rate = 1.0
	}
	p.mu.Unlock()

	p.emit(player.Event{Kind: player.EventDurationKnown, Duration: m.Duration})
	return nil
}

// Play starts or resumes output from the current cursor. Playing again after
// the natural end restarts from the beginning, the way a media element does.
func (p *Playback) Play() error {
	p.mu.Lock()
	if p.stream == nil {
		p.mu.Unlock()
		return fmt.Errorf("play: no source loaded")
	}
	if p.cursor >= float64(p.frames) {
		p.cursor = 0
	}
	p.playing = true
	p.ended = false
	p.pendingEnded = false
	stream := p.stream
	needStart := !p.running
	if needStart {
		p.running = true
	}
	p.mu.Unlock()

	// After an in-callback end the stream keeps running silence, so only a
	// stopped stream needs a Start here.
	if needStart {
		if err := stream.Start(); err != nil {
			p.mu.Lock()
			p.playing = false
			p.running = false
			p.mu.Unlock()
			return fmt.Errorf("start playback stream: %w", err)
		}
	}
	p.emit(player.Event{Kind: player.EventPlayStateChanged, Playing: true})
	return nil
}

// Pause halts output, keeping the cursor.
func (p *Playback) Pause() {
	p.mu.Lock()
	stream := p.stream
	wasRunning := p.running
	p.playing = false
	p.running = false
	p.mu.Unlock()

	if stream != nil && wasRunning {
		if err := stream.Stop(); err != nil {
			zap.L().Warn("playback stream stop failed", zap.Error(err))
		}
	}
	p.emit(player.Event{Kind: player.EventPlayStateChanged, Playing: false})
}

// Stop halts output and unloads the source.
func (p *Playback) Stop() {
	p.mu.Lock()
	stream := p.stream
	wasRunning := p.running
	p.stream = nil
	p.running = false
	p.data = nil
	p.frames = 0
	p.cursor = 0
	p.playing = false
	p.ended = false
	p.pendingEnded = false
	p.mu.Unlock()

	if stream == nil {
		return
	}
	if wasRunning {
		if err := stream.Stop(); err != nil {
			zap.L().Warn("playback stream stop failed", zap.Error(err))
		}
	}
	if err := stream.Close(); err != nil {
		zap.L().Warn("playback stream close failed", zap.Error(err))
	}
	p.emit(player.Event{Kind: player.EventPlayStateChanged, Playing: false})
}

// SetPosition moves the cursor, clamped to the loaded source.
func (p *Playback) SetPosition(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.srcRate == 0 {
		return
	}
	frame := seconds * float64(p.srcRate)
	if frame < 0 {
		frame = 0
	}
	if frame > float64(p.frames) {
		frame = float64(p.frames)
	}
	p.cursor = frame
	p.ended = false
	p.pendingEnded = false
}

// Position reports the cursor in seconds.
func (p *Playback) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.srcRate == 0 {
		return 0
	}
	return p.cursor / float64(p.srcRate)
}

// Duration reports the loaded memo's length in seconds.
func (p *Playback) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// SetRate applies a speed multiplier to live output.
func (p *Playback) SetRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rate > 0 {
		p.rate = rate
	}
}

// fill is the output stream callback. It must not touch the stream itself
// (stopping a stream from its own callback deadlocks PortAudio), so hitting
// the end only flips state and emits the ended event; the controller decides
// what happens next.
func (p *Playback) fill(out []int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pendingEnded {
		select {
		case p.events <- player.Event{Kind: player.EventEnded}:
			p.pendingEnded = false
		default:
		}
	}

	if !p.playing || p.data == nil || p.channels == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}

	volume := p.eng.volume
	frames := len(out) / p.channels
	for f := 0; f < frames; f++ {
		idx := int(p.cursor)
		if idx >= p.frames {
			for ch := 0; ch < p.channels; ch++ {
				out[f*p.channels+ch] = 0
			}
			if !p.ended {
				p.ended = true
				p.playing = false
				p.cursor = float64(p.frames)
				select {
				case p.events <- player.Event{Kind: player.EventEnded}:
				default:
					p.pendingEnded = true
				}
			}
			continue
		}
		for ch := 0; ch < p.channels; ch++ {
			sample := float64(p.data[idx*p.channels+ch]) * volume
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			out[f*p.channels+ch] = int16(sample)
		}
		p.cursor += p.rate
	}

	if now := time.Now(); now.Sub(p.lastEmit) >= timeUpdateEvery {
		p.lastEmit = now
		p.emit(player.Event{
			Kind:     player.EventTimeUpdated,
			Position: p.cursor / float64(p.srcRate),
		})
	}
}
