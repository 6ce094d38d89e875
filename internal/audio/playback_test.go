package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memovox/internal/player"
)

// loadedPlayback builds a playback handle with a source wired in directly,
// skipping the PortAudio stream; fill never touches the stream itself.
func loadedPlayback(frames int) *Playback {
	p := NewEngine(44100, 1, 1.0, "", "").Playback()
	p.data = make([]int16, frames)
	p.channels = 1
	p.srcRate = 44100
	p.frames = frames
	p.duration = float64(frames) / 44100
	p.rate = 1.0
	p.playing = true
	return p
}

func drain(p *Playback) []player.Event {
	var evs []player.Event
	for {
		select {
		case ev := <-p.events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestFillEmitsEndedOnce(t *testing.T) {
	p := loadedPlayback(8)
	out := make([]int16, 16)

	p.fill(out)
	p.fill(out)

	var ended int
	for _, ev := range drain(p) {
		if ev.Kind == player.EventEnded {
			ended++
		}
	}
	assert.Equal(t, 1, ended)
	assert.False(t, p.playing)
	assert.Equal(t, float64(p.frames), p.cursor)
}

func TestFillRetriesEndedWhenChannelFull(t *testing.T) {
	p := loadedPlayback(8)
	for i := 0; i < cap(p.events); i++ {
		p.events <- player.Event{Kind: player.EventTimeUpdated}
	}

	out := make([]int16, 16)
	p.fill(out)
	require.True(t, p.pendingEnded)

	// No Ended landed while the channel was saturated.
	for _, ev := range drain(p) {
		require.NotEqual(t, player.EventEnded, ev.Kind)
	}

	// The stream idles on silence after the end; the next callback
	// delivers the held event.
	p.fill(out)
	evs := drain(p)
	require.NotEmpty(t, evs)
	assert.Equal(t, player.EventEnded, evs[0].Kind)
	assert.False(t, p.pendingEnded)
}

func TestSeekAfterEndDropsPendingEnded(t *testing.T) {
	p := loadedPlayback(8)
	for i := 0; i < cap(p.events); i++ {
		p.events <- player.Event{Kind: player.EventTimeUpdated}
	}

	out := make([]int16, 16)
	p.fill(out)
	require.True(t, p.pendingEnded)

	p.SetPosition(0)
	assert.False(t, p.pendingEnded)

	drain(p)
	p.fill(out)
	for _, ev := range drain(p) {
		assert.NotEqual(t, player.EventEnded, ev.Kind)
	}
}
