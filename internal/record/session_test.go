package record

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memovox/internal/memo"
)

// fakeDevice stands in for the portaudio capture stream.
type fakeDevice struct {
	onChunk    func([]int16)
	startCalls int
	stopCalls  int
	startErr   error
	stopErr    error
}

func (d *fakeDevice) Start(onChunk func(chunk []int16)) error {
	d.startCalls++
	if d.startErr != nil {
		return d.startErr
	}
	d.onChunk = onChunk
	return nil
}

func (d *fakeDevice) Stop() error {
	d.stopCalls++
	return d.stopErr
}

// fakePauser records that playback was paused.
type fakePauser struct {
	paused int
}

func (p *fakePauser) Pause() { p.paused++ }

// fakeClock makes elapsed time deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture() (*Session, *fakeDevice, *fakePauser, *fakeClock, *memo.Store) {
	dev := &fakeDevice{}
	pauser := &fakePauser{}
	store := memo.NewStore()
	clock := &fakeClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	s := NewSession(dev, store, pauser, 44100, 1)
	s.now = clock.now
	return s, dev, pauser, clock, store
}

func TestStartPausesPlayback(t *testing.T) {
	s, dev, pauser, _, _ := newFixture()

	require.NoError(t, s.Start())
	assert.True(t, s.Active())
	assert.Equal(t, 1, pauser.paused)
	assert.Equal(t, 1, dev.startCalls)
}

func TestStartDeviceUnavailable(t *testing.T) {
	s, dev, _, _, store := newFixture()
	dev.startErr = errors.New("permission denied")

	err := s.Start()
	assert.Error(t, err)
	assert.False(t, s.Active())
	assert.Equal(t, 0, store.Len())
}

func TestStartWhileActiveIsNoop(t *testing.T) {
	s, dev, _, _, _ := newFixture()
	require.NoError(t, s.Start())

	require.NoError(t, s.Start())
	assert.Equal(t, 1, dev.startCalls)
}

func TestStopFinalizesMemo(t *testing.T) {
	s, dev, _, clock, store := newFixture()
	require.NoError(t, s.Start())

	dev.onChunk([]int16{1, 2, 3})
	dev.onChunk([]int16{4, 5})
	clock.advance(3200 * time.Millisecond)

	m, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.False(t, s.Active())
	assert.Equal(t, 1, dev.stopCalls)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "New Recording 1", m.Title)
	assert.InDelta(t, 3.2, m.Duration, 0.001)
	assert.Equal(t, []int16{1, 2, 3, 4, 5}, m.Data)
	assert.Equal(t, 44100, m.SampleRate)
	assert.Equal(t, 1, m.Channels)

	// Inserted at the front of the store.
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, m.ID, store.At(0).ID)
}

func TestStopWithoutActiveIsNoop(t *testing.T) {
	s, dev, _, _, store := newFixture()

	m, err := s.Stop()
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 0, dev.stopCalls)
	assert.Equal(t, 0, store.Len())
}

func TestTitleNumberingUsesStoreSize(t *testing.T) {
	s, _, _, _, store := newFixture()
	require.NoError(t, store.InsertFront(&memo.Memo{ID: "a"}))
	require.NoError(t, store.InsertFront(&memo.Memo{ID: "b"}))

	require.NoError(t, s.Start())
	m, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, "New Recording 3", m.Title)
	assert.Equal(t, 0, store.IndexOf(m.ID))
}

func TestChunksAfterStopAreDropped(t *testing.T) {
	s, dev, _, _, _ := newFixture()
	require.NoError(t, s.Start())

	dev.onChunk([]int16{1, 1})
	m, err := s.Stop()
	require.NoError(t, err)

	// A straggler callback racing the stop must not corrupt anything.
	dev.onChunk([]int16{9, 9})
	assert.Equal(t, []int16{1, 1}, m.Data)
}

func TestDeviceStopFailureStillFinalizes(t *testing.T) {
	s, dev, _, _, store := newFixture()
	dev.stopErr = errors.New("stream already closed")
	require.NoError(t, s.Start())
	dev.onChunk([]int16{7})

	m, err := s.Stop()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []int16{7}, m.Data)
	assert.Equal(t, 1, store.Len())
}

func TestElapsedUsesWallClock(t *testing.T) {
	s, _, _, clock, _ := newFixture()
	assert.Equal(t, time.Duration(0), s.Elapsed())

	require.NoError(t, s.Start())
	clock.advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, s.Elapsed())
}

func TestSessionBuffersCopies(t *testing.T) {
	s, dev, _, _, _ := newFixture()
	require.NoError(t, s.Start())

	chunk := []int16{1, 2}
	dev.onChunk(chunk)
	chunk[0] = 99 // device reuses its buffer

	m, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2}, m.Data)
}
