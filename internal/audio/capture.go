package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

const framesPerBuffer = 1024

// Capture is the microphone side of the engine. It satisfies the recording
// session's capture-device contract: Start streams int16 chunks into the
// callback until Stop releases the device.
type Capture struct {
	eng    *Engine
	stream *portaudio.Stream
}

// Capture returns the engine's capture facet.
func (e *Engine) Capture() *Capture {
	return &Capture{eng: e}
}

// Start opens the input stream and begins delivering chunks. Every failure
// to acquire the device maps to ErrDeviceUnavailable so the caller can tell
// the user the microphone is not usable.
func (c *Capture) Start(onChunk func(chunk []int16)) error {
	if c.stream != nil {
		return nil
	}
	if err := c.eng.ensureInit(); err != nil {
		return err
	}

	dev, err := c.eng.inputDevice()
	if err != nil {
		return err
	}

	params := portaudio.HighLatencyParameters(dev, nil)
	params.SampleRate = float64(c.eng.sampleRate)
	channels := c.eng.channels
	if dev.MaxInputChannels < channels {
		channels = dev.MaxInputChannels
	}
	params.Input.Channels = channels
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, func(in []int16) {
		onChunk(in)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		if cerr := stream.Close(); cerr != nil {
			zap.L().Warn("capture stream close failed", zap.Error(cerr))
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	c.stream = stream
	zap.L().Debug("capture stream opened",
		zap.String("device", dev.Name),
		zap.Int("channels", channels),
		zap.Int("sampleRate", c.eng.sampleRate))
	return nil
}

// Stop halts capture and releases the device. Safe to call when idle.
func (c *Capture) Stop() error {
	if c.stream == nil {
		return nil
	}
	stream := c.stream
	c.stream = nil
	if err := stream.Stop(); err != nil {
		zap.L().Warn("capture stream stop failed", zap.Error(err))
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close capture stream: %w", err)
	}
	return nil
}
