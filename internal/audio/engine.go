// Package audio backs the capture-device and playback-handle contracts with
// PortAudio streams, and handles WAV export of finalized memos.
package audio

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// ErrDeviceUnavailable covers every way the host can refuse us an audio
// device: permission, missing hardware, or a busy stream.
var ErrDeviceUnavailable = errors.New("audio: device unavailable")

// Engine owns the PortAudio lifecycle. At most one capture and one playback
// stream exist at a time, and the app never runs both together.
type Engine struct {
	sampleRate int
	channels   int
	volume     float64
	inputID    string
	outputID   string

	initialized bool
}

// NewEngine configures the engine without touching the audio host yet; the
// first stream open initializes PortAudio lazily.
func NewEngine(sampleRate, channels int, volume float64, inputID, outputID string) *Engine {
	return &Engine{
		sampleRate: sampleRate,
		channels:   channels,
		volume:     volume,
		inputID:    inputID,
		outputID:   outputID,
	}
}

// ensureInit initializes PortAudio once.
func (e *Engine) ensureInit() error {
	if e.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	e.initialized = true
	return nil
}

// Close terminates PortAudio. Call once at shutdown.
func (e *Engine) Close() {
	if !e.initialized {
		return
	}
	if err := portaudio.Terminate(); err != nil {
		zap.L().Warn("portaudio terminate failed", zap.Error(err))
	}
	e.initialized = false
}

// inputDevice resolves the configured input device, falling back to the host
// default.
func (e *Engine) inputDevice() (*portaudio.DeviceInfo, error) {
	if dev := deviceByID(e.inputID); dev != nil && dev.MaxInputChannels > 0 {
		return dev, nil
	}
	dev, err := portaudio.DefaultInputDevice()
	if err != nil || dev == nil {
		return nil, fmt.Errorf("%w: no input device", ErrDeviceUnavailable)
	}
	return dev, nil
}

// outputDevice resolves the configured output device, falling back to the
// host default.
func (e *Engine) outputDevice() (*portaudio.DeviceInfo, error) {
	if dev := deviceByID(e.outputID); dev != nil && dev.MaxOutputChannels > 0 {
		return dev, nil
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil {
		return nil, fmt.Errorf("%w: no output device", ErrDeviceUnavailable)
	}
	return dev, nil
}

// deviceByID looks a device up by its PortAudio index. Empty or malformed
// ids return nil so callers fall back to the default device.
func deviceByID(id string) *portaudio.DeviceInfo {
	if id == "" {
		return nil
	}
	idx, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	devices, err := portaudio.Devices()
	if err != nil || idx < 0 || idx >= len(devices) {
		return nil
	}
	return devices[idx]
}

// DeviceInfo describes one audio device for the devices listing.
type DeviceInfo struct {
	ID        string
	Name      string
	HostAPI   string
	IsDefault bool
	IsInput   bool
	IsOutput  bool
}

// ListDevices enumerates input and output devices across all host APIs. It
// brings PortAudio up and down around the enumeration so it is safe to call
// from the CLI without an engine.
func ListDevices() ([]DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer func() {
		if err := portaudio.Terminate(); err != nil {
			zap.L().Warn("portaudio terminate failed", zap.Error(err))
		}
	}()

	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("list host apis: %w", err)
	}
	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	var devices []DeviceInfo
	for _, host := range hosts {
		for _, dev := range host.Devices {
			if dev.MaxInputChannels == 0 && dev.MaxOutputChannels == 0 {
				continue
			}
			devices = append(devices, DeviceInfo{
				ID:      strconv.Itoa(dev.Index),
				Name:    dev.Name,
				HostAPI: host.Name,
				IsDefault: (defaultIn != nil && dev.Index == defaultIn.Index) ||
					(defaultOut != nil && dev.Index == defaultOut.Index),
				IsInput:  dev.MaxInputChannels > 0,
				IsOutput: dev.MaxOutputChannels > 0,
			})
		}
	}
	return devices, nil
}
