package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"memovox/internal/memo"
)

// ExportWAV writes a memo's PCM buffer to a 16-bit WAV file at path.
func ExportWAV(m *memo.Memo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, m.SampleRate, 16, m.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: m.Channels,
			SampleRate:  m.SampleRate,
		},
		Data:           make([]int, len(m.Data)),
		SourceBitDepth: 16,
	}
	for i, s := range m.Data {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
