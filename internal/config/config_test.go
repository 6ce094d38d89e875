package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Errorf("channels = %d, want 1", cfg.Audio.Channels)
	}
	if cfg.Audio.Volume != 1.0 {
		t.Errorf("volume = %f, want 1.0", cfg.Audio.Volume)
	}
	if cfg.Export.Directory == "" {
		t.Error("export directory should have a default")
	}
	if cfg.LogDir == "" {
		t.Error("log dir should have a default")
	}
}

func TestLoadReadsFileValues(t *testing.T) {
	path := writeConfig(t, `
audio:
  sample_rate: 48000
  channels: 2
  volume: 0.5
  input_device: "3"
  output_device: "4"
export:
  directory: /tmp/exports
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample rate = %d, want 48000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 2 {
		t.Errorf("channels = %d, want 2", cfg.Audio.Channels)
	}
	if cfg.Audio.Volume != 0.5 {
		t.Errorf("volume = %f, want 0.5", cfg.Audio.Volume)
	}
	if cfg.Audio.InputDevice != "3" || cfg.Audio.OutputDevice != "4" {
		t.Errorf("devices = %q/%q, want 3/4", cfg.Audio.InputDevice, cfg.Audio.OutputDevice)
	}
	if cfg.Export.Directory != "/tmp/exports" {
		t.Errorf("export dir = %q, want /tmp/exports", cfg.Export.Directory)
	}
}

func TestNormalizeClampsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want func(t *testing.T, cfg *Config)
	}{
		{
			name: "negative sample rate",
			yaml: "audio:\n  sample_rate: -1\n",
			want: func(t *testing.T, cfg *Config) {
				if cfg.Audio.SampleRate != 44100 {
					t.Errorf("sample rate = %d, want 44100", cfg.Audio.SampleRate)
				}
			},
		},
		{
			name: "absurd channel count",
			yaml: "audio:\n  channels: 7\n",
			want: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Channels != 1 {
					t.Errorf("channels = %d, want 1", cfg.Audio.Channels)
				}
			},
		},
		{
			name: "volume above unity",
			yaml: "audio:\n  volume: 5.0\n",
			want: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Volume != 1.0 {
					t.Errorf("volume = %f, want 1.0", cfg.Audio.Volume)
				}
			},
		},
		{
			name: "zero volume",
			yaml: "audio:\n  volume: 0\n",
			want: func(t *testing.T, cfg *Config) {
				if cfg.Audio.Volume != 1.0 {
					t.Errorf("volume = %f, want 1.0", cfg.Audio.Volume)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.want(t, cfg)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "audio: [not a map\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
