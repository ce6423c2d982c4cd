package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("RAPPELMOI_CONFIG", "")
	return home
}

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Path != "" {
		t.Fatalf("expected no config file, got %q", cfg.Path)
	}
	if cfg.Deepgram.Language != "fr" || cfg.Deepgram.Model != "nova-2" || !cfg.Deepgram.SmartFormat {
		t.Fatalf("unexpected deepgram defaults: %+v", cfg.Deepgram)
	}
	if cfg.Session.SilenceTimeout != 3*time.Second {
		t.Fatalf("expected 3s silence timeout, got %s", cfg.Session.SilenceTimeout)
	}
	if want := filepath.Join(home, ".local", "share", "rappelmoi", "sounds"); cfg.Cue.Dir != want {
		t.Fatalf("unexpected cue dir %q, want %q", cfg.Cue.Dir, want)
	}
	if cfg.Cue.Resource != DefaultCueResource || cfg.Speech.Prompt != DefaultPrompt {
		t.Fatalf("unexpected cue/speech defaults: %+v %+v", cfg.Cue, cfg.Speech)
	}
}

func TestLoadReadsConfigFileFromHome(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".config", "rappelmoi", "config.toml")
	writeConfig(t, path, `
[deepgram]
model = "nova-3"
language = "fr-CA"

[cue]
dir = "~/sons"

[speech]
prompt = "Pense aux chaussures"

[session]
silence_timeout_ms = 1500
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.Path)
	}
	if cfg.Deepgram.Model != "nova-3" || cfg.Deepgram.Language != "fr-CA" {
		t.Fatalf("file values not applied: %+v", cfg.Deepgram)
	}
	if cfg.Deepgram.APIBaseURL != "https://api.deepgram.com/v1" {
		t.Fatalf("unset keys must keep defaults: %+v", cfg.Deepgram)
	}
	if cfg.Cue.Dir != filepath.Join(home, "sons") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Cue.Dir)
	}
	if cfg.Speech.Prompt != "Pense aux chaussures" {
		t.Fatalf("unexpected prompt %q", cfg.Speech.Prompt)
	}
	if cfg.Session.SilenceTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected silence timeout %s", cfg.Session.SilenceTimeout)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	writeConfig(t, path, `
[deepgram]
model = "nova-3"

[audio]
input_device = "file-mic"
`)

	t.Setenv("RAPPELMOI_CONFIG", path)
	t.Setenv("DEEPGRAM_API_KEY", "test-key")
	t.Setenv("DEEPGRAM_MODEL", "env-model")
	t.Setenv("DEEPGRAM_SMART_FORMAT", "false")
	t.Setenv("RAPPELMOI_FFMPEG_COMMAND", "my-ffmpeg")
	t.Setenv("RAPPELMOI_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("RAPPELMOI_SAMPLE_RATE", "22050")
	t.Setenv("RAPPELMOI_CUE_RESOURCE", "bip")
	t.Setenv("RAPPELMOI_SPEECH_VOICE", "fr-be")
	t.Setenv("RAPPELMOI_AUDIO_CHUNK_SIZE", "512")
	t.Setenv("RAPPELMOI_SILENCE_TIMEOUT_MS", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Deepgram.APIKey != "test-key" || cfg.Deepgram.Model != "env-model" || cfg.Deepgram.SmartFormat {
		t.Fatalf("unexpected deepgram config: %+v", cfg.Deepgram)
	}
	if cfg.Audio.RecorderCommand != "my-ffmpeg" || cfg.Audio.InputDevice != "mic0" || cfg.Audio.SampleRate != 22050 {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Cue.Resource != "bip" || cfg.Speech.Voice != "fr-be" {
		t.Fatalf("unexpected cue/speech config: %+v %+v", cfg.Cue, cfg.Speech)
	}
	if cfg.Session.ChunkSize != 512 || cfg.Session.SilenceTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "broken.toml")
	writeConfig(t, path, "[deepgram\nmodel = ")
	t.Setenv("RAPPELMOI_CONFIG", path)

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected config error mentioning %s, got %v", path, err)
	}
}

func TestLoadInvalidNumericValuesFallback(t *testing.T) {
	isolate(t)
	t.Setenv("RAPPELMOI_SAMPLE_RATE", "bad")
	t.Setenv("RAPPELMOI_CHANNELS", "-1")
	t.Setenv("RAPPELMOI_AUDIO_CHUNK_SIZE", "5")
	t.Setenv("RAPPELMOI_SILENCE_TIMEOUT_MS", "bad")
	t.Setenv("DEEPGRAM_SMART_FORMAT", "not-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Fatalf("expected default channels, got %d", cfg.Audio.Channels)
	}
	if cfg.Session.ChunkSize != 4096 {
		t.Fatalf("expected chunk size fallback, got %d", cfg.Session.ChunkSize)
	}
	if cfg.Session.SilenceTimeout != 3*time.Second {
		t.Fatalf("expected default silence timeout, got %s", cfg.Session.SilenceTimeout)
	}
	if !cfg.Deepgram.SmartFormat {
		t.Fatalf("expected default smart format true")
	}
}
