package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultCueResource = "notif-activation-vocale"
	DefaultPrompt      = "N'oublie pas de consulter tes rappels."
)

// Config stores runtime configuration. Values are resolved from defaults,
// then the optional config file, then environment variables.
type Config struct {
	Deepgram DeepgramConfig `toml:"deepgram"`
	Audio    AudioConfig    `toml:"audio"`
	Cue      CueConfig      `toml:"cue"`
	Speech   SpeechConfig   `toml:"speech"`
	Session  SessionConfig  `toml:"session"`

	// Path is the config file that was applied, if any.
	Path string `toml:"-"`
}

type DeepgramConfig struct {
	APIKey      string `toml:"api_key"`
	APIBaseURL  string `toml:"api_base"`
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	SmartFormat bool   `toml:"smart_format"`
	Endpointing int    `toml:"endpointing_ms"`
}

type AudioConfig struct {
	RecorderCommand string `toml:"recorder_command"`
	InputFormat     string `toml:"input_format"`
	InputDevice     string `toml:"input_device"`
	SampleRate      int    `toml:"sample_rate"`
	Channels        int    `toml:"channels"`
}

type CueConfig struct {
	PlayerCommand string `toml:"player_command"`
	Dir           string `toml:"dir"`
	Resource      string `toml:"resource"`
}

type SpeechConfig struct {
	Command       string `toml:"command"`
	Voice         string `toml:"voice"`
	Prompt        string `toml:"prompt"`
	VolumeCommand string `toml:"volume_command"`
}

type SessionConfig struct {
	ChunkSize      int           `toml:"chunk_size"`
	SilenceTimeout time.Duration `toml:"-"`
	SilenceMillis  int           `toml:"silence_timeout_ms"`
}

// Load resolves configuration from the config file, environment variables
// and defaults. A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := defaults()

	if path := configFilePath(); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg.Path = path
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Deepgram: DeepgramConfig{
			APIBaseURL:  "https://api.deepgram.com/v1",
			Model:       "nova-2",
			Language:    "fr",
			SmartFormat: true,
			Endpointing: 1200,
		},
		Audio: AudioConfig{
			RecorderCommand: "ffmpeg",
			InputFormat:     "pulse",
			InputDevice:     "default",
			SampleRate:      16000,
			Channels:        1,
		},
		Cue: CueConfig{
			PlayerCommand: "ffplay",
			Dir:           defaultCueDir(),
			Resource:      DefaultCueResource,
		},
		Speech: SpeechConfig{
			Command:       "espeak-ng",
			Voice:         "fr",
			Prompt:        DefaultPrompt,
			VolumeCommand: "pactl",
		},
		Session: SessionConfig{
			ChunkSize:     4096,
			SilenceMillis: 3000,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Deepgram.APIKey = envOrDefault("DEEPGRAM_API_KEY", cfg.Deepgram.APIKey)
	cfg.Deepgram.APIBaseURL = envOrDefault("DEEPGRAM_API_BASE", cfg.Deepgram.APIBaseURL)
	cfg.Deepgram.Model = envOrDefault("DEEPGRAM_MODEL", cfg.Deepgram.Model)
	cfg.Deepgram.Language = envOrDefault("DEEPGRAM_LANGUAGE", cfg.Deepgram.Language)
	cfg.Deepgram.SmartFormat = envOrDefaultBool("DEEPGRAM_SMART_FORMAT", cfg.Deepgram.SmartFormat)
	cfg.Deepgram.Endpointing = envOrDefaultInt("DEEPGRAM_ENDPOINTING_MS", cfg.Deepgram.Endpointing)

	cfg.Audio.RecorderCommand = envOrDefault("RAPPELMOI_FFMPEG_COMMAND", cfg.Audio.RecorderCommand)
	cfg.Audio.InputFormat = envOrDefault("RAPPELMOI_AUDIO_INPUT_FORMAT", cfg.Audio.InputFormat)
	cfg.Audio.InputDevice = firstNonEmpty(
		os.Getenv("RAPPELMOI_AUDIO_INPUT_DEVICE"),
		os.Getenv("DEEPGRAM_PULSE_SOURCE"),
		cfg.Audio.InputDevice,
	)
	cfg.Audio.SampleRate = envOrDefaultInt("RAPPELMOI_SAMPLE_RATE", cfg.Audio.SampleRate)
	cfg.Audio.Channels = envOrDefaultInt("RAPPELMOI_CHANNELS", cfg.Audio.Channels)

	cfg.Cue.PlayerCommand = envOrDefault("RAPPELMOI_CUE_PLAYER", cfg.Cue.PlayerCommand)
	cfg.Cue.Dir = envOrDefault("RAPPELMOI_CUE_DIR", cfg.Cue.Dir)
	cfg.Cue.Resource = envOrDefault("RAPPELMOI_CUE_RESOURCE", cfg.Cue.Resource)

	cfg.Speech.Command = envOrDefault("RAPPELMOI_SPEECH_COMMAND", cfg.Speech.Command)
	cfg.Speech.Voice = envOrDefault("RAPPELMOI_SPEECH_VOICE", cfg.Speech.Voice)
	cfg.Speech.Prompt = envOrDefault("RAPPELMOI_SPEECH_PROMPT", cfg.Speech.Prompt)
	cfg.Speech.VolumeCommand = envOrDefault("RAPPELMOI_VOLUME_COMMAND", cfg.Speech.VolumeCommand)

	cfg.Session.ChunkSize = envOrDefaultInt("RAPPELMOI_AUDIO_CHUNK_SIZE", cfg.Session.ChunkSize)
	cfg.Session.SilenceMillis = firstNonNegativeInt("RAPPELMOI_SILENCE_TIMEOUT_MS", cfg.Session.SilenceMillis)
}

func normalize(cfg *Config) {
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Session.SilenceMillis <= 0 {
		cfg.Session.SilenceMillis = 3000
	}
	cfg.Session.SilenceTimeout = time.Duration(cfg.Session.SilenceMillis) * time.Millisecond
	cfg.Cue.Dir = expandTilde(cfg.Cue.Dir)
	if strings.TrimSpace(cfg.Cue.Resource) == "" {
		cfg.Cue.Resource = DefaultCueResource
	}
}

func configFilePath() string {
	if explicit := strings.TrimSpace(os.Getenv("RAPPELMOI_CONFIG")); explicit != "" {
		return explicit
	}

	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "rappelmoi")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "rappelmoi")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultCueDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "rappelmoi", "sounds")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "rappelmoi", "sounds")
	}
	return "sounds"
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on", "oui":
		return true
	case "0", "false", "no", "off", "non":
		return false
	default:
		return fallback
	}
}

func firstNonNegativeInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
