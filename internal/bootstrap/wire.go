package bootstrap

import (
	"log/slog"

	"rappelmoi/internal/audio"
	"rappelmoi/internal/config"
	"rappelmoi/internal/ports"
	"rappelmoi/internal/providers/deepgram"
	"rappelmoi/internal/reminders"
	"rappelmoi/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Capture   *usecase.CaptureSession
	Speaker   *usecase.Speaker
	Reminders *usecase.ReminderBook
	Config    config.Config
}

// Build loads configuration and wires all backend dependencies.
func Build(eventSink ports.EventSink, clipboard ports.Clipboard, logger *slog.Logger) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	return Wire(cfg, eventSink, clipboard, logger), nil
}

// Wire assembles services from an already resolved configuration.
func Wire(cfg config.Config, eventSink ports.EventSink, clipboard ports.Clipboard, logger *slog.Logger) Services {
	if logger == nil {
		logger = slog.Default()
	}

	capture := usecase.NewCaptureSession(
		audio.NewCuePlayer(cfg.Cue.PlayerCommand, cfg.Cue.Dir),
		audio.NewMicrophone(cfg.Audio.RecorderCommand),
		deepgram.NewProvider(deepgram.Config{
			APIKey:      cfg.Deepgram.APIKey,
			APIBaseURL:  cfg.Deepgram.APIBaseURL,
			Model:       cfg.Deepgram.Model,
			Language:    cfg.Deepgram.Language,
			SmartFormat: cfg.Deepgram.SmartFormat,
			Endpointing: cfg.Deepgram.Endpointing,
		}),
		clipboard,
		eventSink,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			Streaming: ports.StreamingConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				InterimResults: true,
			},
			CueResource:    cfg.Cue.Resource,
			ChunkSize:      cfg.Session.ChunkSize,
			SilenceTimeout: cfg.Session.SilenceTimeout,
			Logger:         logger,
		},
	)

	speaker := usecase.NewSpeaker(
		audio.NewSynthesizer(cfg.Speech.Command, cfg.Speech.Voice),
		audio.NewVolumeMeter(cfg.Speech.VolumeCommand),
		eventSink,
		cfg.Speech.Prompt,
		logger,
	)

	return Services{
		Capture:   capture,
		Speaker:   speaker,
		Reminders: usecase.NewReminderBook(reminders.NewStore(), eventSink),
		Config:    cfg,
	}
}
