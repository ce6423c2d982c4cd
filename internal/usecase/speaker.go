package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
)

var ErrDeviceMuted = errors.New("output volume is zero")

// Speaker speaks a prompt through the synthesizer, one utterance at a time.
type Speaker struct {
	synth  ports.SpeechSynthesizer
	volume ports.VolumeMeter
	events ports.EventSink
	prompt string
	log    *slog.Logger

	speakMu sync.Mutex

	mu       sync.Mutex
	speaking bool
	seq      uint64
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewSpeaker(
	synth ports.SpeechSynthesizer,
	volume ports.VolumeMeter,
	events ports.EventSink,
	prompt string,
	logger *slog.Logger,
) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Speaker{
		synth:  synth,
		volume: volume,
		events: events,
		prompt: prompt,
		log:    logger.With("component", "speaker"),
	}
}

// Speak interrupts any current utterance and starts speaking text, or the
// configured prompt when text is blank. It returns once playback has started.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		text = s.prompt
	}

	s.speakMu.Lock()
	defer s.speakMu.Unlock()

	s.interrupt()

	volume, err := s.volume.OutputVolume(ctx)
	if err != nil {
		s.events.Alert(domain.AlertAudioSession, err.Error())
		return fmt.Errorf("read output volume: %w", err)
	}
	if volume <= 0 {
		s.events.Alert(domain.AlertMutedDevice, ErrDeviceMuted.Error())
		return ErrDeviceMuted
	}

	utteranceCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.speaking = true
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.events.SpeakingChanged(true)
	go s.run(utteranceCtx, cancel, seq, text, done)
	return nil
}

// Speaking reports whether an utterance is in progress.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Wait blocks until the current utterance, if any, has finished.
func (s *Speaker) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Speaker) interrupt() {
	s.mu.Lock()
	if !s.speaking {
		s.mu.Unlock()
		return
	}
	s.seq++
	s.speaking = false
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done
	s.events.SpeakingChanged(false)
}

func (s *Speaker) run(ctx context.Context, cancel context.CancelFunc, seq uint64, text string, done chan struct{}) {
	defer close(done)
	defer cancel()

	err := s.synth.Speak(ctx, text)

	s.mu.Lock()
	current := s.seq == seq
	if current {
		s.speaking = false
		s.cancel = nil
	}
	s.mu.Unlock()

	if !current {
		return
	}
	if err != nil && ctx.Err() == nil {
		s.log.Warn("speech synthesis failed", "error", err)
		s.events.Alert(domain.AlertAudioSession, err.Error())
	}
	s.events.SpeakingChanged(false)
}
