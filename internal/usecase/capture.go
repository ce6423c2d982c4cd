package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
)

var (
	ErrCaptureInProgress = errors.New("voice capture already in progress")
	ErrNoTranscript      = errors.New("no transcript captured")
)

// DefaultSilenceTimeout ends listening when no transcript update arrives.
const DefaultSilenceTimeout = 3 * time.Second

// Config controls voice capture behavior.
type Config struct {
	Audio          ports.AudioConfig
	Streaming      ports.StreamingConfig
	CueResource    string
	ChunkSize      int
	SilenceTimeout time.Duration
	Logger         *slog.Logger
}

// CaptureSession orchestrates cue playback, listening and transcript finalization.
// All state changes happen under mu; callbacks from a superseded capture or
// timer are discarded by comparing generation and timer sequence numbers.
type CaptureSession struct {
	cue      ports.CuePlayer
	audio    ports.AudioCapture
	provider ports.TranscriptionProvider
	events   ports.EventSink
	handoff  transcriptHandoff
	cfg      Config
	log      *slog.Logger

	mu         sync.Mutex
	state      domain.CaptureState
	lastReason domain.CaptureReason
	transcript string
	heard      bool
	generation uint64
	cancel     context.CancelFunc
	idle       chan struct{}
	current    *listeningPhase
}

func NewCaptureSession(
	cue ports.CuePlayer,
	audio ports.AudioCapture,
	provider ports.TranscriptionProvider,
	clipboard ports.Clipboard,
	events ports.EventSink,
	cfg Config,
) *CaptureSession {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.SilenceTimeout <= 0 {
		cfg.SilenceTimeout = DefaultSilenceTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureSession{
		cue:      cue,
		audio:    audio,
		provider: provider,
		events:   events,
		handoff:  newTranscriptHandoff(clipboard, events),
		cfg:      cfg,
		log:      logger.With("component", "capture"),
		state:    domain.CaptureStateIdle,
	}
}

// Start plays the activation cue; listening begins once it has finished.
// Starting while a capture is active is rejected with ErrCaptureInProgress.
func (c *CaptureSession) Start(ctx context.Context) error {
	c.mu.Lock()
	next, err := c.state.Transition(domain.CaptureStatePrimingAudio)
	if err != nil {
		c.mu.Unlock()
		return ErrCaptureInProgress
	}

	captureCtx, cancel := context.WithCancel(ctx)
	c.state = next
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.idle = make(chan struct{})
	c.lastReason = domain.CaptureReasonCuePlaying
	c.heard = false
	c.mu.Unlock()

	c.events.CaptureStateChanged(domain.CaptureStatePrimingAudio, domain.CaptureReasonCuePlaying)
	go c.prime(captureCtx, gen)
	return nil
}

// Stop ends the current capture from any state and waits until it is idle.
// Calling Stop while idle is a no-op.
func (c *CaptureSession) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state == domain.CaptureStateIdle {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	idle := c.idle
	phase := c.current
	c.mu.Unlock()

	c.terminate(gen, domain.CaptureReasonStopped, nil)

	if idle != nil {
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if phase != nil {
		return phase.wait(ctx)
	}
	return nil
}

// Status returns the current capture status.
func (c *CaptureSession) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{
		State:         c.state,
		ReadyToListen: c.state == domain.CaptureStateListening,
		Transcript:    c.transcript,
		Heard:         c.heard,
		LastReason:    c.lastReason,
	}
}

// Transcript returns the latest transcript hypothesis.
func (c *CaptureSession) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// CopyTranscript writes the latest transcript to the clipboard.
func (c *CaptureSession) CopyTranscript(ctx context.Context) error {
	text := c.Transcript()
	if text == "" {
		return ErrNoTranscript
	}
	return c.handoff.Copy(ctx, text)
}

func (c *CaptureSession) prime(ctx context.Context, gen uint64) {
	if err := c.cue.Play(ctx, c.cfg.CueResource); err != nil {
		switch {
		case ctx.Err() != nil:
			c.terminate(gen, domain.CaptureReasonStopped, nil)
		case errors.Is(err, ports.ErrCueNotFound):
			c.terminate(gen, domain.CaptureReasonCueFailed, &captureAlert{kind: domain.AlertResourceMissing, err: err})
		default:
			c.terminate(gen, domain.CaptureReasonCueFailed, &captureAlert{kind: domain.AlertAudioSession, err: err})
		}
		return
	}
	c.beginListening(ctx, gen)
}

func (c *CaptureSession) beginListening(ctx context.Context, gen uint64) {
	if !c.isCurrent(gen, domain.CaptureStatePrimingAudio) {
		return
	}

	stream, err := c.provider.StartStreaming(ctx, c.cfg.Streaming)
	if err != nil {
		c.terminate(gen, domain.CaptureReasonTranscriptionFailed, &captureAlert{kind: domain.AlertTranscription, err: err})
		return
	}

	audioSession, err := c.audio.Start(ctx, c.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		if errors.Is(err, ports.ErrPermissionDenied) {
			c.terminate(gen, domain.CaptureReasonPermissionDenied, &captureAlert{kind: domain.AlertPermissionDenied, err: err})
			return
		}
		c.terminate(gen, domain.CaptureReasonAudioFailed, &captureAlert{kind: domain.AlertAudioSession, err: err})
		return
	}

	phase := newListeningPhase(audioSession, stream)

	c.mu.Lock()
	if c.generation != gen || c.state != domain.CaptureStatePrimingAudio {
		c.mu.Unlock()
		c.log.Debug("capture superseded before listening", "generation", gen)
		_ = phase.release()
		return
	}
	c.state = domain.CaptureStateListening
	c.lastReason = domain.CaptureReasonListening
	c.transcript = ""
	c.current = phase
	c.armSilenceTimerLocked(gen, phase)
	c.mu.Unlock()

	c.events.CaptureStateChanged(domain.CaptureStateListening, domain.CaptureReasonListening)

	go c.consumeTranscripts(gen, phase)
	go pumpAudioChunks(phase.audio, phase.stream, c.cfg.ChunkSize, func(kind domain.AlertKind, err error) {
		reason := domain.CaptureReasonAudioFailed
		if kind == domain.AlertTranscription {
			reason = domain.CaptureReasonTranscriptionFailed
		}
		c.terminate(gen, reason, &captureAlert{kind: kind, err: err})
	}, phase.audioDone)
}

func (c *CaptureSession) consumeTranscripts(gen uint64, phase *listeningPhase) {
	defer close(phase.eventsDone)

	for event := range phase.stream.Events() {
		text := strings.TrimSpace(event.Text)
		if event.Kind == domain.TranscriptKindFinal {
			if text != "" {
				c.updateTranscript(gen, phase, text)
			}
			c.terminate(gen, domain.CaptureReasonFinalResult, nil)
			return
		}
		if text == "" {
			continue
		}
		if c.updateTranscript(gen, phase, text) {
			c.events.PartialTranscript(text)
		}
	}

	if err := phase.stream.Wait(); err != nil {
		c.terminate(gen, domain.CaptureReasonTranscriptionFailed, &captureAlert{kind: domain.AlertTranscription, err: err})
		return
	}
	c.terminate(gen, domain.CaptureReasonFinalResult, nil)
}

func (c *CaptureSession) updateTranscript(gen uint64, phase *listeningPhase, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.current != phase || c.state != domain.CaptureStateListening {
		return false
	}
	c.transcript = text
	c.heard = true
	c.armSilenceTimerLocked(gen, phase)
	return true
}

func (c *CaptureSession) armSilenceTimerLocked(gen uint64, phase *listeningPhase) {
	phase.timerSeq++
	seq := phase.timerSeq
	if phase.timer != nil {
		phase.timer.Stop()
	}
	phase.timer = time.AfterFunc(c.cfg.SilenceTimeout, func() {
		c.onSilence(gen, phase, seq)
	})
}

func (c *CaptureSession) onSilence(gen uint64, phase *listeningPhase, seq uint64) {
	fired := c.terminateWhen(gen, domain.CaptureReasonSilenceTimeout, nil, func() bool {
		return c.current == phase && phase.timerSeq == seq
	})
	if fired {
		c.log.Info("silence detected, listening stopped", "timeout", c.cfg.SilenceTimeout)
	}
}

// heardTranscriptLocked returns the transcript only when the current capture
// produced it.
func (c *CaptureSession) heardTranscriptLocked() string {
	if !c.heard {
		return ""
	}
	return c.transcript
}

func (c *CaptureSession) isCurrent(gen uint64, state domain.CaptureState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation == gen && c.state == state
}

type captureAlert struct {
	kind domain.AlertKind
	err  error
}

func (c *CaptureSession) terminate(gen uint64, reason domain.CaptureReason, alert *captureAlert) {
	c.terminateWhen(gen, reason, alert, nil)
}

// terminateWhen tears the capture down if gen is still active and cond,
// evaluated under the lock, holds. It reports whether teardown happened.
func (c *CaptureSession) terminateWhen(
	gen uint64,
	reason domain.CaptureReason,
	alert *captureAlert,
	cond func() bool,
) bool {
	c.mu.Lock()
	active := c.state == domain.CaptureStatePrimingAudio || c.state == domain.CaptureStateListening
	if c.generation != gen || !active || (cond != nil && !cond()) {
		c.mu.Unlock()
		return false
	}

	// A priming failure never reached the microphone; it returns straight to idle.
	direct := c.state == domain.CaptureStatePrimingAudio && reason.IsFailure()
	phase := c.current
	cancel := c.cancel
	c.current = nil
	c.cancel = nil
	if phase != nil {
		phase.stopTimer()
	}
	c.lastReason = reason
	var (
		transcript string
		idle       chan struct{}
	)
	if direct {
		c.state = domain.CaptureStateIdle
		transcript = c.heardTranscriptLocked()
		idle = c.idle
		c.idle = nil
	} else {
		c.state = domain.CaptureStateFinalizing
	}
	c.mu.Unlock()

	if !direct {
		c.events.CaptureStateChanged(domain.CaptureStateFinalizing, reason)
	}

	if cancel != nil {
		cancel()
	}
	if phase != nil {
		if err := phase.release(); err != nil {
			c.log.Warn("capture teardown reported an error", "error", err)
		}
	}

	if !direct {
		c.mu.Lock()
		c.state = domain.CaptureStateIdle
		transcript = c.heardTranscriptLocked()
		idle = c.idle
		c.idle = nil
		c.mu.Unlock()
	}

	if alert != nil {
		c.log.Warn("capture failed", "reason", reason, "error", alert.err)
		c.events.Alert(alert.kind, alert.err.Error())
	}
	c.events.CaptureStateChanged(domain.CaptureStateIdle, reason)
	c.handoff.Deliver(reason, transcript)

	if idle != nil {
		close(idle)
	}
	return true
}
