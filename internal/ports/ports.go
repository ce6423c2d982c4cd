package ports

import (
	"context"
	"errors"
	"io"
	"time"

	"rappelmoi/internal/domain"
)

var (
	// ErrCueNotFound is returned when the activation sound cannot be located.
	ErrCueNotFound = errors.New("activation cue not found")
	// ErrPermissionDenied is returned when microphone or speech access is refused.
	ErrPermissionDenied = errors.New("microphone access denied")
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// CuePlayer plays a short sound and returns once playback has finished.
type CuePlayer interface {
	Play(ctx context.Context, resource string) error
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	InterimResults bool
}

// StreamingSession is an active provider websocket session.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// TranscriptionProvider starts streaming transcription sessions.
type TranscriptionProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}

// SpeechSynthesizer speaks text and returns once the utterance has finished.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string) error
}

// VolumeMeter reports the output volume in the range [0, 1].
type VolumeMeter interface {
	OutputVolume(ctx context.Context) (float64, error)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// ReminderStore keeps reminders in insertion order.
type ReminderStore interface {
	Add(text string, dueAt time.Time) (domain.Reminder, error)
	List() []domain.Reminder
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	CaptureStateChanged(state domain.CaptureState, reason domain.CaptureReason)
	PartialTranscript(text string)
	TranscriptReady(text string)
	SpeakingChanged(speaking bool)
	RemindersChanged(reminders []domain.Reminder)
	Alert(kind domain.AlertKind, detail string)
}
