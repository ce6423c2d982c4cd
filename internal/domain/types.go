package domain

import (
	"fmt"
	"time"
)

// CaptureState models the voice capture lifecycle.
type CaptureState string

const (
	CaptureStateIdle         CaptureState = "idle"
	CaptureStatePrimingAudio CaptureState = "priming_audio"
	CaptureStateListening    CaptureState = "listening"
	CaptureStateFinalizing   CaptureState = "finalizing"
)

var captureTransitions = map[CaptureState][]CaptureState{
	CaptureStateIdle:         {CaptureStatePrimingAudio},
	CaptureStatePrimingAudio: {CaptureStateListening, CaptureStateFinalizing, CaptureStateIdle},
	CaptureStateListening:    {CaptureStateFinalizing},
	CaptureStateFinalizing:   {CaptureStateIdle},
}

// CanTransition reports whether moving from s to next is a legal step.
func (s CaptureState) CanTransition(next CaptureState) bool {
	for _, allowed := range captureTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next, or an error when the move is not allowed.
func (s CaptureState) Transition(next CaptureState) (CaptureState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("invalid capture transition %s -> %s", s, next)
	}
	return next, nil
}

// CaptureReason provides a structured reason for state transitions.
type CaptureReason string

const (
	CaptureReasonReady               CaptureReason = "ready"
	CaptureReasonCuePlaying          CaptureReason = "cue_playing"
	CaptureReasonListening           CaptureReason = "listening"
	CaptureReasonSilenceTimeout      CaptureReason = "silence_timeout"
	CaptureReasonFinalResult         CaptureReason = "final_result"
	CaptureReasonStopped             CaptureReason = "stopped"
	CaptureReasonTranscriptionFailed CaptureReason = "transcription_failed"
	CaptureReasonCueFailed           CaptureReason = "cue_failed"
	CaptureReasonAudioFailed         CaptureReason = "audio_failed"
	CaptureReasonPermissionDenied    CaptureReason = "permission_denied"
)

// IsFailure reports whether the reason ends a capture on an error path.
func (r CaptureReason) IsFailure() bool {
	switch r {
	case CaptureReasonTranscriptionFailed, CaptureReasonCueFailed,
		CaptureReasonAudioFailed, CaptureReasonPermissionDenied:
		return true
	default:
		return false
	}
}

// AlertKind identifies a user-facing failure.
type AlertKind string

const (
	AlertPermissionDenied AlertKind = "permission_denied"
	AlertResourceMissing  AlertKind = "resource_missing"
	AlertAudioSession     AlertKind = "audio_session"
	AlertTranscription    AlertKind = "transcription"
	AlertMutedDevice      AlertKind = "muted_device"
	AlertPastDueReminder  AlertKind = "past_due_reminder"
	AlertInvalidReminder  AlertKind = "invalid_reminder"
	AlertStartup          AlertKind = "startup"
	AlertClipboard        AlertKind = "clipboard"
)

// TranscriptKind identifies whether a stream event is partial or final text.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent represents incremental transcription output from a provider.
type TranscriptEvent struct {
	Kind TranscriptKind `json:"kind"`
	Text string         `json:"text"`
}

// Reminder is a confirmed (text, due time) pair.
type Reminder struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	DueAt     time.Time `json:"dueAt" yaml:"due_at"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Status summarizes the current capture and speech state.
type Status struct {
	State         CaptureState  `json:"state"`
	ReadyToListen bool          `json:"readyToListen"`
	Transcript    string        `json:"transcript"`
	Heard         bool          `json:"heard"`
	Speaking      bool          `json:"speaking"`
	LastReason    CaptureReason `json:"lastReason,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// HasPendingTranscript reports whether the last capture produced text that
// may be handed to reminder creation. Text left over from an earlier capture
// does not count.
func (s Status) HasPendingTranscript() bool {
	return s.Heard &&
		s.Transcript != "" &&
		s.State == CaptureStateIdle &&
		!s.LastReason.IsFailure()
}
