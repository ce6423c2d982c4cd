package cli

import (
	"sync"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/output"
)

// formatterSink prints backend events and signals when a capture that it
// saw start has returned to idle.
type formatterSink struct {
	out *output.Formatter

	mu      sync.Mutex
	started bool
	idle    chan domain.CaptureReason
	quiet   bool
}

func newFormatterSink(out *output.Formatter) *formatterSink {
	return &formatterSink{out: out, idle: make(chan domain.CaptureReason, 1)}
}

func (s *formatterSink) CaptureStateChanged(state domain.CaptureState, reason domain.CaptureReason) {
	s.mu.Lock()
	quiet := s.quiet
	if state == domain.CaptureStatePrimingAudio {
		s.started = true
	}
	finished := s.started && state == domain.CaptureStateIdle
	s.mu.Unlock()

	if !quiet {
		s.out.State(state, reason)
	}
	if finished {
		select {
		case s.idle <- reason:
		default:
		}
	}
}

func (s *formatterSink) PartialTranscript(text string) {
	if !s.isQuiet() {
		s.out.Partial(text)
	}
}

func (s *formatterSink) TranscriptReady(text string) {
	if !s.isQuiet() {
		s.out.Transcript(text)
	}
}

func (s *formatterSink) SpeakingChanged(bool) {}

func (s *formatterSink) RemindersChanged([]domain.Reminder) {}

// Alert is printed even in quiet mode.
func (s *formatterSink) Alert(kind domain.AlertKind, detail string) {
	s.out.Alert(kind, detail)
}

func (s *formatterSink) setQuiet(quiet bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiet = quiet
}

func (s *formatterSink) isQuiet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiet
}
