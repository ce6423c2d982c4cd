package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"rappelmoi/internal/domain"
)

// Sink forwards backend events into a running bubbletea program.
// Events raised before Attach are dropped.
type Sink struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

func NewSink() *Sink {
	return &Sink{}
}

// Attach routes subsequent events to program.
func (s *Sink) Attach(program *tea.Program) {
	s.attachFunc(program.Send)
}

func (s *Sink) attachFunc(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *Sink) forward(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (s *Sink) CaptureStateChanged(state domain.CaptureState, reason domain.CaptureReason) {
	s.forward(captureStateMsg{State: state, Reason: reason})
}

func (s *Sink) PartialTranscript(text string) {
	s.forward(partialMsg{Text: text})
}

func (s *Sink) TranscriptReady(text string) {
	s.forward(transcriptReadyMsg{Text: text})
}

func (s *Sink) SpeakingChanged(speaking bool) {
	s.forward(speakingMsg{Speaking: speaking})
}

func (s *Sink) RemindersChanged(reminders []domain.Reminder) {
	s.forward(remindersMsg{Reminders: reminders})
}

func (s *Sink) Alert(kind domain.AlertKind, detail string) {
	s.forward(alertMsg{Kind: kind, Detail: detail})
}
