package tui

import "rappelmoi/internal/domain"

// captureStateMsg mirrors EventSink.CaptureStateChanged.
type captureStateMsg struct {
	State  domain.CaptureState
	Reason domain.CaptureReason
}

type partialMsg struct {
	Text string
}

// transcriptReadyMsg carries a finished transcript awaiting a due time.
type transcriptReadyMsg struct {
	Text string
}

type speakingMsg struct {
	Speaking bool
}

type remindersMsg struct {
	Reminders []domain.Reminder
}

type alertMsg struct {
	Kind   domain.AlertKind
	Detail string
}

// commandErrMsg reports a failed user command that raised no alert.
type commandErrMsg struct {
	Err error
}

type reminderAddedMsg struct {
	Reminder domain.Reminder
}

type copiedMsg struct{}
