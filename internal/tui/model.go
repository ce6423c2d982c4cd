package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/output"
	"rappelmoi/internal/usecase"
)

// Capture is the part of usecase.CaptureSession the terminal UI drives.
type Capture interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() domain.Status
	CopyTranscript(ctx context.Context) error
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type ReminderBook interface {
	Add(text string, dueAt time.Time) (domain.Reminder, error)
	List() []domain.Reminder
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeText
	modeDue
)

// Model is the root bubbletea model for the terminal UI.
type Model struct {
	ctx       context.Context
	capture   Capture
	speaker   Speaker
	reminders ReminderBook
	now       func() time.Time

	state      domain.CaptureState
	reason     domain.CaptureReason
	partial    string
	transcript string
	speaking   bool
	list       []domain.Reminder

	mode    inputMode
	input   textinput.Model
	spinner spinner.Model

	alert  string
	notice string
	width  int
}

func New(ctx context.Context, capture Capture, speaker Speaker, reminders ReminderBook) Model {
	input := textinput.New()
	input.CharLimit = 200
	input.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	return Model{
		ctx:       ctx,
		capture:   capture,
		speaker:   speaker,
		reminders: reminders,
		now:       time.Now,
		state:     domain.CaptureStateIdle,
		reason:    domain.CaptureReasonReady,
		list:      reminders.List(),
		input:     input,
		spinner:   spin,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case captureStateMsg:
		m.state = msg.State
		m.reason = msg.Reason
		if msg.State == domain.CaptureStatePrimingAudio {
			m.partial = ""
			m.transcript = ""
			m.alert = ""
			m.notice = ""
		}
		return m, nil

	case partialMsg:
		m.partial = msg.Text
		return m, nil

	case transcriptReadyMsg:
		m.transcript = msg.Text
		m.partial = ""
		return m.promptDue(), textinput.Blink

	case speakingMsg:
		m.speaking = msg.Speaking
		return m, nil

	case remindersMsg:
		m.list = msg.Reminders
		return m, nil

	case alertMsg:
		m.alert = output.AlertMessage(msg.Kind, msg.Detail)
		return m, nil

	case commandErrMsg:
		m.alert = msg.Err.Error()
		return m, nil

	case reminderAddedMsg:
		m.notice = fmt.Sprintf("Rappel créé pour %s", msg.Reminder.DueAt.Format("02/01 15:04"))
		m.transcript = ""
		return m, nil

	case copiedMsg:
		m.notice = "Transcription copiée"
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		return m, tea.Sequence(m.stopCmd(), tea.Quit)
	}
	if m.mode != modeBrowse {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case keyQuit:
		return m, tea.Sequence(m.stopCmd(), tea.Quit)
	case keySpace, keyEnter:
		if m.active() {
			return m, m.stopCmd()
		}
		return m, m.startCmd()
	case keySpeak:
		return m, m.speakCmd()
	case keyCopy:
		return m, m.copyCmd()
	case keyManual:
		m.mode = modeText
		m.input.Placeholder = "Texte du rappel"
		m.input.SetValue(m.transcript)
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case keyEnter:
		value := m.input.Value()
		if m.mode == modeText {
			if strings.TrimSpace(value) == "" {
				m.alert = "Le texte du rappel est vide"
				return m, nil
			}
			m.transcript = strings.TrimSpace(value)
			return m.promptDue(), nil
		}
		due, err := ParseDue(value, m.now())
		if err != nil {
			m.alert = fmt.Sprintf("Échéance invalide : %v", err)
			return m, nil
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		return m, m.addCmd(m.transcript, due)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) promptDue() Model {
	m.mode = modeDue
	m.input.Placeholder = "Échéance : 18h30, 45m, 2026-10-20 09:00"
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m Model) active() bool {
	return m.state == domain.CaptureStatePrimingAudio || m.state == domain.CaptureStateListening
}

func (m Model) startCmd() tea.Cmd {
	capture, ctx := m.capture, m.ctx
	return func() tea.Msg {
		if err := capture.Start(ctx); err != nil {
			return commandErrMsg{Err: err}
		}
		return nil
	}
}

func (m Model) stopCmd() tea.Cmd {
	capture, ctx := m.capture, m.ctx
	return func() tea.Msg {
		if err := capture.Stop(ctx); err != nil {
			return commandErrMsg{Err: err}
		}
		return nil
	}
}

func (m Model) speakCmd() tea.Cmd {
	speaker, ctx := m.speaker, m.ctx
	return func() tea.Msg {
		// Failures already surface as alerts.
		_ = speaker.Speak(ctx, "")
		return nil
	}
}

func (m Model) copyCmd() tea.Cmd {
	capture, ctx := m.capture, m.ctx
	return func() tea.Msg {
		err := capture.CopyTranscript(ctx)
		switch {
		case errors.Is(err, usecase.ErrNoTranscript):
			return commandErrMsg{Err: err}
		case err != nil:
			return nil
		}
		return copiedMsg{}
	}
}

func (m Model) addCmd(text string, due time.Time) tea.Cmd {
	book := m.reminders
	return func() tea.Msg {
		reminder, err := book.Add(text, due)
		if err != nil {
			return nil
		}
		return reminderAddedMsg{Reminder: reminder}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RappelMoi"))
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.partial != "" {
		b.WriteString(partialStyle.Render("… " + m.partial))
		b.WriteString("\n")
	}
	if m.transcript != "" {
		b.WriteString(transcriptStyle.Render("📝 " + m.transcript))
		b.WriteString("\n")
	}
	if m.mode != modeBrowse {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.alert != "" {
		b.WriteString(alertStyle.Render("❌ " + m.alert))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(statusStyle.Render("✅ " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.reminderPanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) statusLine() string {
	message := output.ReasonMessage(m.reason)
	line := statusStyle.Render(message)
	switch m.state {
	case domain.CaptureStatePrimingAudio:
		line = m.spinner.View() + " " + statusStyle.Render(message)
	case domain.CaptureStateListening:
		line = m.spinner.View() + " " + listeningStyle.Render(message)
	case domain.CaptureStateFinalizing:
		line = statusStyle.Render("Finalisation...")
	}
	if m.speaking {
		line += "  " + statusStyle.Render("🔊")
	}
	return line
}

func (m Model) reminderPanel() string {
	if len(m.list) == 0 {
		return panelStyle.Render(statusStyle.Render("Aucun rappel"))
	}
	now := m.now()
	rows := make([]string, 0, len(m.list))
	for _, r := range m.list {
		due := r.DueAt.Format("02/01 15:04")
		if r.DueAt.After(now) {
			due += " · dans " + output.FormatDuration(r.DueAt.Sub(now))
		}
		rows = append(rows, fmt.Sprintf("%s  %s", r.Text, dueStyle.Render(due)))
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) footer() string {
	type binding struct{ key, desc string }
	bindings := []binding{{"espace", "parler/arrêter"}, {"s", "lire"}, {"c", "copier"}, {"n", "nouveau"}, {"q", "quitter"}}
	if m.mode != modeBrowse {
		bindings = []binding{{"entrée", "valider"}, {"échap", "annuler"}}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, footerKeyStyle.Render(kb.key)+" "+footerDescStyle.Render(kb.desc))
	}
	return strings.Join(parts, "  ")
}
