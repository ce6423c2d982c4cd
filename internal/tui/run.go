package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal UI and blocks until the user quits. sink must be
// the EventSink the services were wired with.
func Run(ctx context.Context, sink *Sink, capture Capture, speaker Speaker, reminders ReminderBook) error {
	program := tea.NewProgram(New(ctx, capture, speaker, reminders), tea.WithContext(ctx))
	sink.Attach(program)
	defer sink.attachFunc(nil)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
