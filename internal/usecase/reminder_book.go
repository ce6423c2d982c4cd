package usecase

import (
	"errors"
	"time"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
	"rappelmoi/internal/reminders"
)

// ReminderBook creates reminders and reports failures to the UI.
type ReminderBook struct {
	store  ports.ReminderStore
	events ports.EventSink
}

func NewReminderBook(store ports.ReminderStore, events ports.EventSink) *ReminderBook {
	return &ReminderBook{store: store, events: events}
}

// Add stores a reminder due at dueAt. A due time in the past is rejected
// with reminders.ErrPastDueReminder and nothing is stored.
func (b *ReminderBook) Add(text string, dueAt time.Time) (domain.Reminder, error) {
	reminder, err := b.store.Add(text, dueAt)
	if err != nil {
		switch {
		case errors.Is(err, reminders.ErrPastDueReminder):
			b.events.Alert(domain.AlertPastDueReminder, err.Error())
		default:
			b.events.Alert(domain.AlertInvalidReminder, err.Error())
		}
		return domain.Reminder{}, err
	}

	b.events.RemindersChanged(b.store.List())
	return reminder, nil
}

// List returns the reminders in insertion order.
func (b *ReminderBook) List() []domain.Reminder {
	return b.store.List()
}
