package reminders

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rappelmoi/internal/domain"
)

var (
	ErrPastDueReminder   = errors.New("reminder due time is in the past")
	ErrEmptyReminderText = errors.New("reminder text is empty")
)

// Store keeps reminders in memory, in insertion order.
type Store struct {
	now   func() time.Time
	newID func() string

	mu    sync.RWMutex
	items []domain.Reminder
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock uses now for the past-due check and creation stamps.
func NewStoreWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:   now,
		newID: func() string { return uuid.NewString() },
	}
}

// Add appends a reminder. dueAt must not be earlier than the current time.
func (s *Store) Add(text string, dueAt time.Time) (domain.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Reminder{}, ErrEmptyReminderText
	}

	now := s.now()
	if dueAt.Before(now) {
		return domain.Reminder{}, ErrPastDueReminder
	}

	reminder := domain.Reminder{
		ID:        s.newID(),
		Text:      text,
		DueAt:     dueAt,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.items = append(s.items, reminder)
	s.mu.Unlock()

	return reminder, nil
}

// List returns a snapshot of all reminders.
func (s *Store) List() []domain.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reminder, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
