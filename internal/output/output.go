package output

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"rappelmoi/internal/domain"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) State(state domain.CaptureState, reason domain.CaptureReason) {
	switch state {
	case domain.CaptureStatePrimingAudio:
		fmt.Fprintf(f.w, "🔔 %s\n", ReasonMessage(reason))
	case domain.CaptureStateListening:
		fmt.Fprintf(f.w, "🎙️  %s\n", ReasonMessage(reason))
	case domain.CaptureStateIdle:
		if msg := ReasonMessage(reason); msg != "" {
			fmt.Fprintf(f.w, "⏹️  %s\n", msg)
		}
	}
}

func (f *Formatter) Partial(text string) {
	fmt.Fprintf(f.w, "… %s\n", text)
}

func (f *Formatter) Transcript(text string) {
	fmt.Fprintf(f.w, "📝 %s\n", text)
}

func (f *Formatter) Alert(kind domain.AlertKind, detail string) {
	headline := AlertMessage(kind, detail)
	if detail != "" && detail != headline {
		fmt.Fprintf(f.w, "❌ %s (%s)\n", headline, detail)
		return
	}
	fmt.Fprintf(f.w, "❌ %s\n", headline)
}

func (f *Formatter) ReminderAdded(r domain.Reminder, now time.Time) {
	fmt.Fprintf(f.w, "✅ Rappel créé : %q %s\n", r.Text, formatDue(r.DueAt, now))
}

// ReminderYAML writes the reminder as a YAML document.
func (f *Formatter) ReminderYAML(r domain.Reminder) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode reminder: %w", err)
	}
	return enc.Close()
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

// formatDue renders a due time relative to now, with the wall clock.
func formatDue(due time.Time, now time.Time) string {
	return fmt.Sprintf("à %s (dans %s)", due.Format("15:04"), FormatDuration(due.Sub(now)))
}

func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
