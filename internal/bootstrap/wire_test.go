package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rappelmoi/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("RAPPELMOI_CONFIG", "")
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	services, err := Build(noopEventSink{}, noopClipboard{}, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Capture == nil || services.Speaker == nil || services.Reminders == nil {
		t.Fatalf("expected all services, got %+v", services)
	}
	if services.Config.Deepgram.APIKey != "test-key" {
		t.Fatalf("expected config to be carried, got %+v", services.Config.Deepgram)
	}
	if status := services.Capture.Status(); status.State != domain.CaptureStateIdle {
		t.Fatalf("expected idle capture, got %s", status.State)
	}
}

func TestBuildFailsOnMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[session\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("RAPPELMOI_CONFIG", path)

	if _, err := Build(noopEventSink{}, noopClipboard{}, nil); err == nil {
		t.Fatalf("expected build error due to malformed config")
	}
}

func TestWiredReminderBookRejectsPastDue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RAPPELMOI_CONFIG", "")

	services, err := Build(noopEventSink{}, noopClipboard{}, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := services.Reminders.Add("buy milk", time.Now().Add(-time.Minute)); err == nil {
		t.Fatalf("expected past due reminder to be rejected")
	}
	if _, err := services.Reminders.Add("buy milk", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("expected future reminder to be accepted: %v", err)
	}
}

type noopEventSink struct{}

func (noopEventSink) CaptureStateChanged(_ domain.CaptureState, _ domain.CaptureReason) {}
func (noopEventSink) PartialTranscript(_ string)                                       {}
func (noopEventSink) TranscriptReady(_ string)                                         {}
func (noopEventSink) SpeakingChanged(_ bool)                                           {}
func (noopEventSink) RemindersChanged(_ []domain.Reminder)                             {}
func (noopEventSink) Alert(_ domain.AlertKind, _ string)                               {}

type noopClipboard struct{}

func (noopClipboard) SetText(_ context.Context, _ string) error { return nil }
