package main

import (
	"errors"
	"testing"

	"rappelmoi/internal/domain"
)

func TestRequireReady(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	if err := app.requireReady(); err == nil {
		t.Fatalf("expected uninitialized error")
	}

	bootErr := errors.New("boot")
	app.bootErr = bootErr
	if err := app.requireReady(); !errors.Is(err, bootErr) {
		t.Fatalf("expected boot error, got %v", err)
	}
}

func TestGetStatusWhenNotInitialized(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	status := app.GetStatus()
	if status.State != domain.CaptureStateIdle || status.ReadyToListen || status.Speaking {
		t.Fatalf("unexpected status: %+v", status)
	}

	app.bootErr = errors.New("boot")
	status = app.GetStatus()
	if status.State != domain.CaptureStateIdle || status.Message != "boot" {
		t.Fatalf("unexpected boot status: %+v", status)
	}
}

func TestBindingsRejectedBeforeStartup(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	if _, err := app.StartCapture(); err == nil {
		t.Fatalf("expected start to fail before startup")
	}
	if _, err := app.StopCapture(); err == nil {
		t.Fatalf("expected stop to fail before startup")
	}
	if err := app.Speak(""); err == nil {
		t.Fatalf("expected speak to fail before startup")
	}
	if _, err := app.AddReminder("buy milk", "2030-01-01T10:00:00Z"); err == nil {
		t.Fatalf("expected add to fail before startup")
	}
	if got := app.Reminders(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty reminder list, got %v", got)
	}
}

func TestEventsBeforeStartupAreDropped(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	app.CaptureStateChanged(domain.CaptureStateIdle, domain.CaptureReasonReady)
	app.PartialTranscript("partial")
	app.TranscriptReady("done")
	app.SpeakingChanged(true)
	app.RemindersChanged(nil)
	app.Alert(domain.AlertStartup, "boom")
}

func TestGetRuntimeInfoReportsBootError(t *testing.T) {
	t.Parallel()

	app := NewApp(nil)
	app.bootErr = errors.New("bad config")
	info := app.GetRuntimeInfo()
	if info["error"] != "bad config" {
		t.Fatalf("unexpected runtime info: %v", info)
	}
}
