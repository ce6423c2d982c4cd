package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"rappelmoi/internal/bootstrap"
	"rappelmoi/internal/config"
	"rappelmoi/internal/domain"
	"rappelmoi/internal/output"
	"rappelmoi/internal/usecase"
)

const (
	eventCapture    = "rappelmoi:capture"
	eventPartial    = "rappelmoi:partial"
	eventTranscript = "rappelmoi:transcript"
	eventSpeaking   = "rappelmoi:speaking"
	eventReminders  = "rappelmoi:reminders"
	eventAlert      = "rappelmoi:alert"
)

const shutdownTimeout = 2 * time.Second

// App is the Wails application root.
type App struct {
	ctx context.Context
	log *slog.Logger

	services bootstrap.Services
	cfg      config.Config
	ready    bool
	bootErr  error
}

func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{log: logger}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a, &wailsClipboard{}, a.log)
	if err != nil {
		a.bootErr = err
		a.Alert(domain.AlertStartup, err.Error())
		return
	}

	a.services = services
	a.cfg = services.Config
	a.ready = true
	a.CaptureStateChanged(domain.CaptureStateIdle, domain.CaptureReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if !a.ready {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.services.Capture.Stop(ctx); err != nil {
		a.log.Warn("capture did not stop cleanly", "error", err)
	}
}

// StartCapture plays the activation cue and starts listening.
func (a *App) StartCapture() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Capture.Start(a.ctx); err != nil {
		return a.GetStatus(), err
	}
	return a.GetStatus(), nil
}

// StopCapture ends listening; a captured transcript is still handed off.
func (a *App) StopCapture() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Capture.Stop(a.ctx); err != nil {
		return a.GetStatus(), err
	}
	return a.GetStatus(), nil
}

// Speak reads text aloud, or the configured prompt when text is empty.
func (a *App) Speak(text string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.services.Speaker.Speak(a.ctx, text)
}

// AddReminder creates a reminder due at dueRFC3339.
func (a *App) AddReminder(text string, dueRFC3339 string) (domain.Reminder, error) {
	if err := a.requireReady(); err != nil {
		return domain.Reminder{}, err
	}
	dueAt, err := time.Parse(time.RFC3339, strings.TrimSpace(dueRFC3339))
	if err != nil {
		err = fmt.Errorf("invalid due time %q: %w", dueRFC3339, err)
		a.Alert(domain.AlertInvalidReminder, err.Error())
		return domain.Reminder{}, err
	}
	return a.services.Reminders.Add(text, dueAt)
}

// Reminders returns reminders in creation order.
func (a *App) Reminders() []domain.Reminder {
	if !a.ready {
		return []domain.Reminder{}
	}
	return a.services.Reminders.List()
}

// CopyTranscript writes the last transcript to the clipboard.
func (a *App) CopyTranscript() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	err := a.services.Capture.CopyTranscript(a.ctx)
	if errors.Is(err, usecase.ErrNoTranscript) {
		return nil
	}
	return err
}

// GetStatus returns the current capture and speech status.
func (a *App) GetStatus() domain.Status {
	if !a.ready {
		status := domain.Status{State: domain.CaptureStateIdle}
		if a.bootErr != nil {
			status.Message = a.bootErr.Error()
		}
		return status
	}
	status := a.services.Capture.Status()
	status.Speaking = a.services.Speaker.Speaking()
	status.Message = output.ReasonMessage(status.LastReason)
	return status
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"provider":         "Deepgram",
		"model":            a.cfg.Deepgram.Model,
		"language":         a.cfg.Deepgram.Language,
		"configFile":       a.cfg.Path,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
		"silenceTimeout":   a.cfg.Session.SilenceTimeout.String(),
		"voice":            a.cfg.Speech.Voice,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if !a.ready {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) emit(name string, payload any) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, payload)
}

// CaptureStateChanged emits capture lifecycle updates to the frontend.
func (a *App) CaptureStateChanged(state domain.CaptureState, reason domain.CaptureReason) {
	a.emit(eventCapture, map[string]any{
		"state":         string(state),
		"reason":        string(reason),
		"message":       output.ReasonMessage(reason),
		"readyToListen": state == domain.CaptureStateListening,
	})
}

// PartialTranscript emits the live transcript hypothesis.
func (a *App) PartialTranscript(text string) {
	a.emit(eventPartial, map[string]string{"text": text})
}

// TranscriptReady hands a finished transcript to reminder creation.
func (a *App) TranscriptReady(text string) {
	a.emit(eventTranscript, map[string]string{"text": text})
}

func (a *App) SpeakingChanged(speaking bool) {
	a.emit(eventSpeaking, map[string]bool{"speaking": speaking})
}

func (a *App) RemindersChanged(reminders []domain.Reminder) {
	a.emit(eventReminders, reminders)
}

// Alert emits a user-facing failure.
func (a *App) Alert(kind domain.AlertKind, detail string) {
	a.emit(eventAlert, map[string]string{
		"kind":    string(kind),
		"message": output.AlertMessage(kind, detail),
		"detail":  detail,
	})
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
