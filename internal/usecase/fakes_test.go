package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
)

type fakeCuePlayer struct {
	mu       sync.Mutex
	err      error
	release  chan struct{}
	calls    int
	resource string
	ctxErr   error
}

// Play blocks until release is closed (when set) or ctx is cancelled.
func (f *fakeCuePlayer) Play(ctx context.Context, resource string) error {
	f.mu.Lock()
	f.calls++
	f.resource = resource
	release := f.release
	err := f.err
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			f.mu.Lock()
			f.ctxErr = ctx.Err()
			f.mu.Unlock()
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeCuePlayer) snapshot() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.ctxErr
}

type fakeAudioCapture struct {
	mu       sync.Mutex
	sessions []ports.AudioSession
	err      error
	calls    int
}

func (f *fakeAudioCapture) Start(_ context.Context, _ ports.AudioConfig) (ports.AudioSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no audio session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

type fakeAudioSession struct {
	mu        sync.Mutex
	chunks    [][]byte
	index     int
	stopCalls int
	stopErr   error
	// stopRelease, when set, blocks Stop until it is closed.
	stopRelease chan struct{}
}

func (f *fakeAudioSession) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index >= len(f.chunks) {
		return 0, io.EOF
	}
	n := copy(p, f.chunks[f.index])
	f.index++
	return n, nil
}

func (f *fakeAudioSession) Close() error { return nil }

func (f *fakeAudioSession) Stop() error {
	f.mu.Lock()
	f.stopCalls++
	release := f.stopRelease
	err := f.stopErr
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

func (f *fakeAudioSession) stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

type fakeProvider struct {
	mu       sync.Mutex
	sessions []ports.StreamingSession
	err      error
	calls    int
}

func (f *fakeProvider) StartStreaming(_ context.Context, _ ports.StreamingConfig) (ports.StreamingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no stream session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStreamingSession struct {
	mu         sync.Mutex
	events     chan domain.TranscriptEvent
	waitErr    error
	closeCalls int
	closed     bool
}

func newFakeStreamingSession() *fakeStreamingSession {
	return &fakeStreamingSession{events: make(chan domain.TranscriptEvent, 16)}
}

func (f *fakeStreamingSession) SendAudio(_ []byte) error { return nil }

func (f *fakeStreamingSession) CloseSend() error { return nil }

func (f *fakeStreamingSession) Events() <-chan domain.TranscriptEvent { return f.events }

func (f *fakeStreamingSession) Wait() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waitErr
}

func (f *fakeStreamingSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	f.closeEventsLocked()
	return nil
}

func (f *fakeStreamingSession) send(kind domain.TranscriptKind, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.events <- domain.TranscriptEvent{Kind: kind, Text: text}
}

// fail ends the stream from the provider side with err.
func (f *fakeStreamingSession) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waitErr = err
	f.closeEventsLocked()
}

func (f *fakeStreamingSession) closeEventsLocked() {
	if !f.closed {
		close(f.events)
		f.closed = true
	}
}

func (f *fakeStreamingSession) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

type fakeClipboard struct {
	mu       sync.Mutex
	lastText string
	err      error
}

func (f *fakeClipboard) SetText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastText = text
	return f.err
}

type fakeSynthesizer struct {
	mu      sync.Mutex
	texts   []string
	ctxs    []context.Context
	release chan struct{}
	err     error
}

func (f *fakeSynthesizer) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.ctxs = append(f.ctxs, ctx)
	release := f.release
	err := f.err
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeSynthesizer) snapshot() ([]string, []context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := append([]string(nil), f.texts...)
	ctxs := append([]context.Context(nil), f.ctxs...)
	return texts, ctxs
}

type fakeVolume struct {
	level float64
	err   error
}

func (f fakeVolume) OutputVolume(_ context.Context) (float64, error) {
	return f.level, f.err
}

type fakeEventSink struct {
	mu sync.Mutex

	states    []stateEvent
	partials  []string
	ready     []string
	speaking  []bool
	reminders [][]domain.Reminder
	alerts    []alertEvent

	// onAlert runs after an alert is recorded, outside the lock.
	onAlert func()
}

type stateEvent struct {
	state  domain.CaptureState
	reason domain.CaptureReason
}

type alertEvent struct {
	kind   domain.AlertKind
	detail string
}

func (f *fakeEventSink) CaptureStateChanged(state domain.CaptureState, reason domain.CaptureReason) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, stateEvent{state: state, reason: reason})
}

func (f *fakeEventSink) PartialTranscript(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partials = append(f.partials, text)
}

func (f *fakeEventSink) TranscriptReady(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = append(f.ready, text)
}

func (f *fakeEventSink) SpeakingChanged(speaking bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speaking = append(f.speaking, speaking)
}

func (f *fakeEventSink) RemindersChanged(reminders []domain.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, reminders)
}

func (f *fakeEventSink) Alert(kind domain.AlertKind, detail string) {
	f.mu.Lock()
	f.alerts = append(f.alerts, alertEvent{kind: kind, detail: detail})
	hook := f.onAlert
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (f *fakeEventSink) snapshotStates() []stateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stateEvent(nil), f.states...)
}

func (f *fakeEventSink) snapshotPartials() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.partials...)
}

func (f *fakeEventSink) snapshotReady() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ready...)
}

func (f *fakeEventSink) snapshotSpeaking() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.speaking...)
}

func (f *fakeEventSink) snapshotReminders() [][]domain.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]domain.Reminder(nil), f.reminders...)
}

func (f *fakeEventSink) snapshotAlerts() []alertEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]alertEvent(nil), f.alerts...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
