package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"rappelmoi/internal/ports"
)

// listeningPhase holds the resources of one listening phase. timer and
// timerSeq are guarded by CaptureSession.mu.
type listeningPhase struct {
	audio  ports.AudioSession
	stream ports.StreamingSession

	timer    *time.Timer
	timerSeq uint64

	eventsDone chan struct{}
	audioDone  chan struct{}

	releaseOnce sync.Once
	releaseErr  error
}

func newListeningPhase(audio ports.AudioSession, stream ports.StreamingSession) *listeningPhase {
	return &listeningPhase{
		audio:      audio,
		stream:     stream,
		eventsDone: make(chan struct{}),
		audioDone:  make(chan struct{}),
	}
}

func (p *listeningPhase) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// release stops the microphone and closes the transcription stream.
func (p *listeningPhase) release() error {
	p.releaseOnce.Do(func() {
		audioErr := p.audio.Stop()
		streamErr := p.stream.Close()
		p.releaseErr = errors.Join(audioErr, streamErr)
	})
	return p.releaseErr
}

func (p *listeningPhase) wait(ctx context.Context) error {
	for _, done := range []chan struct{}{p.eventsDone, p.audioDone} {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
