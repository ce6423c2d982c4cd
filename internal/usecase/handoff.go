package usecase

import (
	"context"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
)

// transcriptHandoff forwards finished transcripts to reminder creation.
// Every non-failure ending (final result, silence timeout, explicit stop)
// forwards a non-empty transcript; failures never do.
type transcriptHandoff struct {
	clipboard ports.Clipboard
	events    ports.EventSink
}

func newTranscriptHandoff(clipboard ports.Clipboard, events ports.EventSink) transcriptHandoff {
	return transcriptHandoff{clipboard: clipboard, events: events}
}

func shouldForward(reason domain.CaptureReason, transcript string) bool {
	return transcript != "" && !reason.IsFailure()
}

func (h transcriptHandoff) Deliver(reason domain.CaptureReason, transcript string) bool {
	if !shouldForward(reason, transcript) {
		return false
	}
	h.events.TranscriptReady(transcript)
	return true
}

func (h transcriptHandoff) Copy(ctx context.Context, transcript string) error {
	if h.clipboard == nil {
		return nil
	}
	if err := h.clipboard.SetText(ctx, transcript); err != nil {
		h.events.Alert(domain.AlertClipboard, err.Error())
		return err
	}
	return nil
}
