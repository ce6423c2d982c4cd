package usecase

import (
	"errors"
	"fmt"
	"io"
	"os"

	"rappelmoi/internal/domain"
	"rappelmoi/internal/ports"
)

type pumpFailure func(kind domain.AlertKind, err error)

func pumpAudioChunks(
	audio ports.AudioSession,
	stream ports.StreamingSession,
	chunkSize int,
	onFailure pumpFailure,
	done chan struct{},
) {
	defer close(done)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			if sendErr := stream.SendAudio(buf[:n]); sendErr != nil {
				onFailure(domain.AlertTranscription, fmt.Errorf("failed to stream audio: %w", sendErr))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				onFailure(domain.AlertAudioSession, fmt.Errorf("audio capture error: %w", err))
			}
			return
		}
	}
}
