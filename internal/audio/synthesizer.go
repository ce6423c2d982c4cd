package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Synthesizer speaks text through espeak-ng.
type Synthesizer struct {
	command string
	voice   string
}

func NewSynthesizer(command, voice string) *Synthesizer {
	if command == "" {
		command = "espeak-ng"
	}
	return &Synthesizer{command: command, voice: voice}
}

func (s *Synthesizer) args(text string) []string {
	args := make([]string, 0, 4)
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	return append(args, "--", text)
}

// Speak returns once the utterance has finished or ctx is cancelled.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.command, s.args(text)...)
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("speech synthesis: %w: %s", err, detail)
		}
		return fmt.Errorf("speech synthesis: %w", err)
	}
	return nil
}
