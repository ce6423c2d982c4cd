package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"rappelmoi/internal/ports"
)

// CuePlayer plays bundled sound resources with ffplay.
type CuePlayer struct {
	command string
	dir     string
}

func NewCuePlayer(command, dir string) *CuePlayer {
	if command == "" {
		command = "ffplay"
	}
	return &CuePlayer{command: command, dir: dir}
}

// Resolve maps a resource name to its mp3 file under the cue directory.
func (p *CuePlayer) Resolve(resource string) (string, error) {
	name := strings.TrimSpace(resource)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid resource name %q", ports.ErrCueNotFound, resource)
	}
	if filepath.Ext(name) == "" {
		name += ".mp3"
	}
	path := filepath.Join(p.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ports.ErrCueNotFound, path)
		}
		return "", fmt.Errorf("stat cue %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ports.ErrCueNotFound, path)
	}
	return path, nil
}

// Play blocks until playback has finished. Cancelling ctx kills the player.
func (p *CuePlayer) Play(ctx context.Context, resource string) error {
	path, err := p.Resolve(resource)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.command, "-nodisp", "-autoexit", "-loglevel", "error", path)
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("play cue %s: %w: %s", resource, err, detail)
		}
		return fmt.Errorf("play cue %s: %w", resource, err)
	}
	return nil
}
