package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

const defaultSink = "@DEFAULT_SINK@"

var percentPattern = regexp.MustCompile(`(\d+)%`)

// VolumeMeter reads the default output volume from PulseAudio via pactl.
type VolumeMeter struct {
	command string
}

func NewVolumeMeter(command string) *VolumeMeter {
	if command == "" {
		command = "pactl"
	}
	return &VolumeMeter{command: command}
}

// OutputVolume returns the sink volume in [0, 1]. A muted sink reads as 0.
func (v *VolumeMeter) OutputVolume(ctx context.Context) (float64, error) {
	muteOut, err := v.pactl(ctx, "get-sink-mute")
	if err != nil {
		return 0, fmt.Errorf("read sink mute: %w", err)
	}
	volumeOut, err := v.pactl(ctx, "get-sink-volume")
	if err != nil {
		return 0, fmt.Errorf("read sink volume: %w", err)
	}
	return parseSinkVolume(string(muteOut), string(volumeOut))
}

// pactl translates its output; parsing expects the C locale.
func (v *VolumeMeter) pactl(ctx context.Context, subcommand string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, v.command, subcommand, defaultSink)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	return cmd.Output()
}

// parseSinkVolume averages the per-channel percentages reported by pactl.
func parseSinkVolume(mute, volume string) (float64, error) {
	if strings.Contains(strings.ToLower(mute), "yes") {
		return 0, nil
	}

	matches := percentPattern.FindAllStringSubmatch(volume, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("unrecognized volume output: %q", strings.TrimSpace(volume))
	}

	var total float64
	for _, match := range matches {
		pct, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("parse volume %q: %w", match[0], err)
		}
		total += float64(pct)
	}
	level := total / float64(len(matches)) / 100
	if level > 1 {
		level = 1
	}
	return level, nil
}
