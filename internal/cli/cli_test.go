package cli

import (
	"bytes"
	"strings"
	"testing"

	"rappelmoi/internal/config"
	"rappelmoi/internal/domain"
	"rappelmoi/internal/output"
	"rappelmoi/internal/version"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := NewRootCmd(&Dependencies{Config: config.Config{}})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != version.Full() {
		t.Fatalf("unexpected version output: %q", got)
	}
}

func TestRootRejectsInvalidLogLevel(t *testing.T) {
	t.Parallel()

	root := NewRootCmd(&Dependencies{})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "loud", "version"})

	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "log-level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	t.Parallel()

	root := NewRootCmd(&Dependencies{})
	for _, name := range []string{"tui", "listen", "speak", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s command, got %v (%v)", name, cmd, err)
		}
	}
	listen, _, _ := root.Find([]string{"listen"})
	for _, flag := range []string{"due", "yaml", "timeout"} {
		if listen.Flags().Lookup(flag) == nil {
			t.Fatalf("expected --%s on listen", flag)
		}
	}
}

func TestFormatterSinkSignalsIdleAfterStart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := newFormatterSink(output.NewFormatter(&buf))

	sink.CaptureStateChanged(domain.CaptureStateIdle, domain.CaptureReasonReady)
	select {
	case <-sink.idle:
		t.Fatalf("idle before any capture must not signal")
	default:
	}

	sink.CaptureStateChanged(domain.CaptureStatePrimingAudio, domain.CaptureReasonCuePlaying)
	sink.PartialTranscript("acheter")
	sink.CaptureStateChanged(domain.CaptureStateIdle, domain.CaptureReasonSilenceTimeout)

	select {
	case reason := <-sink.idle:
		if reason != domain.CaptureReasonSilenceTimeout {
			t.Fatalf("unexpected reason %s", reason)
		}
	default:
		t.Fatalf("expected idle signal")
	}
	if !strings.Contains(buf.String(), "acheter") {
		t.Fatalf("expected partial to be printed: %q", buf.String())
	}
}

func TestFormatterSinkQuietStillPrintsAlerts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := newFormatterSink(output.NewFormatter(&buf))
	sink.setQuiet(true)

	sink.PartialTranscript("hidden")
	sink.Alert(domain.AlertPermissionDenied, "denied")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("quiet sink printed a partial: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "micro") {
		t.Fatalf("expected alert output: %q", buf.String())
	}
}
