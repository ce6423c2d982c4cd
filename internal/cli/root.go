package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rappelmoi/internal/config"
	"rappelmoi/internal/version"
)

type Dependencies struct {
	Config config.Config
	Logger *slog.Logger
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	var (
		logLevel string
		logFile  string
	)

	rootCmd := &cobra.Command{
		Use:           "rappelmoi",
		Short:         "Dictate reminders by voice",
		Long:          "RappelMoi plays an activation sound, listens to your voice, turns what you say into a reminder and can read it back aloud.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd, logLevel, logFile)
			if err != nil {
				return err
			}
			deps.Logger = logger
			return nil
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostic logs to this file")

	rootCmd.AddCommand(NewTUICmd(deps))
	rootCmd.AddCommand(NewListenCmd(deps))
	rootCmd.AddCommand(NewSpeakCmd(deps))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newLogger writes to logFile when set. Without one the terminal UI logs
// nowhere, since stderr shares the screen with it.
func newLogger(cmd *cobra.Command, level string, logFile string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}

	var w io.Writer = cmd.ErrOrStderr()
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	case cmd.Name() == "tui":
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
