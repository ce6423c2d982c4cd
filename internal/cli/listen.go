package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rappelmoi/internal/bootstrap"
	"rappelmoi/internal/output"
	"rappelmoi/internal/tui"
)

func NewListenCmd(deps *Dependencies) *cobra.Command {
	var (
		due     string
		asYAML  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Capture one spoken reminder",
		Long:  "Plays the activation sound, listens until you stop talking and prints the transcript. With --due, the transcript is saved as a reminder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			formatter := output.NewFormatter(cmd.OutOrStdout())
			sink := newFormatterSink(output.NewFormatter(cmd.ErrOrStderr()))
			sink.setQuiet(asYAML)
			services := bootstrap.Wire(deps.Config, sink, tui.Clipboard{}, deps.Logger)

			var dueAt time.Time
			if due != "" {
				parsed, err := tui.ParseDue(due, time.Now())
				if err != nil {
					return err
				}
				dueAt = parsed
			}

			if err := services.Capture.Start(ctx); err != nil {
				return err
			}

			select {
			case <-sink.idle:
			case <-ctx.Done():
				stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := services.Capture.Stop(stopCtx); err != nil {
					return err
				}
			case <-time.After(timeout):
				stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := services.Capture.Stop(stopCtx); err != nil {
					return err
				}
			}

			status := services.Capture.Status()
			if status.LastReason.IsFailure() {
				return fmt.Errorf("capture failed: %s", output.ReasonMessage(status.LastReason))
			}
			if !status.HasPendingTranscript() {
				return errors.New("no transcript captured")
			}
			if dueAt.IsZero() {
				if asYAML {
					fmt.Fprintln(cmd.OutOrStdout(), status.Transcript)
				}
				return nil
			}

			reminder, err := services.Reminders.Add(status.Transcript, dueAt)
			if err != nil {
				return err
			}
			if asYAML {
				return formatter.ReminderYAML(reminder)
			}
			formatter.ReminderAdded(reminder, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "save the transcript as a reminder due at this time (18h30, 45m, 2026-10-20 09:00)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the result as YAML")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up listening after this long")

	return cmd
}
