package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"rappelmoi/internal/bootstrap"
	"rappelmoi/internal/output"
	"rappelmoi/internal/tui"
)

func NewSpeakCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "speak [text]",
		Short: "Read a reminder aloud",
		Long:  "Speaks the given text, or the configured prompt when no text is given. Fails when the output volume is muted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sink := newFormatterSink(output.NewFormatter(cmd.ErrOrStderr()))
			services := bootstrap.Wire(deps.Config, sink, tui.Clipboard{}, deps.Logger)

			if err := services.Speaker.Speak(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			return services.Speaker.Wait(cmd.Context())
		},
	}
}
