package cli

import (
	"github.com/spf13/cobra"

	"rappelmoi/internal/bootstrap"
	"rappelmoi/internal/tui"
)

func NewTUICmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sink := tui.NewSink()
			services := bootstrap.Wire(deps.Config, sink, tui.Clipboard{}, deps.Logger)
			return tui.Run(cmd.Context(), sink, services.Capture, services.Speaker, services.Reminders)
		},
	}
}
