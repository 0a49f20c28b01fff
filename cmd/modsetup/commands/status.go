package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
)

// Status returns the command a launcher uses to decide whether to start
// the setup.
//
// Flags:
//
//	--ack: Consume the complete marker
//	--output, -o: text (default), json or yaml
func Status(global *handlers.GlobalOptions) *cobra.Command {
	var (
		ack    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether setup is pending, running or completed",
		Long: `Inspect the marker files in the work dir.

  pending    no marker: setup has not run, the launcher should start it
  running    a run is active or was interrupted
  completed  setup finished; --ack consumes the marker once recorded`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Status(*global, ack, output)
		},
	}

	cmd.Flags().BoolVar(&ack, "ack", false, "Consume the complete marker")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}
