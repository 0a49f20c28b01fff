package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
	"github.com/imamik/modsetup/internal/config"
)

// runFlags holds the flags of the run command. Defaults come from the
// MODSETUP_* environment variables.
type runFlags struct {
	ui            string
	settleDelay   time.Duration
	deleteRetries int
	retryDelay    time.Duration
	faultPolicy   string
	noHostFixup   bool
	metricsFile   string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	settings := config.LoadSettings()

	cmd.Flags().StringVar(&f.ui, "ui", handlers.UIAuto, "Interface: auto, tui or prompt")
	cmd.Flags().DurationVar(&f.settleDelay, "settle-delay", settings.SettleDelay, "Pause before each action and before a step advances (0 disables it)")
	cmd.Flags().IntVar(&f.deleteRetries, "delete-retries", settings.DeleteRetries, "Retries after a failed delete")
	cmd.Flags().DurationVar(&f.retryDelay, "retry-delay", settings.RetryDelay, "Pause between delete attempts")
	cmd.Flags().StringVar(&f.faultPolicy, "fault-policy", string(settings.FaultPolicy), "After a failed action: continue or halt")
	cmd.Flags().BoolVar(&f.noHostFixup, "no-host-fixup", false, "Do not apply the Mod Organizer fix-up")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write prometheus metrics to this file on exit")
}

func (f *runFlags) options(global handlers.GlobalOptions) handlers.RunOptions {
	return handlers.RunOptions{
		GlobalOptions: global,
		UI:            f.ui,
		SettleDelay:   f.settleDelay,
		DeleteRetries: f.deleteRetries,
		RetryDelay:    f.retryDelay,
		FaultPolicy:   f.faultPolicy,
		NoHostFixup:   f.noHostFixup,
		MetricsFile:   f.metricsFile,
	}
}

// Run returns the command that starts the setup.
//
// The setup document is loaded from --config. When it does not exist a demo
// document is written in its place and run.
//
// Flags:
//
//	--ui: auto (default), tui or prompt
//	--settle-delay, --delete-retries, --retry-delay: action timing
//	--fault-policy: continue (default) or halt
//	--no-host-fixup: skip the Mod Organizer fix-up
//	--metrics-file: prometheus text export written on exit
func Run(global *handlers.GlobalOptions) *cobra.Command {
	flags := runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the setup steps",
		Long: `Run the setup steps of a setup document.

Each step shows its instructions. Continue runs the step's actions and moves
on; Skip moves on without running them. Question steps offer Yes and No, each
with its own actions.

A full-screen interface is used when a terminal is attached, otherwise a
line-oriented prompt. Use --ui to choose explicitly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), flags.options(*global))
		},
	}

	flags.bind(cmd)

	return cmd
}
