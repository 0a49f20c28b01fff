// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
)

// Root returns the root command for the modsetup CLI.
//
// Running modsetup without a subcommand starts the setup, the same as
// "modsetup run".
func Root() *cobra.Command {
	global := &handlers.GlobalOptions{}
	run := runFlags{}

	cmd := &cobra.Command{
		Use:           "modsetup",
		Short:         "Guided setup driven by a step document",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), run.options(*global))
		},
	}

	cmd.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "Setup document (default: setup_steps.yaml in the work dir)")
	cmd.PersistentFlags().StringVarP(&global.WorkDir, "workdir", "w", "", "Directory relative paths resolve against (default: current directory)")
	cmd.PersistentFlags().StringVar(&global.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&global.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	run.bind(cmd)

	cmd.AddCommand(Run(global))
	cmd.AddCommand(Init(global))
	cmd.AddCommand(Validate(global))
	cmd.AddCommand(Status(global))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
