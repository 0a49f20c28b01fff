package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
)

// Validate returns the command that checks a setup document.
func Validate(global *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a setup document",
		Long: `Load a setup document and report entries that will not behave as expected,
such as unknown action kinds or jumps past the last step.

Warnings do not fail the command; a document that cannot be parsed does.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(*global)
		},
	}
}
