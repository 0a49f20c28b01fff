package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/modsetup/cmd/modsetup/handlers"
)

// Init returns the command that writes the demo setup document.
//
// Flags:
//
//	--output, -o: Path to output file (default: --config or setup_steps.yaml)
//	--force, -f: Overwrite an existing document
//	--assets: Also write the pages and sample files the demo uses
func Init(global *handlers.GlobalOptions) *cobra.Command {
	var (
		outputPath string
		force      bool
		assets     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the demo setup document",
		Long: `Write the demo setup document.

The demo walks through every action kind and is a starting point for your
own document. A .json output path writes JSON, anything else YAML.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Init(*global, outputPath, force, assets)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing document")
	cmd.Flags().BoolVar(&assets, "assets", true, "Also write the demo pages and sample files")

	return cmd
}
