package commands

import (
	"github.com/spf13/cobra"

	"github.com/lbforge/amphorad/cmd/amphorad/handlers"
)

// Init returns the command for interactively creating a configuration file.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Create an amphorad configuration file through an interactive wizard.

The wizard asks for the compute backend, instance shape, networking and
build behavior, then writes a ready-to-use YAML file.

Examples:
  # Create amphorad.yaml in the current directory
  amphorad init

  # Write to a different path
  amphorad init -o /etc/amphorad/amphorad.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "amphorad.yaml", "Path for the generated configuration file")

	return cmd
}
