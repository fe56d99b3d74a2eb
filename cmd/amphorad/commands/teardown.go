package commands

import (
	"github.com/spf13/cobra"

	"github.com/lbforge/amphorad/cmd/amphorad/handlers"
)

// Teardown returns the command for deleting a load balancer's amphorae.
func Teardown() *cobra.Command {
	var opts handlers.TeardownOptions

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Delete a load balancer's amphora instances",
		Long: `Delete the amphora instances attached to a load balancer, and its
placement group when one is named.

Instance deletion is idempotent: handles that are already gone count as
deleted. The first hard failure stops the remaining deletions so the
operation can be retried.

Examples:
  # Delete two amphorae and their placement group
  amphorad teardown --lb-id lb-1 --compute-id 101 --compute-id 102 --placement-group 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "amphorad.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&opts.LoadBalancerID, "lb-id", "", "Load balancer to tear down")
	cmd.Flags().StringArrayVar(&opts.ComputeIDs, "compute-id", nil, "Compute handle to delete (repeatable)")
	cmd.Flags().StringVar(&opts.PlacementGroupID, "placement-group", "", "Placement group to delete after the instances")
	_ = cmd.MarkFlagRequired("lb-id")
	_ = cmd.MarkFlagRequired("compute-id")

	return cmd
}
