package commands

import (
	"github.com/spf13/cobra"

	"github.com/lbforge/amphorad/cmd/amphorad/handlers"
)

// Provision returns the command for building amphora instances.
//
// Required flags:
//
//	--lb-id: the load balancer the amphorae belong to
//
// Optional flags:
//
//	--config, -c: path to the configuration YAML file (default: amphorad.yaml)
//	--replicas, -n: how many amphorae to build (default: 1)
//	--zone: availability zone to build into
//	--management-network: zone management network, replaces the configured boot networks
//	--failover: admit the builds with failover priority
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required for the hetzner driver)
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Build amphora instances for a load balancer",
		Long: `Build one or more amphora instances for a load balancer.

Each build runs as a compensable task sequence: when a step fails, the
resources created by earlier steps are cleaned up in reverse order.

Examples:
  # Build a single amphora
  amphorad provision --lb-id lb-1

  # Build an active/standby pair into a specific zone
  amphorad provision --lb-id lb-1 -n 2 --zone fsn1

  # Replace a failed amphora ahead of normal builds
  amphorad provision --lb-id lb-1 --failover`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "amphorad.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&opts.LoadBalancerID, "lb-id", "", "Load balancer the amphorae belong to")
	cmd.Flags().IntVarP(&opts.Replicas, "replicas", "n", 1, "Number of amphorae to build")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "Availability zone to build into")
	cmd.Flags().StringVar(&opts.ManagementNetwork, "management-network", "", "Zone management network (replaces configured boot networks)")
	cmd.Flags().BoolVar(&opts.Failover, "failover", false, "Admit the builds with failover priority")
	_ = cmd.MarkFlagRequired("lb-id")

	return cmd
}
