package wizard

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
)

// runBackendGroup prompts for the compute backend.
func runBackendGroup(ctx context.Context, result *Result) error {
	result.ComputeDriver = compute.DriverHetzner // default

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Compute Backend").
				Description("Backend the amphora instances are built on").
				Options(
					huh.NewOption("Hetzner Cloud", compute.DriverHetzner),
					huh.NewOption("Mock (dry runs and tests)", compute.DriverMock),
				).
				Value(&result.ComputeDriver),
		).Title("Backend"),
	).RunWithContext(ctx)
}

// runInstanceGroup prompts for the amphora instance shape.
func runInstanceGroup(ctx context.Context, result *Result) error {
	result.Topology = config.DefaultTopology

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Compute Flavor").
				Description("Default flavor amphorae are built with").
				Placeholder("cx22").
				Value(&result.Flavor).
				Validate(validateFlavor),
			huh.NewInput().
				Title("Image Tag").
				Description("Amphora images are selected by this tag, newest first").
				Placeholder("2025.1").
				Value(&result.ImageTag).
				Validate(validateImageTag),
			huh.NewSelect[string]().
				Title("Topology").
				Description("Default load balancer topology").
				Options(
					huh.NewOption("Single amphora", "SINGLE"),
					huh.NewOption("Active/standby pair", "ACTIVE_STANDBY"),
				).
				Value(&result.Topology),
		).Title("Instance Shape"),
	).RunWithContext(ctx)
}

// runNetworkingGroup prompts for networks, security groups and key material.
func runNetworkingGroup(ctx context.Context, result *Result) error {
	var networksInput, groupsInput string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Boot Networks").
				Description("Comma-separated network ids amphorae attach to").
				Placeholder("net-mgmt").
				Value(&networksInput).
				Validate(validateNetworks),
			huh.NewInput().
				Title("Security Groups (Optional)").
				Description("Comma-separated security group names").
				Placeholder("amphora-mgmt (or leave empty)").
				Value(&groupsInput),
			huh.NewInput().
				Title("SSH Key Name (Optional)").
				Description("Key material reference passed to the backend").
				Value(&result.SSHKeyName),
		).Title("Networking"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.BootNetworks = splitList(networksInput)
	result.SecurityGroups = splitList(groupsInput)
	return nil
}

// runBuildGroup prompts for build concurrency and placement behavior.
func runBuildGroup(ctx context.Context, result *Result) error {
	result.BuildLimit = "unlimited"
	result.AntiAffinity = true

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Build Limit").
				Description("How many builds may run at once, or \"unlimited\"").
				Placeholder("unlimited").
				Value(&result.BuildLimit).
				Validate(validateLimit),
			huh.NewConfirm().
				Title("Anti-Affinity").
				Description("Spread a load balancer's amphorae across hosts").
				Value(&result.AntiAffinity),
		).Title("Build Behavior"),
	).RunWithContext(ctx)
}

func validateFlavor(s string) error {
	if strings.TrimSpace(s) == "" {
		return errFlavorRequired
	}
	return nil
}

func validateImageTag(s string) error {
	if strings.TrimSpace(s) == "" {
		return errImageTagRequired
	}
	return nil
}

func validateNetworks(s string) error {
	if len(splitList(s)) == 0 {
		return errNetworksRequired
	}
	return nil
}

func validateLimit(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "unlimited" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errLimitInvalid
	}
	return nil
}

// splitList parses a comma-separated input into trimmed, non-empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
