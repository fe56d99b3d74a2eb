package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/lbforge/amphorad/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, result)

	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("amphorad - amphora provisioning")
	fmt.Println("===============================")
	fmt.Println()
	fmt.Println("This wizard creates a configuration file with sensible defaults.")
	fmt.Println()
}

func printInitSuccess(outputPath string, result *wizard.Result) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Backend:     %s\n", result.ComputeDriver)
	fmt.Printf("  Flavor:      %s\n", result.Flavor)
	fmt.Printf("  Image Tag:   %s\n", result.ImageTag)
	fmt.Printf("  Topology:    %s\n", result.Topology)
	fmt.Printf("  Build Limit: %s\n", result.BuildLimit)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	if result.ComputeDriver == "hetzner" {
		fmt.Println("  1. Set your Hetzner Cloud API token:")
		fmt.Println("     export HCLOUD_TOKEN=<your-token>")
		fmt.Println()
	}
	fmt.Printf("  2. Build amphorae:\n")
	fmt.Printf("     amphorad provision -c %s --lb-id <id>\n", outputPath)
	fmt.Println()
}
