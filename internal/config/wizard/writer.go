package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lbforge/amphorad/internal/config"
)

// WriteConfig writes the config to a YAML file with a descriptive header.
func WriteConfig(cfg *config.Config, outputPath string) error {
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Function variable for dependency injection in tests.
var timeNow = time.Now

func generateHeader(outputPath string) string {
	return fmt.Sprintf(`# amphorad configuration
# Generated by 'amphorad init' on %s
#
# Edit this file, then start the daemon or run one-shot builds with it:
#   amphorad provision -c %s --lb-id <id>
`, timeNow().Format("2006-01-02 15:04:05"), outputPath)
}
