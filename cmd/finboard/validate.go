package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deveshsoni7/finboard/config"
	"github.com/deveshsoni7/finboard/widget"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a FinBoard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. With --widgets, an exported widget configuration file is also
checked, so dashboards can be verified before being imported.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  finboard validate -c config.yaml
  finboard validate -c config.yaml --widgets finboard-config-2026-08-31.json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	validateCmd.Flags().String("widgets", "", "path to an exported widget configuration to check")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:            %d\n", cfg.Port)
	fmt.Printf("  Data file:       %s\n", cfg.DataFile)
	fmt.Printf("  Request timeout: %s\n", cfg.RequestTimeout.Duration())
	if cfg.ProxyURL != "" {
		fmt.Printf("  Proxy URL:       %s\n", cfg.ProxyURL)
	}

	widgetsFile, _ := cmd.Flags().GetString("widgets")
	if widgetsFile == "" {
		return nil
	}

	widgets, err := loadWidgetExport(widgetsFile)
	if err != nil {
		return fmt.Errorf("invalid widget configuration: %w", err)
	}

	fmt.Printf("Widget configuration is valid!\n")
	fmt.Printf("  Widgets: %d\n", len(widgets))
	return nil
}

// loadWidgetExport reads an exported widget configuration and validates
// every widget in it, including id uniqueness across the file.
func loadWidgetExport(path string) ([]widget.Widget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var widgets []widget.Widget
	if err := json.Unmarshal(data, &widgets); err != nil {
		return nil, fmt.Errorf("file must be a JSON array of widgets: %w", err)
	}

	seen := make(map[string]struct{}, len(widgets))
	for i, w := range widgets {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("widgets[%d]: %w", i, err)
		}
		if _, dup := seen[w.ID]; dup {
			return nil, fmt.Errorf("widgets[%d]: duplicate id %q", i, w.ID)
		}
		seen[w.ID] = struct{}{}
	}

	return widgets, nil
}
