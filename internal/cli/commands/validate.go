package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a worklog configuration file without reading the log.

Checks:
  - YAML syntax
  - group_depth, non_billable and targets values
  - Webhook URLs and triggers
  - Log file existence (warning only)

Without an argument the default config file is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := config.DefaultConfigPath
	if len(args) == 1 {
		configPath = args[0]
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log file:     %s\n", cfg.LogFile)
	fmt.Fprintf(out, "  Group depth:  %d\n", cfg.GroupDepth)
	fmt.Fprintf(out, "  Non-billable: %d prefix(es)\n", len(cfg.NonBillable))
	for _, prefix := range cfg.NonBillable {
		fmt.Fprintf(out, "    - %s\n", prefix)
	}
	if cfg.Targets.HoursPerDay > 0 {
		fmt.Fprintf(out, "  Targets:      %.2fh/day, %d day(s)/week\n", cfg.Targets.HoursPerDay, cfg.Targets.DaysPerWeek)
	}
	fmt.Fprintf(out, "  Webhooks:     %d\n", len(cfg.Webhooks))

	// Log file presence is a warning only; it may not exist until the first clock-in
	if info, err := os.Stat(cfg.LogFile); err != nil {
		fmt.Fprintf(out, "\nWarning: log file not readable: %v\n", err)
	} else if info.IsDir() {
		fmt.Fprintf(out, "\nWarning: log file %s is a directory\n", cfg.LogFile)
	}

	return nil
}
