// Package cli provides the command-line interface for worklog.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/internal/cli/commands"
	"github.com/ccollicutt/worklog/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)

	// Unknown first words are looked up as worklog-<command> plugins
	if name, ok := pluginCandidate(rootCmd, args); ok {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(context.Background(), pluginPath, args[1:])
		}
		_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(name))
		return 2
	}

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// pluginCandidate returns the first argument when it names no built-in
// command and is not a flag.
func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	name := args[0]
	if name == "" || name[0] == '-' || isBuiltinCommand(rootCmd, name) {
		return "", false
	}
	return name, true
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// cobra adds these lazily
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "worklog",
		Short: "Report time spent from a clock-in/clock-out log",
		Long: `worklog reads a plain-text activity log and reports time spent per day,
per description group and overall.

Log format, one entry per line:
  i 2024/03/01 09:00:00 Acme backend api
  o 2024/03/01 12:30:00

Group keys are the first --depth words of each description; hours of groups
listed under non_billable in the config are reported separately.

PLUGINS:
  Commands that are not built in run a worklog-<command> binary, searched in
  order:
    1. Same directory as the worklog binary
    2. ~/.config/worklog/plugins/
    3. Anywhere in PATH

  Known plugins:
    start    Clock in
    stop     Clock out
    status   Show the running clock-in`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
