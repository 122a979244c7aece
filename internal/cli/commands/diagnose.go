package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/pkg/config"
	"github.com/ccollicutt/worklog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose configuration and activity log problems",
		Long: `Diagnose common configuration and activity log problems.

This command checks:
- Config file syntax and values
- Log file existence and accessibility
- Every log line parses and clock-ins and clock-outs alternate
- Webhook configuration

Example:
  worklog diagnose
  worklog diagnose -v ~/.config/worklog/config.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, args []string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	configPath := config.DefaultConfigPath
	explicit := len(args) == 1
	if explicit {
		configPath = args[0]
	}

	// 1. Config file existence
	result := checkConfigExists(configPath, explicit)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Config parse and validation
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Log file
	result = checkLogFile(cfg.LogFile)
	results = append(results, result)

	// 4. Log contents
	if result.Status != "error" {
		results = append(results, checkLogParse(ctx, cfg.LogFile, opts))
	}

	// 5. Webhooks
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string, explicit bool) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	expanded, err := config.ExpandHome(path)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return result
	}

	info, err := os.Stat(expanded)
	if errors.Is(err, os.ErrNotExist) {
		if !explicit {
			result.Status = "ok"
			result.Message = fmt.Sprintf("No config at %s, using defaults", path)
			return result
		}
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.LoadOptional(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config loaded successfully"
	result.Details = []string{
		fmt.Sprintf("Log file: %s", cfg.LogFile),
		fmt.Sprintf("Group depth: %d", cfg.GroupDepth),
		fmt.Sprintf("Non-billable prefixes: %d", len(cfg.NonBillable)),
	}
	return cfg, result
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Log File: %s", path),
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		result.Status = "error"
		result.Message = "File does not exist"
		result.Suggests = []string{
			"Set log_file in the config or " + config.EnvLogFile,
			"Clock in once to create the log",
		}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
	case info.Size() == 0:
		result.Status = "warning"
		result.Message = "File is empty (0 bytes)"
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
	}

	return result
}

// checkLogParse reads the whole log the way report does and reports the
// first malformed or out-of-order line.
func checkLogParse(ctx context.Context, path string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log Entries",
	}

	source := parser.NewFileSource(path)
	defer source.Close()

	reader := parser.NewPairReader(source)
	pairs, err := reader.ReadAll(ctx)

	var (
		malformed *parser.MalformedLineError
		ordering  *parser.OrderingError
	)
	switch {
	case errors.As(err, &malformed):
		result.Status = "error"
		result.Message = fmt.Sprintf("Line %d is not a valid entry", malformed.Line)
		result.Details = []string{truncate(malformed.Text, 80)}
		result.Suggests = []string{
			"Clock-ins look like: i " + parser.TimestampLayout + " description",
			"Clock-outs look like: o " + parser.TimestampLayout,
		}
		return result
	case errors.As(err, &ordering):
		result.Status = "error"
		result.Message = fmt.Sprintf("Line %d: %s", ordering.Line, ordering.Reason)
		result.Suggests = []string{"Each clock-in must be followed by exactly one later clock-out"}
		return result
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read log: %v", err)
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d interval(s) parsed", len(pairs))
	if n := len(pairs); n > 0 {
		last := pairs[n-1]
		if last.Running() {
			result.Message += fmt.Sprintf(", clocked in since %s", last.Start.Timestamp.Format(parser.TimestampLayout))
		}
		if opts.Verbose {
			result.Details = append(result.Details,
				fmt.Sprintf("First entry: %s", pairs[0].Start.Timestamp.Format(parser.TimestampLayout)),
				fmt.Sprintf("Last entry: %s", last.Start.Timestamp.Format(parser.TimestampLayout)))
		}
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== Worklog Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running a report.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nSetup is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nEverything looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	// URL and trigger were checked when the config loaded
	for _, wh := range cfg.Webhooks {
		name := webhookName(wh)
		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Token == "" && strings.Contains(wh.URL, "token") {
			result.Status = "warning"
			result.Message = "URL looks like it carries a token; prefer the token field"
		}

		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (reports are sent with POST)",
			"Check authentication if using a token",
		}
	}

	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
