package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/pkg/analyzer"
	"github.com/ccollicutt/worklog/pkg/config"
	"github.com/ccollicutt/worklog/pkg/interval"
	"github.com/ccollicutt/worklog/pkg/output"
	"github.com/ccollicutt/worklog/pkg/parser"
	"github.com/ccollicutt/worklog/pkg/webhook"
)

// ReportOptions holds command-line options for the report command.
type ReportOptions struct {
	ConfigPath string
	LogFile    string
	Output     string

	// Window selection
	Today bool
	Week  bool
	Begin string
	End   string

	Filter   string
	Invert   bool
	Depth    int
	depthSet bool

	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string

	// now and loc are fixed by tests; zero values mean the wall clock
	// and local time.
	now func() time.Time
	loc *time.Location
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report time spent per day and per group",
		Long: `Read the activity log and report time spent per day, per description
group and overall.

Each clock-in ("i YYYY/MM/DD HH:MM:SS description") must be followed by a
clock-out ("o YYYY/MM/DD HH:MM:SS"). A trailing clock-in is counted up to the
current time. Intervals crossing midnight are split at the day boundary.

Examples:
  worklog report --today
  worklog report --week --depth 2
  worklog report --begin 2024-03-01 --end 2024-03-31 --filter '^acme'
  worklog report --filter admin --invert -o json

Exit codes:
  0 - Report produced
  2 - Configuration, log or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.depthSet = cmd.Flags().Changed("depth")
			return runReport(cmd, opts)
		},
	}

	addReportFlags(cmd, opts)

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "always", "When to fire webhook (always|on_hours|never)")

	return cmd
}

// addReportFlags registers the flags shared by report and watch.
func addReportFlags(cmd *cobra.Command, opts *ReportOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default "+config.DefaultConfigPath+")")
	cmd.Flags().StringVarP(&opts.LogFile, "log-file", "f", "", "Activity log file (overrides config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Today, "today", false, "Only today")
	cmd.Flags().BoolVar(&opts.Week, "week", false, "Only the current week, starting Monday")
	cmd.Flags().StringVar(&opts.Begin, "begin", "", "First day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.End, "end", "", "Last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "F", "", "Keep intervals whose description matches this regexp (case-insensitive)")
	cmd.Flags().BoolVar(&opts.Invert, "invert", false, "Keep intervals that do not match --filter")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", config.DefaultGroupDepth, "Description words used as group key (0 disables grouping)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show run details and debug logs")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	switch config.WebhookTrigger(opts.WebhookTrigger) {
	case "", config.WebhookTriggerAlways, config.WebhookTriggerOnHours, config.WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid --webhook-trigger %q (use always, on_hours or never)", opts.WebhookTrigger)
	}

	report, err := buildReport(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the report
	sendWebhooks(ctx, logger, collectWebhooks(cfg, opts), report)

	return nil
}

// loadConfig loads the explicit --config file, or the default config file
// when present, then applies the flag overrides.
func loadConfig(ctx context.Context, opts *ReportOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(ctx, opts.ConfigPath)
	} else {
		cfg, err = config.LoadOptional(ctx, config.DefaultConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.depthSet {
		cfg.GroupDepth = opts.Depth
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// buildReport runs the analysis of cfg.LogFile with the window and filter
// selected in opts.
func buildReport(ctx context.Context, cfg *config.Config, opts *ReportOptions, logger *slog.Logger) (*output.Report, error) {
	now := opts.clock()
	loc := opts.location()

	window, err := resolveWindow(opts, now(), loc)
	if err != nil {
		return nil, err
	}

	if opts.Invert && opts.Filter == "" {
		return nil, errors.New("--invert requires --filter")
	}
	filter, err := analyzer.NewDescriptionFilter(opts.Filter, opts.Invert)
	if err != nil {
		return nil, err
	}

	a, err := analyzer.NewAnalyzer(
		analyzer.WithWindow(window),
		analyzer.WithDescriptionFilter(filter),
		analyzer.WithGroupDepth(cfg.GroupDepth),
		analyzer.WithNonBillable(cfg.NonBillable),
		analyzer.WithTargets(analyzer.Targets{
			HoursPerDay: cfg.Targets.HoursPerDay,
			DaysPerWeek: cfg.Targets.DaysPerWeek,
		}),
		analyzer.WithClock(now),
		analyzer.WithLocation(loc),
		analyzer.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}

	source := parser.NewFileSource(cfg.LogFile)
	if err := source.Open(); err != nil {
		return nil, err
	}
	defer source.Close()

	logger.DebugContext(ctx, "analyzing log", "path", cfg.LogFile, "window", window.String(), "filter", filter.String())

	result, err := a.Analyze(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return output.NewReport(result), nil
}

// resolveWindow turns the window flags into a Window. --today, --week and
// --begin/--end are mutually exclusive; with none of them the whole log is
// reported.
func resolveWindow(opts *ReportOptions, now time.Time, loc *time.Location) (interval.Window, error) {
	selected := 0
	for _, set := range []bool{opts.Today, opts.Week, opts.Begin != "" || opts.End != ""} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return interval.Window{}, errors.New("--today, --week and --begin/--end cannot be combined")
	}

	now = now.In(loc)
	switch {
	case opts.Today:
		return interval.Today(now), nil
	case opts.Week:
		return interval.ThisWeek(now), nil
	}

	var window interval.Window
	if opts.Begin != "" {
		first, err := parser.ParseDate(opts.Begin)
		if err != nil {
			return interval.Window{}, fmt.Errorf("invalid --begin: %w", err)
		}
		window.Begin = first.In(loc)
	}
	if opts.End != "" {
		last, err := parser.ParseDate(opts.End)
		if err != nil {
			return interval.Window{}, fmt.Errorf("invalid --end: %w", err)
		}
		window.End = last.In(loc).AddDate(0, 0, 1)
	}
	if !window.Begin.IsZero() && !window.End.IsZero() && !window.Begin.Before(window.End) {
		return interval.Window{}, fmt.Errorf("--end %s is before --begin %s", opts.End, opts.Begin)
	}
	return window, nil
}

func createFormatter(opts *ReportOptions) (output.Formatter, error) {
	formatter, ok := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	return formatter, nil
}

func (o *ReportOptions) clock() func() time.Time {
	if o.now != nil {
		return o.now
	}
	return time.Now
}

func (o *ReportOptions) location() *time.Location {
	if o.loc != nil {
		return o.loc
	}
	return time.Local
}

// sendWebhooks sends the report to every webhook whose trigger fires.
func sendWebhooks(ctx context.Context, logger *slog.Logger, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !webhook.ShouldFire(wh.Trigger, report) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.InfoContext(ctx, "webhook sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			logger.WarnContext(ctx, "webhook failed", "webhook", name, "error", resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// newLogger returns the diagnostics logger: info and above by default,
// debug with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
