package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/worklog/pkg/config"
	"github.com/ccollicutt/worklog/pkg/output"
)

// watchDebounce is the quiet period after the last change event before the
// report is rebuilt. Editors and the timer plugin often write in bursts.
const watchDebounce = 300 * time.Millisecond

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	ReportOptions

	// Refresh re-renders periodically while a clock-in is running.
	Refresh time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the report whenever the log changes",
		Long: `Print the report, then print it again every time the activity log is
written. While a clock-in is running the report is also refreshed every
--refresh interval so the running total stays current.

Parse errors while the log is being edited are logged and the previous
report is kept. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.depthSet = cmd.Flags().Changed("depth")
			return runWatch(cmd, opts)
		},
	}

	addReportFlags(cmd, &opts.ReportOptions)
	cmd.Flags().DurationVar(&opts.Refresh, "refresh", time.Minute, "Refresh interval while clocked in (0 disables)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := loadConfig(ctx, &opts.ReportOptions)
	if err != nil {
		return err
	}
	formatter, err := createFormatter(&opts.ReportOptions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	running, err := renderReport(ctx, cfg, &opts.ReportOptions, formatter, out, logger)
	if err != nil {
		return err
	}

	watcher := newLogWatcher(cfg.LogFile, watchDebounce, logger)
	errc := make(chan error, 1)
	go func() {
		errc <- watcher.run(ctx, nil)
	}()

	var tick <-chan time.Time
	if opts.Refresh > 0 {
		ticker := time.NewTicker(opts.Refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case <-tick:
			if !running {
				continue
			}
		case <-watcher.changes:
			logger.DebugContext(ctx, "log changed", "path", cfg.LogFile)
		}

		fmt.Fprintf(out, "\n--- %s ---\n", opts.clock()().Format(time.TimeOnly))
		r, err := renderReport(ctx, cfg, &opts.ReportOptions, formatter, out, logger)
		if err != nil {
			logger.WarnContext(ctx, "report not updated", "error", err)
			continue
		}
		running = r
	}
}

// renderReport builds and writes one report. It returns whether a clock-in
// is still running.
func renderReport(ctx context.Context, cfg *config.Config, opts *ReportOptions, formatter output.Formatter, w io.Writer, logger *slog.Logger) (bool, error) {
	report, err := buildReport(ctx, cfg, opts, logger)
	if err != nil {
		return false, err
	}
	if err := formatter.Format(ctx, report, w); err != nil {
		return false, fmt.Errorf("formatting output: %w", err)
	}
	return report.Metadata.Running != nil, nil
}

// logWatcher reports debounced changes to a single file. It watches the
// parent directory so that files replaced by rename are still followed.
type logWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	// changes has capacity 1; a pending signal already covers later events.
	changes chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newLogWatcher(path string, debounce time.Duration, logger *slog.Logger) *logWatcher {
	return &logWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
	}
}

// run watches until ctx is done. ready, if not nil, is closed once the watch
// is in place.
func (w *logWatcher) run(ctx context.Context, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	defer w.stopTimer()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watch error", "path", w.path, "error", err)
		}
	}
}

func (w *logWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.signal)
}

func (w *logWatcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *logWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
