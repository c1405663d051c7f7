package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plexsphere/weftctl/internal/logtail"
	"github.com/plexsphere/weftctl/internal/metrics"
	"github.com/plexsphere/weftctl/internal/telemetry"
	"github.com/plexsphere/weftctl/internal/view"
)

var (
	watchMetricsAddr string
	watchNoLogs      bool
	watchWarn        int64
	watchDrop        int64
	watchFor         time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live counters and the packet log",
	Long: "Poll the dashboard's counters and packet log on independent timers.\n" +
		"A status line is printed whenever the counters settle on a new value and\n" +
		"new log rows are printed as they arrive. With --metrics-addr the live\n" +
		"counters are also exported for Prometheus.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	watchCmd.Flags().BoolVar(&watchNoLogs, "no-logs", false, "follow the counters only")
	watchCmd.Flags().Int64Var(&watchWarn, "warn", 0, "DOS warn threshold per 5s shown in the panel; 'weftctl dos' changes the dashboard's")
	watchCmd.Flags().Int64Var(&watchDrop, "drop", 0, "DOS drop threshold per 5s shown in the panel; 'weftctl dos' changes the dashboard's")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, client, err := setup()
	if err != nil {
		return fmt.Errorf("weftctl watch: %w", err)
	}
	if watchMetricsAddr != "" {
		cfg.Metrics.ListenAddr = watchMetricsAddr
		if err := cfg.Metrics.Validate(); err != nil {
			return fmt.Errorf("weftctl watch: %w", err)
		}
	}

	ctx, cancel := runContext(cmd.Context(), watchFor)
	defer cancel()

	w := &lockedWriter{w: cmd.OutOrStdout()}

	rec := telemetry.NewReconciler(cfg.Telemetry)
	if watchWarn > 0 {
		rec.SetWarnThreshold(watchWarn)
	}
	if watchDrop > 0 {
		rec.SetDropThreshold(watchDrop)
	}
	pollMetrics := metrics.NewPollMetrics()

	statsPoller := telemetry.NewPoller(cfg.Telemetry, client, rec, &statusPrinter{w: w}, logger)
	statsPoller.SetObserver(pollMetrics.Observer("telemetry"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return statsPoller.Run(gctx)
	})

	if !watchNoLogs {
		syncer := logtail.NewSynchronizer(client, initialLogCursor(gctx, client, logger))
		logPoller := logtail.NewPoller(cfg.LogTail, syncer, logtail.SinkFunc(func(rows []logtail.Row) {
			w.print(view.LogRows(rows))
		}), logger)
		logPoller.SetObserver(pollMetrics.Observer("logtail"))
		g.Go(func() error {
			return logPoller.Run(gctx)
		})
	}

	if cfg.Metrics.Enabled() {
		reg, err := metrics.NewRegistry(telemetry.NewExporter(rec), pollMetrics)
		if err != nil {
			cancel()
			_ = g.Wait()
			return fmt.Errorf("weftctl watch: %w", err)
		}
		srv := metrics.NewServer(cfg.Metrics, reg, logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !isStopped(err) {
		return fmt.Errorf("weftctl watch: %w", err)
	}
	return nil
}

// statusPrinter prints the counters once an animation has settled or the
// dashboard becomes unreachable, skipping repeats of the last line.
type statusPrinter struct {
	w    *lockedWriter
	last string
}

func (p *statusPrinter) Render(d telemetry.Display) {
	if d.Available && d.Headline != d.Total {
		return
	}
	line := view.StatusLine(d)
	if line == p.last {
		return
	}
	p.last = line
	p.w.print(line)
}

// lockedWriter serializes lines written by the two pollers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) print(s string) {
	if s == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}
