package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/api"
	"github.com/plexsphere/weftctl/internal/logtail"
	"github.com/plexsphere/weftctl/internal/view"
)

// maxDrainBatches bounds the requests a non-following tail makes.
const maxDrainBatches = 50

var (
	tailSince  int64
	tailFollow bool
	tailFor    time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show packet log rows",
	Long: "Print packet log rows newer than --since. With --follow, keep polling and\n" +
		"print new rows as they arrive; without --since it starts after the rows\n" +
		"the dashboard's logs page already shows.",
	RunE: runTail,
}

func init() {
	tailCmd.Flags().Int64Var(&tailSince, "since", -1, "print rows with an id above this (default: 0, or the logs page when following)")
	tailCmd.Flags().BoolVarP(&tailFollow, "follow", "f", false, "keep polling for new rows")
	tailCmd.Flags().DurationVar(&tailFor, "for", 0, "stop following after this long (0 runs until interrupted)")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, _ []string) error {
	cfg, logger, client, err := setup()
	if err != nil {
		return fmt.Errorf("weftctl tail: %w", err)
	}

	ctx, cancel := runContext(cmd.Context(), tailFor)
	defer cancel()

	cursor := logtail.Cursor(max(tailSince, 0))
	if tailSince < 0 && tailFollow {
		cursor = initialLogCursor(ctx, client, logger)
	}
	syncer := logtail.NewSynchronizer(client, cursor)
	w := cmd.OutOrStdout()

	if !tailFollow {
		rows, err := syncer.Drain(ctx, maxDrainBatches)
		printRows(w, rows)
		if err != nil {
			return fmt.Errorf("weftctl tail: %w", err)
		}
		return nil
	}

	poller := logtail.NewPoller(cfg.LogTail, syncer, logtail.SinkFunc(func(rows []logtail.Row) {
		printRows(w, rows)
	}), logger)
	if err := poller.Run(ctx); err != nil && !isStopped(err) {
		return fmt.Errorf("weftctl tail: %w", err)
	}
	return nil
}

// initialLogCursor derives the starting cursor from the rendered logs page
// so history already on screen there is not printed again. Any failure
// falls back to the beginning of the log.
func initialLogCursor(ctx context.Context, client *api.Dashboard, logger *slog.Logger) logtail.Cursor {
	body, err := client.LogsPage(ctx)
	if err != nil {
		logger.Warn("could not read logs page, starting from the first row", "error", err)
		return 0
	}
	defer body.Close()

	cursor, err := logtail.CursorFromPage(body)
	if err != nil {
		logger.Warn("could not parse logs page, starting from the first row", "error", err)
		return 0
	}
	logger.Debug("initial log cursor", "cursor", int64(cursor))
	return cursor
}

func printRows(w io.Writer, rows []logtail.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, view.LogRows(rows))
}

// isStopped reports whether err only says the run was interrupted or timed out.
func isStopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
