package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/telemetry"
	"github.com/plexsphere/weftctl/internal/view"
)

var statsLine bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard's packet counters",
	Long:  "Fetch /stats once and show the packet counters and DOS indicator.",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsLine, "line", false, "print a single status line")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, _, client, err := setup()
	if err != nil {
		return fmt.Errorf("weftctl stats: %w", err)
	}

	rec := telemetry.NewReconciler(cfg.Telemetry)
	resp, statsErr := client.Stats(cmd.Context())
	var d telemetry.Display
	if statsErr != nil {
		d, _ = rec.ApplyFailure(1)
	} else {
		d, _ = rec.Apply(1, telemetry.SnapshotFromStats(resp))
		// A one-shot view has nothing to animate.
		d.Headline = d.Total
	}

	w := cmd.OutOrStdout()
	if statsLine {
		fmt.Fprintln(w, view.StatusLine(d))
	} else {
		fmt.Fprintln(w, view.Telemetry(d))
	}

	if statsErr != nil {
		return fmt.Errorf("weftctl stats: %w", statsErr)
	}
	return nil
}
