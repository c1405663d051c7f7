package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/telemetry"
)

var (
	dosWarn int64
	dosDrop int64
)

var dosCmd = &cobra.Command{
	Use:   "dos",
	Short: "Show or change the dashboard's DOS thresholds",
	Long: "Without flags, print the DOS warn and drop thresholds (packets per 5s)\n" +
		"the dashboard has stored. With --warn and/or --drop, store new values; an\n" +
		"omitted flag keeps its current value. The dashboard clamps both to\n" +
		"10..2000 and keeps drop above warn.",
	Example: "  weftctl dos --warn 80 --drop 200",
	RunE:    runDOS,
}

func init() {
	dosCmd.Flags().Int64Var(&dosWarn, "warn", 0, "warn threshold per 5s (0 keeps the current value)")
	dosCmd.Flags().Int64Var(&dosDrop, "drop", 0, "drop threshold per 5s (0 keeps the current value)")
	rootCmd.AddCommand(dosCmd)
}

func runDOS(cmd *cobra.Command, _ []string) error {
	if dosWarn < 0 || dosDrop < 0 {
		return fmt.Errorf("weftctl dos: thresholds must not be negative")
	}
	_, logger, client, err := setup()
	if err != nil {
		return fmt.Errorf("weftctl dos: %w", err)
	}

	resp, err := client.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("weftctl dos: %w", err)
	}
	current := telemetry.SnapshotFromStats(resp)

	w := cmd.OutOrStdout()
	if dosWarn == 0 && dosDrop == 0 {
		fmt.Fprintf(w, "DOS thresholds: warn=%d drop=%d per 5s\n", current.WarnThreshold, current.DropThreshold)
		return nil
	}

	warn, drop := current.WarnThreshold, current.DropThreshold
	if dosWarn > 0 {
		warn = dosWarn
	}
	if dosDrop > 0 {
		drop = dosDrop
	}
	warn, drop = telemetry.ClampThresholds(warn, drop)

	if err := client.SetDOSConfig(cmd.Context(), warn, drop); err != nil {
		return fmt.Errorf("weftctl dos: %w", err)
	}
	logger.Info("dos thresholds updated", "warn_5s", warn, "drop_5s", drop)

	// Report what the dashboard stored, not what was sent.
	resp, err = client.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("weftctl dos: %w", err)
	}
	stored := telemetry.SnapshotFromStats(resp)
	fmt.Fprintf(w, "DOS thresholds: warn=%d drop=%d per 5s\n", stored.WarnThreshold, stored.DropThreshold)
	return nil
}
