package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/handoff"
	"github.com/plexsphere/weftctl/internal/probe"
)

var handoffCommands bool

var handoffCmd = &cobra.Command{
	Use:   "handoff",
	Short: "Print and clear the pending quick test",
	Long: "Print the quick test saved by the last 'weftctl add' (or 'weftctl probe --save')\n" +
		"and clear it. A saved quick test is shown once.",
	RunE: runHandoff,
}

func init() {
	handoffCmd.Flags().BoolVar(&handoffCommands, "commands", false, "print only the executable commands")
	rootCmd.AddCommand(handoffCmd)
}

func runHandoff(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("weftctl handoff: %w", err)
	}

	text, ok, err := handoff.NewStore(cfg.Handoff.Dir).Take()
	if err != nil {
		return fmt.Errorf("weftctl handoff: %w", err)
	}

	w := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(w, "No pending quick test.")
		return nil
	}
	printScript(w, probe.ParseScript(text), handoffCommands)
	return nil
}
