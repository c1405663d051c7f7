package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/handoff"
	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/rule"
	"github.com/plexsphere/weftctl/internal/view"
)

var (
	addRule      ruleFlags
	addNoHandoff bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule through the dashboard",
	Long: "Submit a rule through the dashboard's add-rule form, print quick test\n" +
		"commands for it and hand them off to the next 'weftctl handoff'.\n" +
		"When --comment is omitted one is derived from the port, e.g. \"Allow HTTPS\".",
	Example: "  weftctl add --action DROP --proto tcp --dport 22",
	RunE:    runAdd,
}

func init() {
	addRule.register(addCmd)
	addCmd.Flags().StringVar(&addRule.comment, "comment", "", "rule comment")
	addCmd.Flags().BoolVar(&addNoHandoff, "no-handoff", false, "do not save the quick test for 'weftctl handoff'")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	cfg, logger, client, err := setup()
	if err != nil {
		return fmt.Errorf("weftctl add: %w", err)
	}

	r := addRule.descriptor().Normalized()
	if r.Comment == "" {
		r.Comment = rule.Comment(rule.NormalizeAction(r.Action), r.Protocol, r.DestinationPort)
	}

	if err := client.AddRule(cmd.Context(), r); err != nil {
		return fmt.Errorf("weftctl add: %w", err)
	}
	logger.Info("rule added", "rule", r.String())

	script := probe.NewEngine(cfg.Probe).Recommend(r)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Added: %s\n\n", view.Rule(r))
	printScript(w, script, false)

	if addNoHandoff {
		return nil
	}
	if err := handoff.NewStore(cfg.Handoff.Dir).Save(script.String()); err != nil {
		return fmt.Errorf("weftctl add: %w", err)
	}
	return nil
}
