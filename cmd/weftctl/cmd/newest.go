package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/selector"
	"github.com/plexsphere/weftctl/internal/view"
)

var (
	newestFile     string
	newestCommands bool
)

var newestCmd = &cobra.Command{
	Use:   "newest",
	Short: "Recommend quick tests for the most recently added rule",
	Long: "Read the dashboard's rules page, pick the newest user-authored rule\n" +
		"(the localhost and default rules are skipped) and print quick test commands for it.",
	RunE: runNewest,
}

func init() {
	newestCmd.Flags().StringVar(&newestFile, "file", "", "read a saved rules page instead of fetching it")
	newestCmd.Flags().BoolVar(&newestCommands, "commands", false, "print only the executable commands")
	rootCmd.AddCommand(newestCmd)
}

func runNewest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("weftctl newest: %w", err)
	}

	var page io.ReadCloser
	if newestFile != "" {
		page, err = os.Open(newestFile)
	} else {
		page, err = fetchRulesPage(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("weftctl newest: %w", err)
	}
	defer page.Close()

	r, ok, err := selector.SelectNewestFromPage(page)
	if err != nil {
		return fmt.Errorf("weftctl newest: %w", err)
	}

	w := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(w, "No user rule to recommend a quick test for.")
		return nil
	}

	fmt.Fprintf(w, "Newest rule #%d: %s\n\n", r.ID, view.Rule(r))
	printScript(w, probe.NewEngine(cfg.Probe).Recommend(r), newestCommands)
	return nil
}

func fetchRulesPage(ctx context.Context) (io.ReadCloser, error) {
	_, _, client, err := setup()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return client.RulesPage(ctx)
}
