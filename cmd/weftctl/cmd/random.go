package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/synth"
	"github.com/plexsphere/weftctl/internal/view"
)

var (
	randomSeed  uint64
	randomCount int
	randomProbe bool
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Generate plausible demo rules",
	Long: "Generate random but plausible firewall rules for demos and exploratory\n" +
		"testing. The same --seed always yields the same rules.",
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().Uint64Var(&randomSeed, "seed", 0, "random seed (0 picks one from the clock)")
	randomCmd.Flags().IntVar(&randomCount, "count", 1, "number of rules to generate")
	randomCmd.Flags().BoolVar(&randomProbe, "probe", false, "also print quick test commands for each rule")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, _ []string) error {
	if randomCount < 1 {
		return fmt.Errorf("weftctl random: --count must be at least 1")
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("weftctl random: %w", err)
	}

	seed := randomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := synth.NewRand(seed)
	engine := probe.NewEngine(cfg.Probe)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# seed %d\n", seed)
	for i := 0; i < randomCount; i++ {
		r := synth.Synthesize(rng)
		fmt.Fprintln(w, view.Rule(r))
		if randomProbe {
			fmt.Fprintln(w)
			printScript(w, engine.Recommend(r), false)
			fmt.Fprintln(w)
		}
	}
	return nil
}
