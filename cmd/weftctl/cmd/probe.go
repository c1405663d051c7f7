package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/handoff"
	"github.com/plexsphere/weftctl/internal/probe"
	"github.com/plexsphere/weftctl/internal/rule"
	"github.com/plexsphere/weftctl/internal/view"
)

// ruleFlags holds the rule fields shared by probe and add.
type ruleFlags struct {
	action  string
	proto   string
	src     string
	dst     string
	dport   string
	comment string
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.action, "action", "ACCEPT", "rule action (ACCEPT or DROP)")
	cmd.Flags().StringVar(&f.proto, "proto", rule.Any, "protocol (tcp, udp, icmp or any)")
	cmd.Flags().StringVar(&f.src, "src", rule.Any, "source address or any")
	cmd.Flags().StringVar(&f.dst, "dst", rule.Any, "destination address or any")
	cmd.Flags().StringVar(&f.dport, "dport", rule.Any, "destination port or any")
}

func (f *ruleFlags) descriptor() rule.Descriptor {
	return rule.Descriptor{
		Action:          f.action,
		Protocol:        f.proto,
		Source:          f.src,
		Destination:     f.dst,
		DestinationPort: f.dport,
		Comment:         f.comment,
	}
}

var (
	probeRule     ruleFlags
	probeTarget   string
	probeCommands bool
	probeSave     bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print quick test commands for a rule",
	Long: "Print a short script of shell commands that checks whether traffic matching\n" +
		"the given rule is allowed or blocked. Commands are printed, never executed.",
	Example: "  weftctl probe --action DROP --proto tcp --dport 22\n" +
		"  weftctl probe --proto udp --dst 10.0.2.15 --dport 53 --commands",
	RunE: runProbe,
}

func init() {
	probeRule.register(probeCmd)
	probeCmd.Flags().StringVar(&probeTarget, "target", "", "address probed when the rule's destination is any (overrides config)")
	probeCmd.Flags().BoolVar(&probeCommands, "commands", false, "print only the executable commands")
	probeCmd.Flags().BoolVar(&probeSave, "save", false, "also hand the script off to the next 'weftctl handoff'")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("weftctl probe: %w", err)
	}
	if probeTarget != "" {
		cfg.Probe.FallbackTarget = probeTarget
		if err := cfg.Probe.Validate(); err != nil {
			return fmt.Errorf("weftctl probe: %w", err)
		}
	}

	script := probe.NewEngine(cfg.Probe).Recommend(probeRule.descriptor())
	printScript(cmd.OutOrStdout(), script, probeCommands)

	if probeSave {
		if err := handoff.NewStore(cfg.Handoff.Dir).Save(script.String()); err != nil {
			return fmt.Errorf("weftctl probe: %w", err)
		}
	}
	return nil
}

func printScript(w io.Writer, s probe.Script, commandsOnly bool) {
	if commandsOnly {
		fmt.Fprintln(w, s.Executable())
		return
	}
	fmt.Fprintln(w, view.Script(s))
}
