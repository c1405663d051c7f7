package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plexsphere/weftctl/internal/config"
	"github.com/plexsphere/weftctl/internal/fsutil"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: "Write a configuration file holding the defaults to --config, or to\n" +
		"~/.config/weftctl/config.yaml. The --api value, when given, is written as the\n" +
		"dashboard address. An existing file is kept unless --force is set.",
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return errors.New("weftctl init: no configuration directory, use --config")
	}

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("weftctl init: %s already exists (use --force to overwrite)", path)
		}
	}

	data := []byte(config.GenerateDefault(apiURL))
	if err := fsutil.WriteFileAtomic(filepath.Dir(path), filepath.Base(path), data, 0o600); err != nil {
		return fmt.Errorf("weftctl init: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
