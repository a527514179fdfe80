// filepath: internal/cli/config_command.go
package cli

import (
	"cidcheck/internal/config"
	"cidcheck/internal/logging"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var forceWrite bool

var configCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective configuration to --config_path",
	Long: `Writes the configuration resulting from the config file, .env, CIDCHECK_* variables
and flags to the config path. An existing file is only replaced with --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cfgFile, forceWrite)
	},
}

func init() {
	configCmd.Flags().BoolVar(&forceWrite, "force", false, "Overwrite an existing config file.")
	RootCmd.AddCommand(configCmd)
}

func writeConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	logging.Log.Infof("Configuration written to %s.", path)
	return nil
}
