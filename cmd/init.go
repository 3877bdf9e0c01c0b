package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/jcleanup/cleanup"
)

var forceInit bool

// initCmd: jcleanup init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, forceInit); err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = cleanup.DefaultConfigFile
	}
	if _, err := os.Stat(configurationPath); err == nil && !force {
		return fmt.Errorf("%s already exists", configurationPath)
	}

	config := cleanup.DefaultConfig()
	atomic := true
	config.Atomic = &atomic
	config.Source = "17"
	config.Rules["instanceof-pattern"] = defaultRuleConfig("instanceof-pattern")

	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}
