package cmd

import (
	"fmt"
	"os"

	"separate-songs/infrastructure/config"

	"github.com/spf13/cobra"
)

var cfgFile string

var toolsCmd = &cobra.Command{
	Use:   "separate-songs-tools",
	Short: "Configure separate-songs and publish its clips",
	Long: `Companion commands for separate-songs:

  ranges   list the fixed song boundaries
  setup    create the configuration file interactively
  upload   share the clips of recordings on Google Drive`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteTools runs the companion command line and exits 1 on error
func ExecuteTools() {
	if err := toolsCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	toolsCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
}

func toolsConfigPath() string {
	if cfgFile == "" {
		return config.DefaultPath
	}
	return cfgFile
}

// GetConfig loads the configuration named by --config.
// Unlike the split, the tools refuse to run on a file they cannot parse.
func GetConfig() (*config.Config, error) {
	path := toolsConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("configuration %s: %w", path, err)
	}
	return cfg, nil
}
