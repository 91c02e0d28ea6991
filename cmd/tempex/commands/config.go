package commands

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/teranos/tempex/config"
	"github.com/teranos/tempex/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tempex configuration",
	Long: `tempex config — show or initialize configuration.

Configuration merges /etc/tempex/config.toml, ~/.tempex/tempex.toml, a
project-local tempex.toml found by walking up from the working directory,
and TEMPEX_* environment variables, in that precedence order.

Examples:
  tempex config show              # Effective configuration as TOML
  tempex config init              # Write defaults to ~/.tempex/tempex.toml
  tempex config init --path ./tempex.toml`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configInitPathFlag string

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringVar(&configInitPathFlag, "path", "", "Config file location (default: ~/.tempex/tempex.toml)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	v := config.GetViper()
	data, err := toml.Marshal(v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "rendering configuration")
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPathFlag
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "determining home directory")
		}
		path = filepath.Join(home, ".tempex", "tempex.toml")
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
