package cmd

import (
	"fmt"
	"os"

	"github.com/adflow-io/adflow/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage adflow configuration",
	Long: `Inspect and bootstrap the adflow configuration.

Configuration is read from .adflow.yaml in the current directory, the
home directory, ~/.adflow/, or $XDG_CONFIG_HOME/adflow/, with ADFLOW_*
environment variables taking precedence.`,
}

// configInitCmd writes a commented default configuration file.
var configInitCmd = &cobra.Command{
	Use:   "init [filename]",
	Short: "Write a default configuration file",
	Long: `Write a default .adflow.yaml with every setting at its default value.

Examples:
  adflow config init
  adflow config init ~/.adflow/.adflow.yaml
  adflow config init --force`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runConfigInit,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Show the effective configuration",
	Long:         `Print where configuration was loaded from and the resolved values.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	filename := config.ConfigFileName + ".yaml"
	if len(args) == 1 {
		filename = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force)", filename)
		}
	}

	if err := config.GenerateDefaultConfigFile(filename); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filename)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// GetConfig first so the loader has resolved its file before we report it.
	cfg := GetConfig()
	GetConfigLoader().PrintConfigInfo()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
