package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gmocoin-trader/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or inspect configuration files",
	Long: `Manage the bot configuration file.

Subcommands:
  init - Write a config file with the default settings
  show - Load a config file and print the effective settings

Examples:
  gmobot config init --output config.yaml
  gmobot config show --config config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Load a config file, apply defaults and environment overrides, and
print the result. Credentials are reported as set or unset, never
echoed.`,
	RunE: runConfigShow,
}

var (
	configInitOutput string
	configShowPath   string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "config.yaml", "output config file path")
	configShowCmd.Flags().StringVarP(&configShowPath, "config", "f", "config.yaml", "path to config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configInitOutput); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", configInitOutput)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	data, err := config.Default().Marshal()
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := os.WriteFile(configInitOutput, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file, export the API credentials, and run with:")
	fmt.Printf("  gmobot run --config %s\n", configInitOutput)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configShowPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	fmt.Print(string(data))

	if cfg.RequireCredentials() == nil {
		fmt.Println("\n# API credentials: set")
	} else {
		fmt.Printf("\n# API credentials: NOT set (%s, %s)\n", config.EnvAPIKey, config.EnvAPISecret)
	}
	return nil
}
