package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlharbiAbdullah/Cortex/internal/config"
)

var (
	configTOMLFlag  bool
	configForceFlag bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
	Long: `Settings are read from ~/.cortex/config.json, then ~/.cortex/config.toml,
then a .env file in the working directory and CORTEX_* environment variables.
Command-line flags override everything.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Show what was loaded even when it does not validate
		cfg, err := loadSettings(cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}

		if configTOMLFlag {
			out, err := config.EncodeTOML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configForceFlag {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		tomlPath, err := config.GetTOMLConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), jsonPath)
		fmt.Fprintln(cmd.OutOrStdout(), tomlPath)
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configTOMLFlag, "toml", false, "Print as TOML")
	configInitCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
