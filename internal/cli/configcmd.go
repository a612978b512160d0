package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/FelixDamrau/cazdo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cazdo configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create a commented default config file",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigPath()
		if !config.IsFirstRun() {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.CreateDefaultConfigFile(); err != nil {
			return err
		}
		fmt.Printf("created %s\n", path)
		fmt.Println("set azure_devops.organization_url and your PAT to get started")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Never print the token itself.
		shown := *cfg
		if shown.AzureDevOps.PAT != "" {
			shown.AzureDevOps.PAT = "<redacted>"
		}
		if os.Getenv(config.PATEnvVar) != "" {
			shown.AzureDevOps.PAT = "<from " + config.PATEnvVar + ">"
		}

		data, err := toml.Marshal(shown)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", config.ConfigPath(), data)
		return nil
	},
}

var configVerifyCmd = &cobra.Command{
	Use:          "verify",
	Short:        "Check the configuration and probe the Azure DevOps connection",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		warnings := cfg.Validate()
		for _, w := range warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if len(warnings) > 0 {
			return fmt.Errorf("%d configuration problem(s)", len(warnings))
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		if err := client.Verify(ctx); err != nil {
			return fmt.Errorf("connection check failed: %w", err)
		}

		fmt.Println("configuration ok, connection verified")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configVerifyCmd)
}
