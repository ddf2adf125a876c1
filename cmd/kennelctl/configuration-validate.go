package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smokinadorabulls/kennel-cms/pkg/config"
)

// configurationValidateCmd represents the configuration validate command
var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and seed data",
	Long: `Validate the current state of the configuration file and environment,
and load the seed data the server would provision.

Example:
  kennelctl configuration validate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationValidateCmd)
}

func validateConfiguration() error {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	ds, err := loadDataset(cfg.SeedDataDir)
	if err != nil {
		return err
	}
	fmt.Printf("Seed data: %d puppies, %d studs, %d testimonials, %d hero slides\n",
		len(ds.Puppies), len(ds.Studs), len(ds.Testimonials), len(ds.HeroSlides))

	fmt.Println("Configuration is valid.")
	return nil
}
