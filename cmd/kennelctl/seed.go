package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/db"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
	docgorm "github.com/smokinadorabulls/kennel-cms/pkg/document/gorm"
	"github.com/smokinadorabulls/kennel-cms/pkg/document/memory"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Provision public permissions and default content",
	Long: `Provision public permissions and default content once and print a summary.

Running it repeatedly is safe: permissions are only added when missing and
content is only created in empty collections.

Use --memory to preview against an empty in-memory store instead of the
database.

Example:
  kennelctl seed
  kennelctl seed --data-dir ./seed-data
  kennelctl seed --memory`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		inMemory, _ := cmd.Flags().GetBool("memory")

		if err := runSeed(dataDir, inMemory); err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("data-dir", "", "directory replacing the built-in seed files (default KENNEL_SEED_DATA_DIR)")
	seedCmd.Flags().Bool("memory", false, "seed an empty in-memory store instead of the database")
}

func runSeed(dataDir string, inMemory bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	if dataDir == "" {
		dataDir = cfg.SeedDataDir
	}
	ds, err := loadDataset(dataDir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg.DatabaseURL, cfg.LogLevel, inMemory)
	if err != nil {
		return err
	}

	result, err := provision(ctx, store, ds, cfg, logger)
	if err != nil {
		return err
	}
	printResult(os.Stdout, result)
	return nil
}

func openStore(ctx context.Context, dbURL, logLevel string, inMemory bool) (document.Store, error) {
	if inMemory {
		store := memory.New(content.Schema())
		if err := bootstrapRoles(ctx, store); err != nil {
			return nil, err
		}
		return store, nil
	}

	database, err := db.Connect(db.Config{URL: dbURL, LogLevel: logLevel})
	if err != nil {
		return nil, err
	}
	return docgorm.NewStore(database, content.Schema()), nil
}
