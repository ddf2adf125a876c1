package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/smokinadorabulls/kennel-cms/pkg/config"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a seed data directory and provision when it changes",
	Long: `Watch a seed data directory and run the provisioner whenever one of its
YAML files is written.

Provisioning only fills what is missing, so editing a file affects
collections that are still empty and the about page's featured puppies.

Example:
  kennelctl seed watch /etc/kennel/seed`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inMemory, _ := cmd.Flags().GetBool("memory")

		if err := watchSeed(args[0], inMemory); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch seed data: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedWatchCmd)
	seedWatchCmd.Flags().Bool("memory", false, "provision an in-memory store instead of the database")
}

// debounce collapses the burst of events editors produce on save
const debounce = 500 * time.Millisecond

func watchSeed(dir string, inMemory bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.DatabaseURL, cfg.LogLevel, inMemory)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	logger.Info("Watching seed data", "dir", dir)
	reprovision(ctx, store, dir, cfg, logger)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isDatasetEvent(event) {
				logger.Debug("Seed data changed", "file", event.Name, "op", event.Op.String())
				timer.Reset(debounce)
			}
		case <-timer.C:
			reprovision(ctx, store, dir, cfg, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)
		case <-ctx.Done():
			logger.Info("Shutting down")
			return nil
		}
	}
}

func reprovision(ctx context.Context, store document.Store, dir string, cfg *config.KennelConfig, logger *slog.Logger) {
	ds, err := loadDataset(dir)
	if err != nil {
		logger.Error("Invalid seed data", "error", err)
		return
	}
	result, err := provision(ctx, store, ds, cfg, logger)
	if err != nil {
		logger.Error("Provisioning failed", "error", err)
		return
	}
	printResult(os.Stdout, result)
}

// isDatasetEvent reports whether event changes a YAML file's contents
func isDatasetEvent(event fsnotify.Event) bool {
	ext := filepath.Ext(event.Name)
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
