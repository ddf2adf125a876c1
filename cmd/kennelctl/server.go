package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/db"
	docgorm "github.com/smokinadorabulls/kennel-cms/pkg/document/gorm"
	"github.com/smokinadorabulls/kennel-cms/pkg/server"
	"github.com/smokinadorabulls/kennel-cms/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "1337"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the content API server",
	Long: `Run the content API server.

Requires DATABASE_URL. On startup the server runs database migrations and
then provisions public permissions and default content. Use --no-migrate
and --no-seed (or KENNEL_SEED_ENABLED=false) to skip either step.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		noSeed, _ := cmd.Flags().GetBool("no-seed")

		if err := runServer(host, port, !noMigrate, !noSeed); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("no-seed", false, "skip provisioning permissions and default content on start")
}

func runServer(host, port string, migrate, seedContent bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if migrate {
		logger.Info("Running database migrations")
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL, LogLevel: cfg.LogLevel})
	if err != nil {
		return err
	}
	store := docgorm.NewStore(database, content.Schema())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup lifecycle hook: runs once, after migrations, before serving
	if seedContent && cfg.SeedEnabled {
		ds, err := loadDataset(cfg.SeedDataDir)
		if err != nil {
			return err
		}
		if _, err := provision(ctx, store, ds, cfg, logger); err != nil {
			return fmt.Errorf("provisioning failed: %w", err)
		}
	} else {
		logger.Info("Provisioning disabled")
	}

	s := server.NewServer(store, content.Schema(), host, port)
	s.PublicRoleType = cfg.PublicRoleType
	s.Logger = logger
	endpoints.RegisterAll(s)

	errs := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Running server at http://%s", s.Addr()))
		errs <- s.Start()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
