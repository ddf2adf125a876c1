package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kennelctl",
	Short: "Run and manage the kennel content server",
	Long: `kennelctl runs the public content API for the kennel site and manages
its database schema and default content.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
