package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokinadorabulls/kennel-cms/pkg/audit"
	"github.com/smokinadorabulls/kennel-cms/pkg/db"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
	Long:  `Inspect audit messages persisted to the audit_messages table.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'audit' requires a subcommand (list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// auditListCmd represents the audit list command
var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit messages",
	Long: `List recent audit messages, newest first.

Messages are read from KENNEL_AUDIT_DATABASE_URL, or DATABASE_URL when it
is not set.

Example:
  kennelctl audit list
  kennelctl audit list --type permission-grant -n 50`,
	Run: func(cmd *cobra.Command, args []string) {
		msgid, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		if err := listAudit(msgid, limit); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list audit messages: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().String("type", "", "only show messages with this id (permission-grant, seed, seed-patch, seed-skip)")
	auditListCmd.Flags().IntP("limit", "n", 20, "maximum number of messages")
}

func openAuditStore() (*audit.Store, error) {
	store, err := audit.NewStore()
	if err != nil || store != nil {
		return store, err
	}

	dbURL := db.URL()
	if dbURL == "" {
		return nil, fmt.Errorf("KENNEL_AUDIT_DATABASE_URL or DATABASE_URL is required")
	}
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return audit.NewStoreWithDB(conn), nil
}

func listAudit(msgid string, limit int) error {
	store, err := openAuditStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	messages, err := store.Recent(context.Background(), msgid, limit)
	if err != nil {
		return err
	}
	printAuditMessages(os.Stdout, messages)
	return nil
}

func printAuditMessages(w io.Writer, messages []audit.Message) {
	if len(messages) == 0 {
		fmt.Fprintln(w, "No audit messages")
		return
	}
	for _, msg := range messages {
		fmt.Fprintf(w, "%s  %-16s %s\n", msg.Timestamp.UTC().Format(time.RFC3339), msg.Msgid, msg.Message)
	}
}
