package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/auctusventures/site/internal/db"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var skipInsert bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the contact_submissions table and verify inserts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), cfg.DatabaseURL, skipInsert)
		},
	}
	cmd.Flags().BoolVar(&skipInsert, "skip-insert", false, "only ensure the table exists")
	return cmd
}

func runMigrate(ctx context.Context, out io.Writer, databaseURL string, skipInsert bool) error {
	if databaseURL == "" {
		return errors.New("DATABASE_URL is missing. Populate it in .env.local or your environment")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gdb, err := db.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.EnsureSchema(gdb); err != nil {
		return fmt.Errorf("ensure contact_submissions: %w", err)
	}
	fmt.Fprintln(out, "Ensured contact_submissions table exists.")

	if skipInsert {
		fmt.Fprintln(out, "Skipped test insert. Pass no flags to verify inserts.")
		return nil
	}

	store := db.NewContactSubmissionStore(gdb)
	record := &db.ContactSubmission{
		Name:     "Test User",
		Email:    "test@example.com",
		Company:  "Store Check",
		Phone:    "+10000000000",
		Service:  "Web",
		Timeline: "ASAP",
		Message:  "Health check " + uuid.NewString(),
	}
	if err := store.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert test row: %w", err)
	}
	fmt.Fprintf(out, "Inserted test row with id %d. Cleaning up...\n", record.ID)

	if err := store.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("delete test row %d: %w", record.ID, err)
	}
	fmt.Fprintln(out, "Test insert removed. Database connectivity verified.")
	return nil
}
