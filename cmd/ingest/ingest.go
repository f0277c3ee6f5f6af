// Package ingest implements the import subcommand.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruslany/expense-tracker/cmd/root"
	"github.com/ruslany/expense-tracker/internal/importer"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/spf13/cobra"
)

var (
	institutionName string
	accountName     string
	previewOnly     bool
)

// Cmd is the import command
var Cmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a CSV export into an account",
	Long: `Import parses a CSV export from a financial institution, skips rows already
imported into the account, auto-categorizes by keyword, and records the batch in
the import history. With --preview, the file is parsed but nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		institution, err := models.ParseInstitution(institutionName)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(filePath) // #nosec G304 -- CLI takes user-provided file paths
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		ctx := cmd.Context()
		store, err := root.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		var accountID *int64
		if !previewOnly {
			if accountName == "" {
				return fmt.Errorf("--account is required unless --preview is set")
			}
			account, err := store.GetOrCreateAccount(ctx, accountName)
			if err != nil {
				return err
			}
			accountID = &account.ID
		}

		orchestrator := importer.New(store, root.Log)
		summary, err := orchestrator.Import(ctx, filepath.Base(filePath), content, institution, accountID)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d of %d rows (%d skipped as duplicates)\n",
			summary.Imported, summary.Total, summary.Skipped)
		for _, rowErr := range summary.RowErrors {
			fmt.Printf("  row %d dropped: %s\n", rowErr.Line, rowErr.Reason)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&institutionName, "institution", "n", "", "Source institution (chase, amex, bofa, manual)")
	Cmd.Flags().StringVarP(&accountName, "account", "a", "", "Target account name (created if missing)")
	Cmd.Flags().BoolVarP(&previewOnly, "preview", "p", false, "Parse the file without writing anything")
	_ = Cmd.MarkFlagRequired("institution")
}
