// Package export implements the export subcommand.
package export

import (
	"fmt"
	"os"

	"github.com/ruslany/expense-tracker/cmd/root"
	"github.com/ruslany/expense-tracker/internal/exporter"

	"github.com/spf13/cobra"
)

var (
	accountName string
	outputFile  string
)

// Cmd is the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export an account's transactions to CSV",
	Long: `Export writes an account's transactions as normalized CSV. Split parents are
excluded so the exported amounts sum to the account's real activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := root.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		account, err := store.GetOrCreateAccount(ctx, accountName)
		if err != nil {
			return err
		}

		out := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile) // #nosec G304 -- CLI takes user-provided file paths
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFile, err)
			}
			defer func() {
				_ = f.Close()
			}()
			out = f
		}

		count, err := exporter.New(store, root.Log).Export(ctx, account.ID, out)
		if err != nil {
			return err
		}
		if outputFile != "" {
			fmt.Printf("Exported %d transactions to %s\n", count, outputFile)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&accountName, "account", "a", "", "Account name to export")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (defaults to stdout)")
	_ = Cmd.MarkFlagRequired("account")
}
