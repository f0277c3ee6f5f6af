// Package split implements the split and unsplit subcommands.
package split

import (
	"fmt"
	"strings"

	"github.com/ruslany/expense-tracker/cmd/root"
	"github.com/ruslany/expense-tracker/internal/splitter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var lines []string

// Cmd is the split command
var Cmd = &cobra.Command{
	Use:   "split [transaction-id]",
	Short: "Split a transaction into parts that sum to the original amount",
	Long: `Split creates child transactions under the given parent. Each --line is
"description=amount"; the amounts must sum to the parent amount within one cent.
The parent row is kept as the envelope and can be restored with unsplit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		splitLines, err := parseLines(lines)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store, err := root.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		children, err := splitter.New(store, root.Log).Split(ctx, args[0], splitLines)
		if err != nil {
			return err
		}
		fmt.Printf("Split into %d transactions:\n", len(children))
		for _, child := range children {
			fmt.Printf("  %s  %s  %s\n", child.ID[:8], child.Amount.StringFixed(2), child.Description)
		}
		return nil
	},
}

// UnsplitCmd is the unsplit command
var UnsplitCmd = &cobra.Command{
	Use:   "unsplit [transaction-id]",
	Short: "Delete a transaction's split children, restoring the original",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := root.OpenStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		if err := splitter.New(store, root.Log).Unsplit(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Transaction unsplit")
		return nil
	},
}

// parseLines converts "description=amount" flags into split lines.
func parseLines(raw []string) ([]splitter.SplitLine, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --line is required")
	}
	result := make([]splitter.SplitLine, 0, len(raw))
	for _, line := range raw {
		description, amountStr, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("invalid --line %q (expected description=amount)", line)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
		if err != nil {
			return nil, fmt.Errorf("invalid amount in --line %q: %w", line, err)
		}
		result = append(result, splitter.SplitLine{
			Description: strings.TrimSpace(description),
			Amount:      amount,
		})
	}
	return result, nil
}

func init() {
	Cmd.Flags().StringArrayVarP(&lines, "line", "l", nil, `Split line as "description=amount" (repeatable)`)
}
