// Package categorize handles the transaction categorization command
package categorize

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"moneymap/cmd/root"
	"moneymap/internal/config"
	"moneymap/internal/container"
	"moneymap/internal/csvio"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a CSV of transactions into Money Map categories",
	Long: `Read a transaction CSV, resolve each transaction through the pattern
cache, the deterministic rule table and the Gemini classifier, and write
the categorized rows to the output CSV.`,
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("input file is required (use --input)")
	}
	if root.SharedFlags.Output == "" {
		return fmt.Errorf("output file is required (use --output)")
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.Warnf("Failed to close container: %v", err)
		}
	}()

	var delimiter rune
	if cfg.CSV.Delimiter != "" {
		delimiter = []rune(cfg.CSV.Delimiter)[0]
	}
	rw := csvio.New(delimiter, c.GetLogger())

	transactions, err := rw.ReadTransactions(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	results, err := c.GetCategorizer().Categorize(cmd.Context(), transactions)
	if err != nil {
		return err
	}

	if err := rw.WriteCategorized(root.SharedFlags.Output, transactions, results); err != nil {
		return err
	}

	counts := map[string]int{}
	for _, result := range results {
		counts[string(result.Category)]++
	}
	summary := make([]string, 0, len(counts))
	for category, n := range counts {
		summary = append(summary, fmt.Sprintf("%s=%d", category, n))
	}
	root.Log.Infof("Categorized %d transactions (%s)", len(results), strings.Join(summary, " "))
	return nil
}
