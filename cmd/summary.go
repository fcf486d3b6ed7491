package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nmoretto/resumen/extractor/common"
	"github.com/nmoretto/resumen/ledger"
)

var summaryPeriod string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the spending summary for a period",
	Long: `Shows a period's spending split by source (statement, projected
installments, manual expenses) and currency, plus the budget position
against the effective salary. Defaults to the current month.`,
	Run: func(cmd *cobra.Command, args []string) {
		period := ledger.PeriodOf(time.Now())
		if summaryPeriod != "" {
			var err error
			period, err = ledger.ParsePeriod(summaryPeriod)
			if err != nil {
				log.Fatalf("error: invalid period: %v", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		defer cleanup()

		engine := ledger.NewEngine(store)
		summary, err := ledger.NewResolver(store, engine).SummaryFor(period)
		if err != nil {
			log.Fatalf("error: could not build summary: %v", err)
		}

		printSummary(summary)
	},
}

func printSummary(s ledger.Summary) {
	fmt.Printf("Period %s\n\n", s.Period)

	fmt.Printf("  Statement:  %s\n", formatByCurrency(s.Statement))
	fmt.Printf("  Projected:  %s\n", formatByCurrency(s.Projected))
	fmt.Printf("  Manual:     %s\n", formatByCurrency(s.Manual))
	fmt.Printf("  Total ARS:  $ %s\n", s.Total(common.ARS).StringFixed(2))
	if usd := s.Total(common.USD); !usd.IsZero() {
		fmt.Printf("  Total USD:  u$s %s\n", usd.StringFixed(2))
	}

	if !s.SalaryKnown {
		fmt.Println("\nNo salary on record. Set one with: resumen salary set")
		return
	}

	fmt.Printf("\n  Salary:     $ %s\n", s.Salary.StringFixed(2))
	fmt.Printf("  Available:  $ %s\n", s.AvailableBudget.StringFixed(2))
	fmt.Printf("  Usage:      %.0f%% (%s)\n", s.UsageRatio*100, s.Status)
}

func formatByCurrency(amounts map[common.Currency]decimal.Decimal) string {
	ars := amounts[common.ARS]
	out := "$ " + ars.StringFixed(2)
	if usd, ok := amounts[common.USD]; ok && !usd.IsZero() {
		out += "  u$s " + usd.StringFixed(2)
	}
	return out
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryPeriod, "period", "p", "", "Period as YYYY-MM (default: current month)")
	summaryCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (or set DATABASE_URL env)")
}
