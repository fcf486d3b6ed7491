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

var (
	expensePeriod    string
	expenseCategory  string
	expenseCurrency  string
	expenseRecurring bool
)

var expenseCmd = &cobra.Command{
	Use:   "expense [description] [amount]",
	Short: "Record a manual expense",
	Long: `Records an expense that does not come from a statement: rent,
cash payments, services debited from a bank account. With --recurring the
expense repeats monthly through December of next year; each instance is
independent and can be edited on its own.

Examples:
  resumen expense "Alquiler" 450000 --period 2025-03
  resumen expense "Gimnasio" 30000 --recurring`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		period, err := resolvePeriodFlag(expensePeriod)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			log.Fatalf("error: invalid amount %q: %v", args[1], err)
		}
		currency := common.Currency(expenseCurrency)
		if currency != common.ARS && currency != common.USD {
			log.Fatalf("error: unsupported currency %q", expenseCurrency)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		defer cleanup()

		date := time.Now()
		if period != ledger.PeriodOf(date) {
			date = period.Time()
		}

		instances, err := ledger.AddExpense(store, ledger.ManualExpense{
			Period:      period,
			Date:        date,
			Description: args[0],
			Amount:      amount,
			Currency:    currency,
			Category:    expenseCategory,
			Recurring:   expenseRecurring,
		})
		if err != nil {
			log.Fatalf("error: %v", err)
		}

		if len(instances) == 1 {
			fmt.Printf("Recorded %s for %s\n", args[0], period)
		} else {
			fmt.Printf("Recorded %s monthly from %s through %s (%d instances)\n",
				args[0], instances[0].Period, instances[len(instances)-1].Period, len(instances))
		}
	},
}

func init() {
	rootCmd.AddCommand(expenseCmd)

	expenseCmd.Flags().StringVarP(&expensePeriod, "period", "p", "", "Period as YYYY-MM (default: current month)")
	expenseCmd.Flags().StringVar(&expenseCategory, "category", "", "Expense category")
	expenseCmd.Flags().StringVar(&expenseCurrency, "currency", "ARS", "Currency (ARS or USD)")
	expenseCmd.Flags().BoolVar(&expenseRecurring, "recurring", false, "Repeat monthly through December of next year")
	expenseCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (or set DATABASE_URL env)")
}
