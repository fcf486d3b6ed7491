package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nmoretto/resumen/ledger"
)

var salaryPeriod string

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Show or set the monthly salary",
}

var salaryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the salary effective for a period",
	Run: func(cmd *cobra.Command, args []string) {
		period, err := resolvePeriodFlag(salaryPeriod)
		if err != nil {
			log.Fatalf("error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		defer cleanup()

		engine := ledger.NewEngine(store)
		salary, known, err := ledger.NewResolver(store, engine).EffectiveSalary(period)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		if !known {
			fmt.Printf("No salary on record for %s\n", period)
			return
		}
		fmt.Printf("Salary for %s: $ %s\n", period, salary.StringFixed(2))
	},
}

var salarySetCmd = &cobra.Command{
	Use:   "set [amount]",
	Short: "Set the salary from a period forward",
	Long: `Sets the salary effective from the given period on. Later periods
without an override of their own inherit the most recent one.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		period, err := resolvePeriodFlag(salaryPeriod)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		salary, err := decimal.NewFromString(args[0])
		if err != nil {
			log.Fatalf("error: invalid amount %q: %v", args[0], err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, cleanup, err := openStore(ctx)
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		defer cleanup()

		engine := ledger.NewEngine(store)
		if err := ledger.NewResolver(store, engine).SetSalary(period, salary); err != nil {
			log.Fatalf("error: %v", err)
		}
		fmt.Printf("Salary set to $ %s from %s on\n", salary.StringFixed(2), period)
	},
}

func resolvePeriodFlag(flag string) (ledger.Period, error) {
	if flag == "" {
		return ledger.PeriodOf(time.Now()), nil
	}
	return ledger.ParsePeriod(flag)
}

func init() {
	rootCmd.AddCommand(salaryCmd)
	salaryCmd.AddCommand(salaryShowCmd, salarySetCmd)

	salaryCmd.PersistentFlags().StringVarP(&salaryPeriod, "period", "p", "", "Period as YYYY-MM (default: current month)")
	salaryCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (or set DATABASE_URL env)")
}
