package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmoretto/resumen/ledger"
)

var (
	projectionsPeriod string
	projectionsAll    bool
)

var projectionsCmd = &cobra.Command{
	Use:   "projections",
	Short: "List projected installments for a period",
	Run: func(cmd *cobra.Command, args []string) {
		period, err := resolvePeriodFlag(projectionsPeriod)
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

		projections, err := ledger.NewEngine(store).ProjectionsFor(period, projectionsAll)
		if err != nil {
			log.Fatalf("error: %v", err)
		}

		if len(projections) == 0 {
			fmt.Printf("No projections for %s\n", period)
			return
		}
		for _, p := range projections {
			marker := " "
			if p.Reconciled {
				marker = "✓"
			}
			fmt.Printf("%s %-40s %s %8s %s  (origin %s)\n",
				marker, p.Description, p.Installment.String(),
				p.EffectiveAmount().StringFixed(2), p.Currency, p.OriginID)
		}
	},
}

var annulCmd = &cobra.Command{
	Use:   "annul [origin-id]",
	Short: "Remove one projected installment",
	Long: `Removes a single projected installment, identified by its origin
transaction and period. Other periods of the same purchase are kept.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		period, err := resolvePeriodFlag(projectionsPeriod)
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

		if err := ledger.NewEngine(store).Annul(args[0], period); err != nil {
			log.Fatalf("error: %v", err)
		}
		fmt.Printf("Annulled projection %s for %s\n", args[0], period)
	},
}

func init() {
	rootCmd.AddCommand(projectionsCmd)
	projectionsCmd.AddCommand(annulCmd)

	projectionsCmd.PersistentFlags().StringVarP(&projectionsPeriod, "period", "p", "", "Period as YYYY-MM (default: current month)")
	projectionsCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (or set DATABASE_URL env)")
	projectionsCmd.Flags().BoolVar(&projectionsAll, "all", false, "Include reconciled projections")
}
