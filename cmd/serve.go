package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmoretto/resumen/api"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API. Endpoints: /import for statement uploads,
/summary, /projections, /expenses, /salary and /health.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stdout)
		log.SetFlags(log.Ltime | log.Lmsgprefix)

		store, cleanup, err := openStore(context.Background())
		if err != nil {
			log.Fatalf("error: %v", err)
		}
		defer cleanup()

		cfg := api.DefaultConfig()
		if servePort != "" {
			cfg.Port = servePort
		}

		server := api.New(cfg, store)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen address (default :8080)")
	serveCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL (or set DATABASE_URL env)")
}
