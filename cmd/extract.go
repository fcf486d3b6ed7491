package cmd

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmoretto/resumen/extractor"
)

var extractIssuer string

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract transactions from a statement",
	Long: `Extracts transactions from a credit card statement (PDF or plain
text) and prints them as JSON without touching the ledger. Useful for
checking what an import would see.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("error: could not open %s: %v", args[0], err)
		}
		defer f.Close()

		result, err := extractor.ProcessReader(f, extractor.Issuer(extractIssuer))
		if err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("error: extraction failed: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractIssuer, "issuer", "t", "", "Issuer override (GALICIA_VISA, GALICIA_AMEX, BBVA; auto-detected if not set)")
}
