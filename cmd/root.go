package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration (from .resumen.yaml)
const defaultConfigYAML = `
storage:
  data_dir: ./data
statement:
  GALICIA:
    patterns:
      region_start: 'DETALLE DEL CONSUMO'
      region_end: 'TOTAL A PAGAR|Plan V:'
      card_header: 'TARJETA\s+(\d{4})\s+Total Consumos'
      transaction: '^(\d{2}-\d{2}-\d{2})\s+(.+)$'
    denylist:
      - IMPUESTO DE SELLOS
      - IIBB PERCEP
      - IVA RG
      - DB.RG
      - SU PAGO
  BBVA:
    patterns:
      region_start: '^Consumos\s+'
      region_end: 'TOTAL CONSUMOS DE'
      transaction: '^(\d{2}-[A-Za-z]{3}-\d{2})\s+(.+)$'
    denylist:
      - SALDO ACTUAL
      - SU PAGO EN
      - IMPUESTO DE SELLOS
      - IVA RG
  GENERIC:
    denylist:
      - IMPUESTO
      - PERCEP
      - IVA RG
      - SU PAGO
      - SALDO ANTERIOR
      - SALDO ACTUAL`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "resumen",
		Short: "Credit card statement ledger",
		Long: `resumen extracts transactions out of Argentine credit card
statements, projects installment purchases into the months they will be
billed, and tracks spending against your salary.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.resumen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".resumen")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
