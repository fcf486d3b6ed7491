package bbva

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/viper"

	"github.com/nmoretto/resumen/extractor/common"
)

const testConfigYAML = `
statement:
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
`

func setupTestConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.ReadConfig(bytes.NewBufferString(testConfigYAML))
}

func testRows() []string {
	return []string{
		"RESUMEN BBVA VISA",
		"Consumos JUAN PEREZ",
		"13-Mar-25 COPPEL C.09/12 009904 91.666,58",
		"20-Mar-25 STEAMGAMES.COM USD 14,99 410477 14,99",
		"22-Mar-25 SU PAGO EN PESOS 120.000,00",
		"TOTAL CONSUMOS DE JUAN PEREZ 106.666,57",
		"Consumos OTRA TITULAR",
		"25-Mar-25 FARMACIA DEL OTRO 555123 9.999,99",
	}
}

func TestExtract_TransactionCount(t *testing.T) {
	setupTestConfig()

	transactions, stats, err := Extract(testRows())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(transactions))
	}
	if stats.Matched != 2 {
		t.Errorf("Expected 2 matched, got %d", stats.Matched)
	}
}

func TestExtract_InstallmentTag(t *testing.T) {
	setupTestConfig()

	transactions, _, err := Extract(testRows())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tx := transactions[0]
	if tx.Description != "COPPEL" {
		t.Errorf("Expected description 'COPPEL', got '%s'", tx.Description)
	}
	if tx.Installments == nil || tx.Installments.Current != 9 || tx.Installments.Total != 12 {
		t.Fatalf("Expected installment tag 9/12, got %v", tx.Installments)
	}
	if tx.Amount.String() != "91666.58" {
		t.Errorf("Expected amount '91666.58', got '%s'", tx.Amount.String())
	}
	if tx.Currency != common.ARS {
		t.Errorf("Expected ARS, got %s", tx.Currency)
	}
	if tx.Date.Year() != 2025 || tx.Date.Month() != 3 || tx.Date.Day() != 13 {
		t.Errorf("Expected date 2025-03-13, got %v", tx.Date)
	}
}

func TestExtract_ForeignCurrency(t *testing.T) {
	setupTestConfig()

	transactions, _, err := Extract(testRows())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tx := transactions[1]
	if tx.Currency != common.USD {
		t.Errorf("Expected USD, got %s", tx.Currency)
	}
	if tx.Amount.String() != "14.99" {
		t.Errorf("Expected amount '14.99', got '%s'", tx.Amount.String())
	}
	if tx.Description != "STEAMGAMES.COM" {
		t.Errorf("Expected description 'STEAMGAMES.COM', got '%s'", tx.Description)
	}
	if tx.Installments != nil {
		t.Errorf("Expected no installment tag, got %v", tx.Installments)
	}
}

func TestExtract_OtherHolderSectionIgnored(t *testing.T) {
	setupTestConfig()

	transactions, _, err := Extract(testRows())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, tx := range transactions {
		if tx.Description == "FARMACIA DEL OTRO" {
			t.Error("Transactions after the section footer must not be read")
		}
	}
}

func TestExtract_PaymentLineDenylisted(t *testing.T) {
	setupTestConfig()

	transactions, _, err := Extract(testRows())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, tx := range transactions {
		if tx.Amount.String() == "120000" {
			t.Error("Denylisted payment line must not produce a transaction")
		}
	}
}

// Documents the current positional guess for lines carrying two distinct
// amounts and no explicit foreign-currency marker: the last token is taken
// as the local-currency amount. The layout does not disambiguate this case.
func TestExtract_TwoAmountsNoMarker(t *testing.T) {
	setupTestConfig()

	rows := []string{
		"Consumos JUAN PEREZ",
		"15-Mar-25 NETFLIX.COM 321654 0,00 15,99",
		"TOTAL CONSUMOS DE JUAN PEREZ 15,99",
	}
	transactions, _, err := Extract(rows)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].Currency != common.ARS {
		t.Errorf("Expected ARS, got %s", transactions[0].Currency)
	}
	if transactions[0].Amount.String() != "15.99" {
		t.Errorf("Expected amount '15.99', got '%s'", transactions[0].Amount.String())
	}
}

func TestExtract_NotApplicable(t *testing.T) {
	setupTestConfig()

	rows := []string{
		"GALICIA VISA RESUMEN",
		"31-08-25 SHOP 111111 1.000,00",
	}
	_, _, err := Extract(rows)
	if !errors.Is(err, common.ErrNotApplicable) {
		t.Errorf("Expected ErrNotApplicable, got %v", err)
	}
}
