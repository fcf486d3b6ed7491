package common

import (
	"testing"
)

func TestParseAmount_CommaDecimal(t *testing.T) {
	result := ParseAmount("91.666,58")
	if result.String() != "91666.58" {
		t.Errorf("Expected '91666.58', got '%s'", result.String())
	}
}

func TestParseAmount_DotDecimal(t *testing.T) {
	result := ParseAmount("1,234.56")
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_CommaOnly(t *testing.T) {
	result := ParseAmount("1234,56")
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_CurrencyPrefix(t *testing.T) {
	result := ParseAmount("$ 1.234,56")
	if result.String() != "1234.56" {
		t.Errorf("Expected '1234.56', got '%s'", result.String())
	}
}

func TestParseAmount_USDMarker(t *testing.T) {
	result := ParseAmount("USD 14,99")
	if result.String() != "14.99" {
		t.Errorf("Expected '14.99', got '%s'", result.String())
	}
}

func TestParseAmount_LeadingMinus(t *testing.T) {
	result := ParseAmount("-123,45")
	if result.String() != "-123.45" {
		t.Errorf("Expected '-123.45', got '%s'", result.String())
	}
}

func TestParseAmount_Parentheses(t *testing.T) {
	result := ParseAmount("(1.500,00)")
	if result.String() != "-1500" {
		t.Errorf("Expected '-1500', got '%s'", result.String())
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, input := range []string{"", "ABC", "12,34,56.7.8"} {
		result := ParseAmount(input)
		if !result.IsZero() {
			t.Errorf("Expected zero for %q, got '%s'", input, result.String())
		}
	}
}

func TestParseShortDate_Valid(t *testing.T) {
	result, err := ParseShortDate("31-08-25")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Year() != 2025 || result.Month() != 8 || result.Day() != 31 {
		t.Errorf("Expected 2025-08-31, got %v", result)
	}
}

func TestParseShortDate_CenturyCutoff(t *testing.T) {
	result, err := ParseShortDate("01-01-99")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Year() != 1999 {
		t.Errorf("Expected year 1999, got %d", result.Year())
	}
}

func TestParseShortDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "31/08/25", "99-99-25", "abc-de-fg"} {
		if _, err := ParseShortDate(input); err == nil {
			t.Errorf("Expected error for %q, got nil", input)
		}
	}
}

func TestParseSpanishDate_Valid(t *testing.T) {
	result, err := ParseSpanishDate("13-Mar-25")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Year() != 2025 || result.Month() != 3 || result.Day() != 13 {
		t.Errorf("Expected 2025-03-13, got %v", result)
	}
}

func TestParseSpanishDate_AllMonths(t *testing.T) {
	months := []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
	for i, m := range months {
		result, err := ParseSpanishDate("05-" + m + "-25")
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", m, err)
		}
		if int(result.Month()) != i+1 {
			t.Errorf("Expected month %d for %s, got %d", i+1, m, result.Month())
		}
	}
}

func TestParseSpanishDate_UnknownMonth(t *testing.T) {
	if _, err := ParseSpanishDate("13-Xyz-25"); err == nil {
		t.Error("Expected error for unknown month, got nil")
	}
}

func TestFindInstallmentTag_Prefixed(t *testing.T) {
	tag, token, ok := FindInstallmentTag("COPPEL C.09/12")
	if !ok {
		t.Fatal("Expected a tag match")
	}
	if tag.Current != 9 || tag.Total != 12 {
		t.Errorf("Expected 9/12, got %s", tag)
	}
	if token != "C.09/12" {
		t.Errorf("Expected token 'C.09/12', got '%s'", token)
	}
}

func TestFindInstallmentTag_Bare(t *testing.T) {
	tag, token, ok := FindInstallmentTag("MERPAGO*MERCADOLIBRE 03/03")
	if !ok {
		t.Fatal("Expected a tag match")
	}
	if tag.Current != 3 || tag.Total != 3 {
		t.Errorf("Expected 3/3, got %s", tag)
	}
	if token != "03/03" {
		t.Errorf("Expected token '03/03', got '%s'", token)
	}
}

func TestFindInstallmentTag_Absent(t *testing.T) {
	if _, _, ok := FindInstallmentTag("NETFLIX.COM"); ok {
		t.Error("Expected no tag match")
	}
}

func TestParseInstallmentTag_SinglePayment(t *testing.T) {
	if _, ok := ParseInstallmentTag("1/1"); ok {
		t.Error("Expected 1/1 to not be a valid installment tag")
	}
}

func TestParseInstallmentTag_Malformed(t *testing.T) {
	for _, input := range []string{"", "abc", "12/", "/12", "12/3"} {
		if _, ok := ParseInstallmentTag(input); ok {
			t.Errorf("Expected %q to not be a valid installment tag", input)
		}
	}
}

func TestInstallmentTag_Valid(t *testing.T) {
	cases := []struct {
		tag   InstallmentTag
		valid bool
	}{
		{InstallmentTag{Current: 1, Total: 12}, true},
		{InstallmentTag{Current: 12, Total: 12}, true},
		{InstallmentTag{Current: 1, Total: 1}, false},
		{InstallmentTag{Current: 13, Total: 12}, false},
		{InstallmentTag{Current: 0, Total: 12}, false},
	}
	for _, c := range cases {
		if c.tag.Valid() != c.valid {
			t.Errorf("Tag %s: expected Valid()=%v", c.tag, c.valid)
		}
	}
}

func TestCleanDescription_StripsNoise(t *testing.T) {
	result := CleanDescription("APPLE.COM/BILL USD 20,00 957806")
	if result != "APPLE.COM/BILL" {
		t.Errorf("Expected 'APPLE.COM/BILL', got '%s'", result)
	}
}

func TestCleanDescription_StripsParens(t *testing.T) {
	result := CleanDescription("IVA 21% (BASE 1.000,00) SERVICIO")
	if result != "IVA 21% SERVICIO" {
		t.Errorf("Expected 'IVA 21%% SERVICIO', got '%s'", result)
	}
}

func TestNormalizeDescription(t *testing.T) {
	result := NormalizeDescription("  Merpago*MercadoLibre   ")
	if result != "MERPAGO*MERCADOLIBRE" {
		t.Errorf("Expected 'MERPAGO*MERCADOLIBRE', got '%s'", result)
	}
}

func TestUniqueAmounts_Deduplicates(t *testing.T) {
	amounts := UniqueAmounts([]string{"14,99", "14,99"})
	if len(amounts) != 1 {
		t.Fatalf("Expected 1 unique amount, got %d", len(amounts))
	}
	if amounts[0].String() != "14.99" {
		t.Errorf("Expected '14.99', got '%s'", amounts[0].String())
	}
}

func TestUniqueAmounts_KeepsDistinct(t *testing.T) {
	amounts := UniqueAmounts([]string{"100,00", "14,99"})
	if len(amounts) != 2 {
		t.Fatalf("Expected 2 unique amounts, got %d", len(amounts))
	}
}

func TestTransaction_EffectiveAmount(t *testing.T) {
	tx := Transaction{Amount: ParseAmount("100,00")}
	if tx.EffectiveAmount().String() != "100" {
		t.Errorf("Expected original amount, got %s", tx.EffectiveAmount())
	}

	override := ParseAmount("50,00")
	tx.AdjustedAmount = &override
	if tx.EffectiveAmount().String() != "50" {
		t.Errorf("Expected override, got %s", tx.EffectiveAmount())
	}

	annulled := ParseAmount("0,00")
	tx.AdjustedAmount = &annulled
	if !tx.EffectiveAmount().IsZero() {
		t.Errorf("Expected annulled amount to be zero, got %s", tx.EffectiveAmount())
	}
}
