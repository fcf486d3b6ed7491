// Package generic is the best-effort fallback extractor used when no
// issuer-specific extractor claims a document. Lower precision, same
// output contract.
package generic

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nmoretto/resumen/extractor/common"
)

var (
	spanishDateRE = regexp.MustCompile(`\d{2}-[A-Za-z]{3}-\d{2}`)
	shortDateRE   = regexp.MustCompile(`\d{2}-\d{2}-\d{2}`)
	slashDateRE   = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	parenRE       = regexp.MustCompile(`\([^)]*\)`)
)

func denylist() []string {
	return viper.GetStringSlice("statement.GENERIC.denylist")
}

// Extract scans every row for a date-like token in the accepted formats
// and treats any such row as a candidate transaction line. Summary rows
// are dropped by denylist keyword; amounts are deduplicated numerically
// and zero amounts discarded.
func Extract(rows []string) ([]common.Transaction, common.Stats, error) {
	deny := denylist()

	var (
		transactions []common.Transaction
		stats        common.Stats
	)

	for _, row := range rows {
		date, rest, ok := findDate(row)
		if !ok {
			continue
		}
		stats.Lines++

		if denylisted(row, deny) {
			continue
		}

		lineTxs, ok := parseLine(date, rest)
		if !ok {
			stats.SkippedLines++
			continue
		}
		transactions = append(transactions, lineTxs...)
	}

	stats.Matched = len(transactions)
	if stats.SkippedLines > 0 {
		log.Printf("generic: %d lines skipped", stats.SkippedLines)
	}
	return transactions, stats, nil
}

// findDate locates the first date-like token on the row and returns the
// parsed date together with the row stripped of every date token.
func findDate(row string) (time.Time, string, bool) {
	if token := spanishDateRE.FindString(row); token != "" {
		if date, err := common.ParseSpanishDate(token); err == nil {
			return date, stripDates(row), true
		}
	}
	if token := shortDateRE.FindString(row); token != "" {
		if date, err := common.ParseShortDate(token); err == nil {
			return date, stripDates(row), true
		}
	}
	if token := slashDateRE.FindString(row); token != "" {
		if date, err := common.ParseDate("02/01/2006", token); err == nil {
			return date, stripDates(row), true
		}
	}
	return time.Time{}, "", false
}

// stripDates removes every date token, including duplicated due-date
// columns some issuers print next to the purchase date.
func stripDates(row string) string {
	row = spanishDateRE.ReplaceAllString(row, "")
	row = shortDateRE.ReplaceAllString(row, "")
	row = slashDateRE.ReplaceAllString(row, "")
	return row
}

func denylisted(row string, deny []string) bool {
	upper := strings.ToUpper(row)
	for _, keyword := range deny {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

func parseLine(date time.Time, rest string) ([]common.Transaction, bool) {
	// Parenthesized amounts are tax bases, not charges.
	rest = parenRE.ReplaceAllString(rest, "")

	var installments *common.InstallmentTag
	if tag, token, ok := common.FindInstallmentTag(rest); ok {
		rest = strings.Replace(rest, token, "", 1)
		if tag.Valid() {
			installments = &tag
		}
	}

	tokens := common.MoneyRegex.FindAllString(rest, -1)
	if len(tokens) == 0 {
		return nil, false
	}

	amounts := common.UniqueAmounts(tokens)
	currency := common.ARS
	if strings.Contains(rest, "USD") || strings.Contains(rest, "U$S") {
		currency = common.USD
	}

	description := common.CleanDescription(rest)
	if len(description) < 3 {
		return nil, false
	}

	var transactions []common.Transaction
	for _, amount := range amounts {
		if amount.IsZero() {
			continue
		}
		transactions = append(transactions, common.Transaction{
			Date:         date,
			Description:  description,
			Amount:       amount.Abs(),
			Currency:     currency,
			Installments: installments,
		})
	}
	if len(transactions) == 0 {
		return nil, false
	}
	return transactions, true
}
