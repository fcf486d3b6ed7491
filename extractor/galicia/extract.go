// Package galicia extracts transactions from Banco Galicia credit card
// statements (Visa and American Express share the same layout).
package galicia

import (
	"log"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/nmoretto/resumen/extractor/common"
)

type config struct {
	RegionStart *regexp.Regexp
	RegionEnd   *regexp.Regexp
	CardHeader  *regexp.Regexp
	Line        *regexp.Regexp
	Denylist    []string
}

func loadConfig() config {
	return config{
		RegionStart: regexp.MustCompile(viper.GetString("statement.GALICIA.patterns.region_start")),
		RegionEnd:   regexp.MustCompile(viper.GetString("statement.GALICIA.patterns.region_end")),
		CardHeader:  regexp.MustCompile(viper.GetString("statement.GALICIA.patterns.card_header")),
		Line:        regexp.MustCompile(viper.GetString("statement.GALICIA.patterns.transaction")),
		Denylist:    viper.GetStringSlice("statement.GALICIA.denylist"),
	}
}

// Extract pulls transactions out of the "DETALLE DEL CONSUMO" region of a
// Galicia statement. cardType labels the resulting transactions ("Visa" or
// "Amex"). Returns common.ErrNotApplicable when the region markers are not
// present in the document.
func Extract(rows []string, cardType string) ([]common.Transaction, common.Stats, error) {
	cfg := loadConfig()

	var (
		transactions []common.Transaction
		stats        common.Stats
		inRegion     bool
		regionFound  bool
		currentCard  string
	)

	for _, row := range rows {
		if cfg.RegionStart.MatchString(row) {
			inRegion = true
			regionFound = true
			continue
		}
		if inRegion && cfg.RegionEnd.MatchString(row) {
			inRegion = false
			continue
		}
		if match := cfg.CardHeader.FindStringSubmatch(row); match != nil {
			currentCard = match[1]
			continue
		}
		if !inRegion {
			continue
		}

		match := cfg.Line.FindStringSubmatch(row)
		if match == nil {
			continue
		}
		stats.Lines++

		if denylisted(row, cfg.Denylist) {
			continue
		}

		tx, ok := parseLine(match[1], match[2], cardType, currentCard)
		if !ok {
			stats.SkippedLines++
			continue
		}
		transactions = append(transactions, tx)
	}

	if !regionFound {
		return nil, stats, common.ErrNotApplicable
	}

	stats.Matched = len(transactions)
	if stats.SkippedLines > 0 {
		log.Printf("galicia: %d lines skipped", stats.SkippedLines)
	}
	return transactions, stats, nil
}

func denylisted(row string, denylist []string) bool {
	upper := strings.ToUpper(row)
	for _, keyword := range denylist {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// parseLine handles one charge line, e.g.
//
//	31-08-25 * MERPAGO*MERCADOLIBRE 03/03 886717 49.999,66
//	08-11-25 APPLE.COM/BILL USD 20,00 957806 20,00
func parseLine(dateToken, rest, cardType, cardNumber string) (common.Transaction, bool) {
	date, err := common.ParseShortDate(dateToken)
	if err != nil {
		return common.Transaction{}, false
	}

	rest = strings.TrimSpace(rest)
	// Leading * and K are Galicia line markers, not part of the merchant.
	if strings.HasPrefix(rest, "* ") || strings.HasPrefix(rest, "K ") {
		rest = rest[2:]
	}

	tokens := common.MoneyRegex.FindAllString(rest, -1)
	if len(tokens) == 0 {
		return common.Transaction{}, false
	}
	amounts := common.UniqueAmounts(tokens)

	currency := common.ARS
	if strings.Contains(strings.ToUpper(rest), "USD") {
		currency = common.USD
	}
	amount := amounts[len(amounts)-1].Abs()

	var installments *common.InstallmentTag
	if tag, token, ok := common.FindInstallmentTag(rest); ok {
		rest = strings.Replace(rest, token, "", 1)
		if tag.Valid() {
			installments = &tag
		}
	}

	description := common.CleanDescription(rest)
	if len(description) < 3 {
		return common.Transaction{}, false
	}

	card := cardType + " Galicia"
	if cardNumber != "" {
		card += " (" + cardNumber + ")"
	}

	return common.Transaction{
		Date:         date,
		Description:  description,
		Amount:       amount,
		Currency:     currency,
		Installments: installments,
		Card:         card,
	}, true
}
