// Package bbva extracts transactions from BBVA Visa credit card statements.
package bbva

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
	Line        *regexp.Regexp
	Denylist    []string
}

func loadConfig() config {
	return config{
		RegionStart: regexp.MustCompile(viper.GetString("statement.BBVA.patterns.region_start")),
		RegionEnd:   regexp.MustCompile(viper.GetString("statement.BBVA.patterns.region_end")),
		Line:        regexp.MustCompile(viper.GetString("statement.BBVA.patterns.transaction")),
		Denylist:    viper.GetStringSlice("statement.BBVA.denylist"),
	}
}

// Extract pulls transactions out of the account holder's "Consumos"
// section of a BBVA statement. Only the first holder section is read;
// additional-cardholder sections after the "TOTAL CONSUMOS DE" footer are
// out of bounds. Returns common.ErrNotApplicable when the section markers
// are not present.
func Extract(rows []string) ([]common.Transaction, common.Stats, error) {
	cfg := loadConfig()

	var (
		transactions []common.Transaction
		stats        common.Stats
		inRegion     bool
		regionFound  bool
	)

	for _, row := range rows {
		if !inRegion && !regionFound && cfg.RegionStart.MatchString(row) {
			inRegion = true
			regionFound = true
			continue
		}
		if inRegion && cfg.RegionEnd.MatchString(row) {
			break
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

		tx, ok := parseLine(match[1], match[2])
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
		log.Printf("bbva: %d lines skipped", stats.SkippedLines)
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
//	13-Mar-25 COPPEL C.09/12 009904 91.666,58
//	20-Mar-25 STEAMGAMES.COM USD 14,99 410477 14,99
func parseLine(dateToken, rest string) (common.Transaction, bool) {
	date, err := common.ParseSpanishDate(dateToken)
	if err != nil {
		return common.Transaction{}, false
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

	return common.Transaction{
		Date:         date,
		Description:  description,
		Amount:       amount,
		Currency:     currency,
		Installments: installments,
		Card:         "Visa BBVA",
	}, true
}
