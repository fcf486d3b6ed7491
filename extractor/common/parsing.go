package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyRegex matches statement amount tokens in the Argentine convention,
// e.g. "91.666,58", "1.234,56" or "20,00".
var MoneyRegex = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d{2}`)

var (
	tagRegex        = regexp.MustCompile(`(?:C\.)?(\d{1,2})/(\d{1,2})`)
	voucherRegex    = regexp.MustCompile(`\b\d{6,}\b`)
	parenRegex      = regexp.MustCompile(`\([^)]*\)`)
	usdMarkerRegex  = regexp.MustCompile(`U\$S|USD`)
	spaceRegex      = regexp.MustCompile(`\s+`)
	currencyStripRE = regexp.MustCompile(`U\$S|USD|ARS|\$|\s`)
)

// ParseAmount converts a locale-formatted amount string into a decimal.
// Whichever separator appears last in the string is taken as the decimal
// separator, so both "91.666,58" and "1,234.56" parse correctly. A leading
// minus or enclosing parentheses mean negative. Malformed input yields
// zero so a single bad token never aborts a whole-document parse.
func ParseAmount(text string) decimal.Decimal {
	cleaned := currencyStripRE.ReplaceAllString(text, "")
	if cleaned == "" {
		return decimal.Zero
	}

	negative := strings.Contains(cleaned, "-") ||
		(strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")"))
	cleaned = strings.NewReplacer("-", "", "(", "", ")", "").Replace(cleaned)

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastComma >= 0 && lastDot >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return amount.Neg()
	}
	return amount
}

// ParseDate parses a date string using a Go layout in the local timezone.
func ParseDate(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, time.Local)
}

// ParseShortDate parses issuer dates in "DD-MM-YY" form. Two-digit years
// 00-49 map to 2000-2049 and 50-99 to 1950-1999.
func ParseShortDate(value string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("short date %q: want DD-MM-YY", value)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("short date %q: bad day: %w", value, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("short date %q: bad month: %w", value, err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("short date %q: bad year: %w", value, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("short date %q: out of range", value)
	}
	if year >= 50 {
		year += 1900
	} else {
		year += 2000
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

var spanishMonths = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
	// English spillover seen in some statements
	"jan": time.January, "apr": time.April, "aug": time.August, "dec": time.December,
}

// ParseSpanishDate parses issuer dates in "DD-MMM-YY" form with Spanish
// month abbreviations, e.g. "13-Mar-25".
func ParseSpanishDate(value string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("spanish date %q: want DD-MMM-YY", value)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("spanish date %q: bad day: %w", value, err)
	}
	month, ok := spanishMonths[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("spanish date %q: unknown month %q", value, parts[1])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("spanish date %q: out of range", value)
	}
	return time.Date(2000+year, month, day, 0, 0, 0, 0, time.Local), nil
}

// FindInstallmentTag locates an installment marker ("k/n" or "C.k/n")
// inside a description. It returns the parsed tag, the exact matched token
// so the caller can strip it, and whether a syntactic match was found.
// The returned tag may still be invalid (e.g. "1/1"); Valid() decides
// whether it ever propagates.
func FindInstallmentTag(text string) (InstallmentTag, string, bool) {
	match := tagRegex.FindStringSubmatch(text)
	if match == nil {
		return InstallmentTag{}, "", false
	}
	current, err := strconv.Atoi(match[1])
	if err != nil {
		return InstallmentTag{}, "", false
	}
	total, err := strconv.Atoi(match[2])
	if err != nil {
		return InstallmentTag{}, "", false
	}
	return InstallmentTag{Current: current, Total: total}, match[0], true
}

// ParseInstallmentTag parses a bare "current/total" string. The boolean is
// false for anything that is not a valid installment tag, including "1/1".
func ParseInstallmentTag(text string) (InstallmentTag, bool) {
	tag, _, ok := FindInstallmentTag(strings.TrimSpace(text))
	if !ok || !tag.Valid() {
		return InstallmentTag{}, false
	}
	return tag, ok
}

// CleanDescription strips statement noise from a description: voucher
// numbers, parenthesized tax bases, foreign-currency markers with their
// amounts, and redundant whitespace.
func CleanDescription(text string) string {
	text = parenRegex.ReplaceAllString(text, "")
	text = MoneyRegex.ReplaceAllString(text, "")
	text = usdMarkerRegex.ReplaceAllString(text, "")
	text = voucherRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(text, " "))
}

// NormalizeDescription canonicalizes a description for matching: collapsed
// whitespace, uppercased.
func NormalizeDescription(text string) string {
	return strings.ToUpper(strings.TrimSpace(spaceRegex.ReplaceAllString(text, " ")))
}

// UniqueAmounts parses amount tokens and drops numerically identical
// duplicates, preserving order. Foreign purchases often repeat the same
// value twice on one line; only one transaction must come out of it.
func UniqueAmounts(tokens []string) []decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(tokens))
	for _, tok := range tokens {
		value := ParseAmount(tok)
		dup := false
		for _, seen := range amounts {
			if seen.Equal(value) {
				dup = true
				break
			}
		}
		if !dup {
			amounts = append(amounts, value)
		}
	}
	return amounts
}
