// Package extractor turns raw statement text into transaction records.
// A document is first identified by issuer keywords on its initial page,
// then handed to the matching issuer extractor; documents no extractor
// claims fall back to the generic pattern scanner.
package extractor

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/nmoretto/resumen/extractor/bbva"
	"github.com/nmoretto/resumen/extractor/common"
	"github.com/nmoretto/resumen/extractor/galicia"
	"github.com/nmoretto/resumen/extractor/generic"
)

type Issuer string

const (
	IssuerGaliciaVisa Issuer = "GALICIA_VISA"
	IssuerGaliciaAmex Issuer = "GALICIA_AMEX"
	IssuerBBVA        Issuer = "BBVA"
	IssuerUnknown     Issuer = "UNKNOWN"
)

// firstPageRows bounds how much of the document identification reads.
const firstPageRows = 60

// Result is the outcome of processing one statement document.
type Result struct {
	Issuer       Issuer               `json:"issuer"`
	Fallback     bool                 `json:"fallback"`
	Transactions []common.Transaction `json:"transactions"`
	Stats        common.Stats         `json:"stats"`
}

// IdentifyIssuer decides which issuer a statement belongs to by scanning
// the initial page text for issuer-identifying keyword sets.
func IdentifyIssuer(firstPageText string) Issuer {
	upper := strings.ToUpper(firstPageText)

	switch {
	case strings.Contains(upper, "GALICIA") && strings.Contains(upper, "VISA"):
		return IssuerGaliciaVisa
	case strings.Contains(upper, "DETALLE DEL CONSUMO") && strings.Contains(upper, "TARJETA CRÉDITO VISA"):
		return IssuerGaliciaVisa
	case strings.Contains(upper, "GALICIA") &&
		(strings.Contains(upper, "AMEX") || strings.Contains(upper, "AMERICAN EXPRESS")):
		return IssuerGaliciaAmex
	case strings.Contains(upper, "DETALLE DEL CONSUMO") && strings.Contains(upper, "AMERICAN EXPRESS"):
		return IssuerGaliciaAmex
	case strings.Contains(upper, "BBVA") || strings.Contains(upper, "FRANCES"):
		return IssuerBBVA
	}
	return IssuerUnknown
}

// bankKeywords labels generic-fallback extractions with a best-effort
// card name. Order matters: more specific issuers first.
var bankKeywords = []struct {
	label    string
	keywords []string
}{
	{"BBVA", []string{"BBVA", "FRANCES"}},
	{"Galicia", []string{"GALICIA"}},
	{"Santander", []string{"SANTANDER", "RIO"}},
	{"Amex", []string{"AMERICAN EXPRESS", "AMEX"}},
	{"Visa", []string{"VISA"}},
	{"Mastercard", []string{"MASTERCARD", "MASTER"}},
	{"Nacion", []string{"NACION"}},
	{"Macro", []string{"MACRO"}},
}

func detectCardLabel(firstPageText string) string {
	upper := strings.ToUpper(firstPageText)
	for _, bank := range bankKeywords {
		for _, keyword := range bank.keywords {
			if strings.Contains(upper, keyword) {
				return bank.label
			}
		}
	}
	return ""
}

// Process runs issuer identification and extraction over statement rows.
// issuerOverride, when not IssuerUnknown, skips identification. A specific
// extractor that signals not-applicable hands the document to the generic
// fallback rather than failing.
func Process(rows []string, issuerOverride Issuer) (Result, error) {
	limit := len(rows)
	if limit > firstPageRows {
		limit = firstPageRows
	}
	firstPage := strings.Join(rows[:limit], "\n")

	issuer := issuerOverride
	if issuer == "" || issuer == IssuerUnknown {
		issuer = IdentifyIssuer(firstPage)
	}

	var (
		transactions []common.Transaction
		stats        common.Stats
		err          error
	)

	switch issuer {
	case IssuerGaliciaVisa:
		transactions, stats, err = galicia.Extract(rows, "Visa")
	case IssuerGaliciaAmex:
		transactions, stats, err = galicia.Extract(rows, "Amex")
	case IssuerBBVA:
		transactions, stats, err = bbva.Extract(rows)
	default:
		err = common.ErrNotApplicable
	}

	if err == nil {
		return Result{Issuer: issuer, Transactions: transactions, Stats: stats}, nil
	}
	if !errors.Is(err, common.ErrNotApplicable) {
		return Result{Issuer: issuer}, err
	}

	if issuer != IssuerUnknown {
		log.Printf("extractor: %s did not claim the document, using generic fallback", issuer)
	}

	transactions, stats, err = generic.Extract(rows)
	if err != nil {
		return Result{Issuer: IssuerUnknown, Fallback: true}, err
	}
	if label := detectCardLabel(firstPage); label != "" {
		for i := range transactions {
			if transactions[i].Card == "" {
				transactions[i].Card = label
			}
		}
	}
	return Result{Issuer: IssuerUnknown, Fallback: true, Transactions: transactions, Stats: stats}, nil
}

// ProcessReader extracts from an uploaded document, accepting either PDF
// content or plain statement text.
func ProcessReader(r io.Reader, issuerOverride Issuer) (Result, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return Result{}, err
	}
	data := buf.Bytes()

	var rows []string
	if bytes.HasPrefix(data, []byte("%PDF")) {
		var err error
		rows, err = common.ExtractRowsFromPDFReader(bytes.NewReader(data))
		if err != nil {
			return Result{}, err
		}
	} else {
		rows = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	}

	return Process(rows, issuerOverride)
}
