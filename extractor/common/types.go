package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotApplicable is returned by an issuer extractor that does not
// recognize the document. The caller falls back to the generic extractor.
var ErrNotApplicable = errors.New("extractor: document not recognized by this issuer")

type Currency string

const (
	ARS Currency = "ARS"
	USD Currency = "USD"
)

// InstallmentTag is the "current/total" marker on an installment purchase,
// e.g. 9/12 for the ninth of twelve monthly charges.
type InstallmentTag struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Valid reports whether the tag describes a real installment purchase.
// A 1/1 tag is a single full payment and never triggers projection.
func (t InstallmentTag) Valid() bool {
	return t.Total > 1 && t.Current >= 1 && t.Current <= t.Total
}

// Remaining is the number of future charges still to be billed.
func (t InstallmentTag) Remaining() int {
	return t.Total - t.Current
}

func (t InstallmentTag) String() string {
	return fmt.Sprintf("%d/%d", t.Current, t.Total)
}

// Transaction is a single charge line, either extracted from a statement
// or entered manually. Amount is always the as-billed magnitude; refunds
// and credits are out of scope.
type Transaction struct {
	ID             string           `json:"id"`
	Date           time.Time        `json:"date"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       Currency         `json:"currency"`
	Installments   *InstallmentTag  `json:"installments,omitempty"`
	Card           string           `json:"card,omitempty"`
	Period         string           `json:"period,omitempty"`
	Category       string           `json:"category,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	AdjustedAmount *decimal.Decimal `json:"adjusted_amount,omitempty"`
	Manual         bool             `json:"manual"`
}

// EffectiveAmount returns the adjusted amount when an override is set,
// otherwise the original amount. An override of exactly zero is an
// annulment: the charge contributes nothing but stays enumerable.
func (tx Transaction) EffectiveAmount() decimal.Decimal {
	if tx.AdjustedAmount != nil {
		return *tx.AdjustedAmount
	}
	return tx.Amount
}

// Stats summarizes one extraction pass over a document.
type Stats struct {
	Lines        int `json:"lines"`
	Matched      int `json:"matched"`
	SkippedLines int `json:"skipped_lines"`
}
