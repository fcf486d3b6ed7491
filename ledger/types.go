package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
)

// ProjectionKey identifies one projected installment: the transaction
// that originated it plus the future period it lands in.
type ProjectionKey struct {
	OriginID string `json:"origin_id"`
	Period   Period `json:"period"`
}

// ProjectedInstallment is a forward-looking obligation derived from an
// installment purchase, materialized ahead of its real statement
// appearance. At most one exists per (origin, period) pair.
type ProjectedInstallment struct {
	OriginID       string                `json:"origin_id"`
	Period         Period                `json:"period"`
	Date           time.Time             `json:"date"`
	Description    string                `json:"description"`
	Amount         decimal.Decimal       `json:"amount"`
	Currency       common.Currency       `json:"currency"`
	Category       string                `json:"category,omitempty"`
	Card           string                `json:"card,omitempty"`
	Installment    common.InstallmentTag `json:"installment"`
	AdjustedAmount *decimal.Decimal      `json:"adjusted_amount,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Reconciled     bool                  `json:"reconciled"`
}

func (p ProjectedInstallment) Key() ProjectionKey {
	return ProjectionKey{OriginID: p.OriginID, Period: p.Period}
}

// EffectiveAmount returns the per-period override when set, else the
// copied origin amount. Zero override is an annulment of this one
// occurrence only.
func (p ProjectedInstallment) EffectiveAmount() decimal.Decimal {
	if p.AdjustedAmount != nil {
		return *p.AdjustedAmount
	}
	return p.Amount
}

// ProjectionPatch updates the mutable fields of a single projected
// installment. Nil fields are left unchanged; ClearAdjustedAmount removes
// an existing override (distinct from overriding with zero).
type ProjectionPatch struct {
	Notes               *string
	Category            *string
	AdjustedAmount      *decimal.Decimal
	ClearAdjustedAmount bool
}

// ManualExpense is a user-entered obligation not backed by any statement:
// cash, debit, transfers, rent.
type ManualExpense struct {
	ID          string          `json:"id"`
	Period      Period          `json:"period"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    common.Currency `json:"currency"`
	Category    string          `json:"category,omitempty"`
	Paid        bool            `json:"paid"`
	Recurring   bool            `json:"recurring"`
}
