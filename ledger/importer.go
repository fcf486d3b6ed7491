package ledger

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/nmoretto/resumen/extractor/common"
)

// ImportResult summarizes one statement import.
type ImportResult struct {
	Imported   int
	Duplicates int
	Projected  int
	Reconciled int
}

// Importer persists extracted transactions and feeds them through the
// projection engine.
type Importer struct {
	store  Store
	engine *Engine
}

func NewImporter(store Store, engine *Engine) *Importer {
	return &Importer{store: store, engine: engine}
}

type dedupeKey struct {
	Period      string
	Date        string
	Description string
	Amount      string
}

func keyOf(tx common.Transaction) dedupeKey {
	return dedupeKey{
		Period:      tx.Period,
		Date:        tx.Date.Format("2006-01-02"),
		Description: common.NormalizeDescription(tx.Description),
		Amount:      tx.Amount.String(),
	}
}

// Import stores the extracted transactions under the billed period and
// runs each through the projection engine. A transaction matching an
// already stored one on period, date, normalized description and amount
// is a duplicate and dropped, so re-importing the same PDF is a no-op.
//
// Installment transactions that continue a known purchase adopt its
// origin ID: a "10/12" line whose description and tag position line up
// with an existing projection for the period belongs to the same purchase
// as the "9/12" that created the projection, and reconciliation needs the
// two to share an identity.
func (im *Importer) Import(txs []common.Transaction, billed Period) (ImportResult, error) {
	if !billed.Valid() {
		return ImportResult{}, fmt.Errorf("import: invalid period %q", billed)
	}

	existing, err := im.store.LoadTransactions()
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	seen := make(map[dedupeKey]struct{}, len(existing))
	for _, tx := range existing {
		seen[keyOf(tx)] = struct{}{}
	}

	projections, err := im.store.LoadProjections()
	if err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}

	var result ImportResult
	for _, tx := range txs {
		tx.Period = string(billed)
		key := keyOf(tx)
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		if id, ok := adoptOrigin(tx, billed, projections); ok {
			tx.ID = id
		} else if tx.ID == "" {
			tx.ID = uuid.NewString()
		}

		existing = append(existing, tx)
		result.Imported++

		projected, reconciled, err := im.engine.Ingest(tx, billed)
		if err != nil {
			return result, fmt.Errorf("import: %w", err)
		}
		result.Projected += projected
		if reconciled {
			result.Reconciled++
		}
	}

	if result.Imported > 0 {
		if err := im.store.SaveTransactions(existing); err != nil {
			return result, fmt.Errorf("import: %w", err)
		}
	}
	log.Printf("ledger: imported %d transactions for %s (%d duplicates, %d projected, %d reconciled)",
		result.Imported, billed, result.Duplicates, result.Projected, result.Reconciled)
	return result, nil
}

// adoptOrigin looks for a projection targeting the billed period whose
// description and installment position match the incoming transaction.
func adoptOrigin(tx common.Transaction, billed Period, projections []ProjectedInstallment) (string, bool) {
	if tx.Installments == nil || !tx.Installments.Valid() {
		return "", false
	}
	desc := common.NormalizeDescription(tx.Description)
	for _, p := range projections {
		if p.Period != billed {
			continue
		}
		if p.Installment != *tx.Installments {
			continue
		}
		if common.NormalizeDescription(p.Description) == desc {
			return p.OriginID, true
		}
	}
	return "", false
}
