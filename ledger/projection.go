package ledger

import (
	"fmt"
	"log"

	"github.com/nmoretto/resumen/extractor/common"
)

// Engine materializes future installment obligations from imported
// transactions and reconciles them when the real statement arrives.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Ingest processes one transaction billed under the given period.
//
// A transaction tagged "k/n" with n > k produces one ProjectedInstallment
// for each of the n−k remaining months, positions k+1..n, starting one
// month after the billed period. The engine is idempotent: a projection
// already present for an (origin, period) pair is left untouched, so
// re-importing the same statement creates nothing new.
//
// Independently of projection, any existing projection targeting the
// billed period itself for this origin is flipped to reconciled: the real
// charge is now the source of truth for that period and the projection
// must not be counted again.
//
// Returns the number of projections created and whether a reconciliation
// happened.
func (e *Engine) Ingest(tx common.Transaction, billed Period) (int, bool, error) {
	if !billed.Valid() {
		return 0, false, fmt.Errorf("ingest %q: invalid period %q", tx.ID, billed)
	}

	projections, err := e.store.LoadProjections()
	if err != nil {
		return 0, false, fmt.Errorf("ingest %q: %w", tx.ID, err)
	}

	index := make(map[ProjectionKey]int, len(projections))
	for i, p := range projections {
		index[p.Key()] = i
	}

	created := 0
	if tag := tx.Installments; tag != nil && tag.Valid() && tag.Remaining() > 0 {
		for i := 1; i <= tag.Remaining(); i++ {
			key := ProjectionKey{OriginID: tx.ID, Period: billed.AddMonths(i)}
			if _, exists := index[key]; exists {
				continue
			}
			projections = append(projections, ProjectedInstallment{
				OriginID:    tx.ID,
				Period:      key.Period,
				Date:        tx.Date,
				Description: tx.Description,
				Amount:      tx.Amount,
				Currency:    tx.Currency,
				Category:    tx.Category,
				Card:        tx.Card,
				Installment: common.InstallmentTag{Current: tag.Current + i, Total: tag.Total},
			})
			index[key] = len(projections) - 1
			created++
		}
	}

	reconciled := false
	if i, ok := index[ProjectionKey{OriginID: tx.ID, Period: billed}]; ok && !projections[i].Reconciled {
		projections[i].Reconciled = true
		reconciled = true
		log.Printf("ledger: reconciled projection %s for period %s", tx.ID, billed)
	}

	if created == 0 && !reconciled {
		return 0, false, nil
	}
	if err := e.store.SaveProjections(projections); err != nil {
		return 0, false, fmt.Errorf("ingest %q: %w", tx.ID, err)
	}
	return created, reconciled, nil
}

// ProjectionsFor returns the projected installments targeting a period.
// Reconciled projections are excluded unless asked for: once the real
// transaction exists for a period, it is the source of truth there.
func (e *Engine) ProjectionsFor(period Period, includeReconciled bool) ([]ProjectedInstallment, error) {
	projections, err := e.store.LoadProjections()
	if err != nil {
		return nil, err
	}

	var result []ProjectedInstallment
	for _, p := range projections {
		if p.Period != period {
			continue
		}
		if p.Reconciled && !includeReconciled {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Pending returns every projection not yet confirmed by a real statement,
// across all periods: the total future installment commitment.
func (e *Engine) Pending() ([]ProjectedInstallment, error) {
	projections, err := e.store.LoadProjections()
	if err != nil {
		return nil, err
	}

	var result []ProjectedInstallment
	for _, p := range projections {
		if !p.Reconciled {
			result = append(result, p)
		}
	}
	return result, nil
}

// Annul removes exactly one projected installment, leaving sibling
// periods of the same origin untouched.
func (e *Engine) Annul(originID string, period Period) error {
	projections, err := e.store.LoadProjections()
	if err != nil {
		return err
	}

	key := ProjectionKey{OriginID: originID, Period: period}
	for i, p := range projections {
		if p.Key() == key {
			projections = append(projections[:i], projections[i+1:]...)
			return e.store.SaveProjections(projections)
		}
	}
	return fmt.Errorf("annul %s %s: %w", originID, period, ErrNotFound)
}

// Amend updates the mutable fields of one projected installment.
func (e *Engine) Amend(originID string, period Period, patch ProjectionPatch) error {
	projections, err := e.store.LoadProjections()
	if err != nil {
		return err
	}

	key := ProjectionKey{OriginID: originID, Period: period}
	for i := range projections {
		if projections[i].Key() != key {
			continue
		}
		if patch.Notes != nil {
			projections[i].Notes = *patch.Notes
		}
		if patch.Category != nil {
			projections[i].Category = *patch.Category
		}
		if patch.ClearAdjustedAmount {
			projections[i].AdjustedAmount = nil
		} else if patch.AdjustedAmount != nil {
			projections[i].AdjustedAmount = patch.AdjustedAmount
		}
		return e.store.SaveProjections(projections)
	}
	return fmt.Errorf("amend %s %s: %w", originID, period, ErrNotFound)
}
