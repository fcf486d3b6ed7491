package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/nmoretto/resumen/extractor/common"
	"github.com/nmoretto/resumen/ledger"
)

func isNotFound(err error) bool {
	return errors.Is(err, ledger.ErrNotFound)
}

// buildExpense validates an expense request and converts it to the
// ledger model. Date defaults to the first of the period when omitted.
func buildExpense(req expenseRequest) (ledger.ManualExpense, error) {
	period, err := ledger.ParsePeriod(req.Period)
	if err != nil {
		return ledger.ManualExpense{}, fmt.Errorf("invalid period: %w", err)
	}
	if req.Description == "" {
		return ledger.ManualExpense{}, errors.New("description is required")
	}

	currency := common.Currency(req.Currency)
	if currency == "" {
		currency = common.ARS
	}
	if currency != common.ARS && currency != common.USD {
		return ledger.ManualExpense{}, fmt.Errorf("unsupported currency %q", req.Currency)
	}

	date := period.Time()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return ledger.ManualExpense{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	return ledger.ManualExpense{
		Period:      period,
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    currency,
		Category:    req.Category,
		Recurring:   req.Recurring,
	}, nil
}
