package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddExpense records a manual expense against the store. A recurring
// expense fans out into one independent instance per month, from its own
// period through December of the following year; each instance gets its
// own ID and can be edited or deleted on its own. Days past the end of a
// shorter month clamp to that month's last day.
func AddExpense(store Store, exp ManualExpense) ([]ManualExpense, error) {
	if !exp.Period.Valid() {
		return nil, fmt.Errorf("add expense: invalid period %q", exp.Period)
	}
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}

	instances := []ManualExpense{exp}
	if exp.Recurring {
		horizon := Period(fmt.Sprintf("%04d-12", exp.Period.Time().Year()+1))
		day := exp.Date.Day()
		for p := exp.Period.AddMonths(1); !horizon.Before(p); p = p.AddMonths(1) {
			inst := exp
			inst.ID = uuid.NewString()
			inst.Period = p
			inst.Date = dateInPeriod(p, day)
			instances = append(instances, inst)
		}
	}

	for _, inst := range instances {
		if err := store.SaveManualExpense(inst); err != nil {
			return nil, fmt.Errorf("add expense %q: %w", inst.ID, err)
		}
	}
	return instances, nil
}

func dateInPeriod(p Period, day int) time.Time {
	start := p.Time()
	if last := daysIn(start.Year(), start.Month()); day > last {
		day = last
	}
	return time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
