package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
)

// BudgetStatus buckets salary usage into the bands shown to the user.
type BudgetStatus string

const (
	StatusComfortable BudgetStatus = "comfortable" // under 70% of salary
	StatusWatch       BudgetStatus = "watch"       // 70% to 90%
	StatusTight       BudgetStatus = "tight"       // 90% to 100%
	StatusExceeded    BudgetStatus = "exceeded"    // at or over salary
	StatusUnknown     BudgetStatus = "unknown"     // no salary on record
)

// Totals aggregates a period's spending by source and currency.
type Totals struct {
	Period Period

	Statement map[common.Currency]decimal.Decimal
	Projected map[common.Currency]decimal.Decimal
	Manual    map[common.Currency]decimal.Decimal

	Entries          []common.Transaction
	ProjectedEntries []ProjectedInstallment
	ManualEntries    []ManualExpense
}

// Total returns the combined spend in one currency across all sources.
func (t Totals) Total(cur common.Currency) decimal.Decimal {
	return t.Statement[cur].Add(t.Projected[cur]).Add(t.Manual[cur])
}

// Summary is the period view rendered by the CLI and the API.
type Summary struct {
	Totals
	Salary          decimal.Decimal
	SalaryKnown     bool
	AvailableBudget decimal.Decimal
	UsageRatio      float64
	Status          BudgetStatus
}

// Resolver computes period aggregates, resolving amount overrides and
// the salary carry-forward chain.
type Resolver struct {
	store  Store
	engine *Engine
}

func NewResolver(store Store, engine *Engine) *Resolver {
	return &Resolver{store: store, engine: engine}
}

// TotalsFor sums a period's spending. Statement transactions and manual
// expenses billed in the period count at their effective amounts; pending
// projections targeting the period count at theirs. Reconciled projections
// are excluded, their real counterpart is already in the statement total.
func (r *Resolver) TotalsFor(period Period) (Totals, error) {
	totals := Totals{
		Period:    period,
		Statement: map[common.Currency]decimal.Decimal{},
		Projected: map[common.Currency]decimal.Decimal{},
		Manual:    map[common.Currency]decimal.Decimal{},
	}

	txs, err := r.store.LoadTransactions()
	if err != nil {
		return Totals{}, err
	}
	for _, tx := range txs {
		if tx.Period != string(period) {
			continue
		}
		totals.Entries = append(totals.Entries, tx)
		totals.Statement[tx.Currency] = totals.Statement[tx.Currency].Add(tx.EffectiveAmount())
	}

	projections, err := r.engine.ProjectionsFor(period, false)
	if err != nil {
		return Totals{}, err
	}
	totals.ProjectedEntries = projections
	for _, p := range projections {
		totals.Projected[p.Currency] = totals.Projected[p.Currency].Add(p.EffectiveAmount())
	}

	expenses, err := r.store.LoadManualExpenses()
	if err != nil {
		return Totals{}, err
	}
	for _, exp := range expenses {
		if exp.Period != period {
			continue
		}
		totals.ManualEntries = append(totals.ManualEntries, exp)
		totals.Manual[exp.Currency] = totals.Manual[exp.Currency].Add(exp.Amount)
	}

	return totals, nil
}

// EffectiveSalary resolves the salary for a period. When the period has
// no override of its own, the most recent earlier override carries
// forward; a salary set once applies until changed.
func (r *Resolver) EffectiveSalary(period Period) (decimal.Decimal, bool, error) {
	overrides, err := r.store.LoadSalaryOverrides()
	if err != nil {
		return decimal.Zero, false, err
	}
	if salary, ok := overrides[period]; ok {
		return salary, true, nil
	}

	periods := make([]Period, 0, len(overrides))
	for p := range overrides {
		if p.Before(period) {
			periods = append(periods, p)
		}
	}
	if len(periods) == 0 {
		return decimal.Zero, false, nil
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return overrides[periods[len(periods)-1]], true, nil
}

// SetSalary records a salary override effective from the given period on.
func (r *Resolver) SetSalary(period Period, salary decimal.Decimal) error {
	return r.store.SaveSalaryOverride(period, salary)
}

// SummaryFor builds the full budget view for a period. Budget arithmetic
// is ARS only: USD spending is reported but never netted against an ARS
// salary.
func (r *Resolver) SummaryFor(period Period) (Summary, error) {
	totals, err := r.TotalsFor(period)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Totals: totals, Status: StatusUnknown}

	salary, known, err := r.EffectiveSalary(period)
	if err != nil {
		return Summary{}, err
	}
	if !known {
		return summary, nil
	}

	spent := totals.Total(common.ARS)
	summary.Salary = salary
	summary.SalaryKnown = true
	summary.AvailableBudget = salary.Sub(spent)

	if salary.IsZero() {
		if spent.IsPositive() {
			summary.Status = StatusExceeded
		}
		return summary, nil
	}

	ratio, _ := spent.Div(salary).Float64()
	summary.UsageRatio = ratio
	switch {
	case ratio < 0.70:
		summary.Status = StatusComfortable
	case ratio < 0.90:
		summary.Status = StatusWatch
	case ratio < 1.0:
		summary.Status = StatusTight
	default:
		summary.Status = StatusExceeded
	}
	return summary, nil
}
