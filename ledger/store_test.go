package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
)

// memStore is the in-memory Store used across the package tests.
type memStore struct {
	transactions []common.Transaction
	projections  []ProjectedInstallment
	expenses     []ManualExpense
	salaries     map[Period]decimal.Decimal
}

func newMemStore() *memStore {
	return &memStore{salaries: map[Period]decimal.Decimal{}}
}

func (m *memStore) LoadTransactions() ([]common.Transaction, error) {
	return append([]common.Transaction(nil), m.transactions...), nil
}

func (m *memStore) SaveTransactions(txs []common.Transaction) error {
	m.transactions = append([]common.Transaction(nil), txs...)
	return nil
}

func (m *memStore) LoadProjections() ([]ProjectedInstallment, error) {
	return append([]ProjectedInstallment(nil), m.projections...), nil
}

func (m *memStore) SaveProjections(ps []ProjectedInstallment) error {
	m.projections = append([]ProjectedInstallment(nil), ps...)
	return nil
}

func (m *memStore) LoadManualExpenses() ([]ManualExpense, error) {
	return append([]ManualExpense(nil), m.expenses...), nil
}

func (m *memStore) SaveManualExpense(exp ManualExpense) error {
	for i, e := range m.expenses {
		if e.ID == exp.ID {
			m.expenses[i] = exp
			return nil
		}
	}
	m.expenses = append(m.expenses, exp)
	return nil
}

func (m *memStore) LoadSalaryOverrides() (map[Period]decimal.Decimal, error) {
	out := make(map[Period]decimal.Decimal, len(m.salaries))
	for p, s := range m.salaries {
		out[p] = s
	}
	return out, nil
}

func (m *memStore) SaveSalaryOverride(period Period, salary decimal.Decimal) error {
	m.salaries[period] = salary
	return nil
}
