// Package jsonstore persists the ledger as JSON files in a data
// directory, one file per collection.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
	"github.com/nmoretto/resumen/ledger"
)

const (
	transactionsFile = "transactions.json"
	projectionsFile  = "projections.json"
	expensesFile     = "expenses.json"
	salariesFile     = "salaries.json"
)

type Store struct {
	dir string
	mu  sync.Mutex
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// load reads a collection file into out. A missing file is an empty
// collection, not an error.
func (s *Store) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonstore: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("jsonstore: decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("jsonstore: write %s: %w", name, err)
	}
	return nil
}

func (s *Store) LoadTransactions() ([]common.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []common.Transaction
	if err := s.load(transactionsFile, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) SaveTransactions(txs []common.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(transactionsFile, txs)
}

func (s *Store) LoadProjections() ([]ledger.ProjectedInstallment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ps []ledger.ProjectedInstallment
	if err := s.load(projectionsFile, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *Store) SaveProjections(ps []ledger.ProjectedInstallment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(projectionsFile, ps)
}

func (s *Store) LoadManualExpenses() ([]ledger.ManualExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exps []ledger.ManualExpense
	if err := s.load(expensesFile, &exps); err != nil {
		return nil, err
	}
	return exps, nil
}

func (s *Store) SaveManualExpense(exp ledger.ManualExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exps []ledger.ManualExpense
	if err := s.load(expensesFile, &exps); err != nil {
		return err
	}
	replaced := false
	for i, e := range exps {
		if e.ID == exp.ID {
			exps[i] = exp
			replaced = true
			break
		}
	}
	if !replaced {
		exps = append(exps, exp)
	}
	return s.save(expensesFile, exps)
}

func (s *Store) LoadSalaryOverrides() (map[ledger.Period]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	salaries := map[ledger.Period]decimal.Decimal{}
	if err := s.load(salariesFile, &salaries); err != nil {
		return nil, err
	}
	return salaries, nil
}

func (s *Store) SaveSalaryOverride(period ledger.Period, salary decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	salaries := map[ledger.Period]decimal.Decimal{}
	if err := s.load(salariesFile, &salaries); err != nil {
		return err
	}
	salaries[period] = salary
	return s.save(salariesFile, salaries)
}
