// Package postgres persists the ledger in PostgreSQL. Collections map to
// tables one to one; saves rewrite the collection inside a transaction so
// the stored state always matches what the ledger handed over.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
	"github.com/nmoretto/resumen/ledger"
)

// Store adapts a DB to the ledger.Store interface.
type Store struct {
	db  *DB
	ctx context.Context
}

// NewStore wraps a connected DB. The context bounds every query the
// ledger issues through the Store interface.
func NewStore(ctx context.Context, db *DB) *Store {
	return &Store{db: db, ctx: ctx}
}

func (s *Store) LoadTransactions() ([]common.Transaction, error) {
	rows, err := s.db.Pool.Query(s.ctx, `
		SELECT id, period, date, description, amount, currency,
		       installment_current, installment_total,
		       card, category, notes, adjusted_amount, manual
		FROM transactions
		ORDER BY period, date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var txs []common.Transaction
	for rows.Next() {
		var tx common.Transaction
		var current, total *int
		if err := rows.Scan(
			&tx.ID, &tx.Period, &tx.Date, &tx.Description, &tx.Amount, &tx.Currency,
			&current, &total,
			&tx.Card, &tx.Category, &tx.Notes, &tx.AdjustedAmount, &tx.Manual,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if current != nil && total != nil {
			tx.Installments = &common.InstallmentTag{Current: *current, Total: *total}
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *Store) SaveTransactions(txs []common.Transaction) error {
	return s.rewrite("transactions", func(batch *pgx.Batch) {
		for _, tx := range txs {
			var current, total *int
			if tx.Installments != nil {
				current, total = &tx.Installments.Current, &tx.Installments.Total
			}
			batch.Queue(`
				INSERT INTO transactions (
					id, period, date, description, amount, currency,
					installment_current, installment_total,
					card, category, notes, adjusted_amount, manual
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`, tx.ID, tx.Period, tx.Date, tx.Description, tx.Amount, tx.Currency,
				current, total, tx.Card, tx.Category, tx.Notes, tx.AdjustedAmount, tx.Manual)
		}
	})
}

func (s *Store) LoadProjections() ([]ledger.ProjectedInstallment, error) {
	rows, err := s.db.Pool.Query(s.ctx, `
		SELECT origin_id, period, date, description, amount, currency,
		       category, card, installment_current, installment_total,
		       adjusted_amount, notes, reconciled
		FROM projections
		ORDER BY period, origin_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load projections: %w", err)
	}
	defer rows.Close()

	var ps []ledger.ProjectedInstallment
	for rows.Next() {
		var p ledger.ProjectedInstallment
		if err := rows.Scan(
			&p.OriginID, &p.Period, &p.Date, &p.Description, &p.Amount, &p.Currency,
			&p.Category, &p.Card, &p.Installment.Current, &p.Installment.Total,
			&p.AdjustedAmount, &p.Notes, &p.Reconciled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		ps = append(ps, p)
	}
	return ps, rows.Err()
}

func (s *Store) SaveProjections(ps []ledger.ProjectedInstallment) error {
	return s.rewrite("projections", func(batch *pgx.Batch) {
		for _, p := range ps {
			batch.Queue(`
				INSERT INTO projections (
					origin_id, period, date, description, amount, currency,
					category, card, installment_current, installment_total,
					adjusted_amount, notes, reconciled
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			`, p.OriginID, p.Period, p.Date, p.Description, p.Amount, p.Currency,
				p.Category, p.Card, p.Installment.Current, p.Installment.Total,
				p.AdjustedAmount, p.Notes, p.Reconciled)
		}
	})
}

func (s *Store) LoadManualExpenses() ([]ledger.ManualExpense, error) {
	rows, err := s.db.Pool.Query(s.ctx, `
		SELECT id, period, date, description, amount, currency, category, paid, recurring
		FROM manual_expenses
		ORDER BY period, date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load manual expenses: %w", err)
	}
	defer rows.Close()

	var exps []ledger.ManualExpense
	for rows.Next() {
		var exp ledger.ManualExpense
		if err := rows.Scan(
			&exp.ID, &exp.Period, &exp.Date, &exp.Description,
			&exp.Amount, &exp.Currency, &exp.Category, &exp.Paid, &exp.Recurring,
		); err != nil {
			return nil, fmt.Errorf("failed to scan manual expense: %w", err)
		}
		exps = append(exps, exp)
	}
	return exps, rows.Err()
}

func (s *Store) SaveManualExpense(exp ledger.ManualExpense) error {
	_, err := s.db.Pool.Exec(s.ctx, `
		INSERT INTO manual_expenses (id, period, date, description, amount, currency, category, paid, recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			period = EXCLUDED.period,
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			category = EXCLUDED.category,
			paid = EXCLUDED.paid,
			recurring = EXCLUDED.recurring
	`, exp.ID, exp.Period, exp.Date, exp.Description, exp.Amount, exp.Currency,
		exp.Category, exp.Paid, exp.Recurring)
	if err != nil {
		return fmt.Errorf("failed to save manual expense: %w", err)
	}
	return nil
}

func (s *Store) LoadSalaryOverrides() (map[ledger.Period]decimal.Decimal, error) {
	rows, err := s.db.Pool.Query(s.ctx, `SELECT period, salary FROM salary_overrides`)
	if err != nil {
		return nil, fmt.Errorf("failed to load salary overrides: %w", err)
	}
	defer rows.Close()

	overrides := map[ledger.Period]decimal.Decimal{}
	for rows.Next() {
		var period ledger.Period
		var salary decimal.Decimal
		if err := rows.Scan(&period, &salary); err != nil {
			return nil, fmt.Errorf("failed to scan salary override: %w", err)
		}
		overrides[period] = salary
	}
	return overrides, rows.Err()
}

func (s *Store) SaveSalaryOverride(period ledger.Period, salary decimal.Decimal) error {
	_, err := s.db.Pool.Exec(s.ctx, `
		INSERT INTO salary_overrides (period, salary)
		VALUES ($1, $2)
		ON CONFLICT (period) DO UPDATE SET salary = EXCLUDED.salary
	`, period, salary)
	if err != nil {
		return fmt.Errorf("failed to save salary override: %w", err)
	}
	return nil
}

// rewrite replaces a table's contents in one transaction: delete all,
// then batch insert whatever enqueue queues.
func (s *Store) rewrite(table string, enqueue func(*pgx.Batch)) error {
	tx, err := s.db.Pool.Begin(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(s.ctx)

	if _, err := tx.Exec(s.ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	batch := &pgx.Batch{}
	enqueue(batch)
	if batch.Len() > 0 {
		br := tx.SendBatch(s.ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert into %s: %w", table, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to flush batch for %s: %w", table, err)
		}
	}

	if err := tx.Commit(s.ctx); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}
