package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Imported statement transactions
CREATE TABLE IF NOT EXISTS transactions (
    id VARCHAR(64) NOT NULL,
    period VARCHAR(7) NOT NULL,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    amount NUMERIC(18,2) NOT NULL,
    currency VARCHAR(3) NOT NULL,
    installment_current INTEGER,
    installment_total INTEGER,
    card VARCHAR(100) DEFAULT '',
    category VARCHAR(100) DEFAULT '',
    notes TEXT DEFAULT '',
    adjusted_amount NUMERIC(18,2),
    manual BOOLEAN DEFAULT false,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    -- An installment purchase keeps one id across the statements it
    -- appears in, so the natural key includes the period.
    PRIMARY KEY (id, period)
);

-- Projected future installments
CREATE TABLE IF NOT EXISTS projections (
    origin_id VARCHAR(64) NOT NULL,
    period VARCHAR(7) NOT NULL,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    amount NUMERIC(18,2) NOT NULL,
    currency VARCHAR(3) NOT NULL,
    category VARCHAR(100) DEFAULT '',
    card VARCHAR(100) DEFAULT '',
    installment_current INTEGER NOT NULL,
    installment_total INTEGER NOT NULL,
    adjusted_amount NUMERIC(18,2),
    notes TEXT DEFAULT '',
    reconciled BOOLEAN DEFAULT false,
    created_at TIMESTAMPTZ DEFAULT NOW(),

    PRIMARY KEY (origin_id, period)
);

-- Manual expenses
CREATE TABLE IF NOT EXISTS manual_expenses (
    id UUID PRIMARY KEY,
    period VARCHAR(7) NOT NULL,
    date DATE NOT NULL,
    description TEXT NOT NULL,
    amount NUMERIC(18,2) NOT NULL,
    currency VARCHAR(3) NOT NULL,
    category VARCHAR(100) DEFAULT '',
    paid BOOLEAN DEFAULT false,
    recurring BOOLEAN DEFAULT false,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Salary overrides, effective from their period forward
CREATE TABLE IF NOT EXISTS salary_overrides (
    period VARCHAR(7) PRIMARY KEY,
    salary NUMERIC(18,2) NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_transactions_period ON transactions(period);
CREATE INDEX IF NOT EXISTS idx_projections_period ON projections(period);
CREATE INDEX IF NOT EXISTS idx_projections_pending ON projections(period) WHERE NOT reconciled;
CREATE INDEX IF NOT EXISTS idx_manual_expenses_period ON manual_expenses(period);
`

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
