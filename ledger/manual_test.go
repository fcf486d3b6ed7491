package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoretto/resumen/extractor/common"
)

func TestAddExpense_Single(t *testing.T) {
	store := newMemStore()
	instances, err := AddExpense(store, ManualExpense{
		Period:      "2025-03",
		Date:        time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Description: "Alquiler",
		Amount:      decimal.NewFromFloat(450000),
		Currency:    common.ARS,
	})
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.NotEmpty(t, instances[0].ID)

	stored, _ := store.LoadManualExpenses()
	assert.Len(t, stored, 1)
}

func TestAddExpense_RecurringFansOutThroughNextDecember(t *testing.T) {
	store := newMemStore()
	instances, err := AddExpense(store, ManualExpense{
		Period:      "2025-03",
		Date:        time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Description: "Gimnasio",
		Amount:      decimal.NewFromFloat(30000),
		Currency:    common.ARS,
		Recurring:   true,
	})
	require.NoError(t, err)

	// 2025-03 through 2026-12 inclusive.
	require.Len(t, instances, 22)
	assert.Equal(t, Period("2025-03"), instances[0].Period)
	assert.Equal(t, Period("2026-12"), instances[len(instances)-1].Period)

	ids := make(map[string]struct{})
	for _, inst := range instances {
		ids[inst.ID] = struct{}{}
	}
	assert.Len(t, ids, 22, "every instance gets its own ID")
}

func TestAddExpense_RecurringClampsDay(t *testing.T) {
	store := newMemStore()
	instances, err := AddExpense(store, ManualExpense{
		Period:      "2025-01",
		Date:        time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		Description: "Seguro",
		Amount:      decimal.NewFromFloat(20000),
		Currency:    common.ARS,
		Recurring:   true,
	})
	require.NoError(t, err)

	byPeriod := make(map[Period]ManualExpense, len(instances))
	for _, inst := range instances {
		byPeriod[inst.Period] = inst
	}
	assert.Equal(t, 28, byPeriod["2025-02"].Date.Day())
	assert.Equal(t, 31, byPeriod["2025-03"].Date.Day())
	assert.Equal(t, 30, byPeriod["2025-04"].Date.Day())
}

func TestAddExpense_InvalidPeriod(t *testing.T) {
	_, err := AddExpense(newMemStore(), ManualExpense{Period: "marzo"})
	assert.Error(t, err)
}
