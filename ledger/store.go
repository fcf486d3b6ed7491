package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nmoretto/resumen/extractor/common"
)

// ErrNotFound is returned by mutations targeting an entry that does not
// exist in the store.
var ErrNotFound = errors.New("ledger: entry not found")

// Store is the persistence collaborator the engines operate through.
// Mutations follow a read-entire-collection, mutate, write-entire-
// collection pattern; each implementation must give a mutating caller
// exclusive access to the target collection for the duration of the
// read-modify-write.
type Store interface {
	LoadTransactions() ([]common.Transaction, error)
	SaveTransactions([]common.Transaction) error

	LoadProjections() ([]ProjectedInstallment, error)
	SaveProjections([]ProjectedInstallment) error

	LoadManualExpenses() ([]ManualExpense, error)
	SaveManualExpense(ManualExpense) error

	LoadSalaryOverrides() (map[Period]decimal.Decimal, error)
	SaveSalaryOverride(Period, decimal.Decimal) error
}
