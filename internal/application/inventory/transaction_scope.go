package inventory

import (
	"context"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger's
// repositories. Everything executed through a scope commits or rolls
// back as one unit; a failed movement must leave no partial balance
// changes behind.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories
// participating in a ledger transaction. All repositories returned
// share the same underlying database transaction.
type TransactionalRepositories interface {
	// StockRepo returns the stock repository scoped to the current transaction
	StockRepo() inventory.StockRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the fake repositories are plain maps.
type NoOpTransactionScope struct {
	stockRepo    inventory.StockRepository
	movementRepo inventory.MovementRepository
	productRepo  catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRepo inventory.StockRepository,
	movementRepo inventory.MovementRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
	}
}

// Execute runs the function directly against the configured repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository {
	return s.stockRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}
