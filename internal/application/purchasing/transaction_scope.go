package purchasing

import (
	"context"

	appinventory "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the purchasing
// repositories. Receiving an order writes the order, the stock rows,
// the ledger and the product cost in one transaction, so the scope
// exposes the ledger repositories as well.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories
// participating in a purchasing transaction
type TransactionalRepositories interface {
	appinventory.TransactionalRepositories
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() purchasing.PurchaseOrderRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() partner.SupplierRepository
}
