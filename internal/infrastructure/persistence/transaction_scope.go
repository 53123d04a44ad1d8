package persistence

import (
	"context"

	appinventory "github.com/ims/backend/internal/application/inventory"
	apppurchasing "github.com/ims/backend/internal/application/purchasing"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger's TransactionScope
// using GORM transactions
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new ledger transaction scope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormPurchasingTransactionScope implements the purchasing
// TransactionScope using GORM transactions
type GormPurchasingTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchasingTransactionScope creates a new purchasing transaction scope
func NewGormPurchasingTransactionScope(db *gorm.DB) *GormPurchasingTransactionScope {
	return &GormPurchasingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPurchasingTransactionScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one
// transaction. It satisfies both the ledger and purchasing scopes.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the stock repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormTransactionalRepositories) OrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ apppurchasing.TransactionScope = (*GormPurchasingTransactionScope)(nil)
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ apppurchasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
