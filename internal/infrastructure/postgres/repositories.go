package postgres

import "github.com/jhoicas/stock-api/internal/domain/repository"

// NewRepositories arma todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Articles:   NewArticleRepository(q),
		Movements:  NewMovementRepository(q),
		Receipts:   NewReceiptRepository(q),
		Orders:     NewPurchaseOrderRepository(q),
		Suppliers:  NewSupplierRepository(q),
		Categories: NewCategoryRepository(q),
	}
}
