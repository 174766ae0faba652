package repository

// Repositories agrupa los puertos atados a una misma conexión o transacción.
type Repositories struct {
	Articles   ArticleRepository
	Movements  MovementRepository
	Receipts   ReceiptRepository
	Orders     PurchaseOrderRepository
	Suppliers  SupplierRepository
	Categories CategoryRepository
}
