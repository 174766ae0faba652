package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/application/purchasing"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/application/usecase"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Articles      *inventory.ArticleUseCase
	Ledger        *inventory.LedgerUseCase
	Labels        *inventory.LabelUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Receiving     *receiving.UseCase
	ReceiptPDF    *receiving.PDFUseCase
	Purchasing    *purchasing.UseCase
	Suppliers     *usecase.SupplierUseCase
	Verifier      TokenVerifier
	Log           *logger.Logger
}

// NewApp crea la app Fiber con recover, manejo de errores uniforme y /health.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    1 << 20,
		ErrorHandler: fiberErrorHandler(log),
	})
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	return app
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	// Artículos. Las rutas fijas van antes de /:id.
	articles := api.Group("/articles")
	articleHandler := NewArticleHandler(deps.Articles, deps.Labels, deps.Replenishment, log)
	articles.Post("/", articleHandler.Create)
	articles.Get("/", articleHandler.List)
	articles.Get("/below-minimum", articleHandler.BelowMinimum)
	articles.Get("/scan/:code", articleHandler.Scan)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Put("/:id", articleHandler.Update)
	articles.Post("/:id/retire", articleHandler.Retire)
	articles.Get("/:id/movements", articleHandler.Movements)
	articles.Get("/:id/label.pdf", articleHandler.Label)

	// Movimientos del libro
	movementHandler := NewMovementHandler(deps.Ledger, deps.Articles, log)
	api.Post("/movements", movementHandler.RegisterMovement)
	api.Get("/movements/transactions/:transaction_id", movementHandler.ByTransaction)

	// Recepciones
	receipts := api.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.Receiving, deps.ReceiptPDF, log)
	receipts.Post("/scan", receiptHandler.ReceiveByScan)
	receipts.Post("/", receiptHandler.CreateDraft)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Post("/:id/items", receiptHandler.AddItem)
	receipts.Post("/:id/confirm", receiptHandler.Confirm)
	receipts.Get("/:id/pdf", receiptHandler.DownloadPDF)

	// Órdenes de compra
	orders := api.Group("/purchase-orders")
	orderHandler := NewPurchaseOrderHandler(deps.Purchasing, deps.Receiving, log)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/receive", orderHandler.Receive)
	orders.Delete("/:id", orderHandler.Delete)

	// Proveedores
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.Suppliers, log)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
}
