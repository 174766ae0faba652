package receiving_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/application/purchasing"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-api/pkg/logger"
)

var fixedNow = time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type ReceivingSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	articles  *inventory.ArticleUseCase
	orders    *purchasing.UseCase
	receiving *receiving.UseCase
	supplier  *entity.Supplier
}

func (s *ReceivingSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	now := func() time.Time { return fixedNow }
	repos := s.store.Repositories()
	ledger := inventory.NewLedgerUseCase(s.store, now, logger.Nop())
	s.articles = inventory.NewArticleUseCase(s.store, repos, ledger, now, logger.Nop())
	s.orders = purchasing.NewUseCase(s.store, repos, now, logger.Nop())
	s.receiving = receiving.NewUseCase(s.store, repos, ledger, now, logger.Nop())

	s.supplier = &entity.Supplier{TaxID: "30712345678", Name: "Distribuidora Sur", PaymentTerm: entity.PaymentTermNet30}
	s.Require().NoError(repos.Suppliers.Create(s.ctx, s.supplier))
}

func (s *ReceivingSuite) register(code, qr, balance string) *entity.Article {
	a, err := s.articles.Register(s.ctx, inventory.RegisterArticleInput{Code: code, QRValue: qr, Description: code, InitialBalance: dec(balance)})
	s.Require().NoError(err)
	return a
}

func (s *ReceivingSuite) balance(id int64) string {
	a, err := s.articles.Get(s.ctx, id)
	s.Require().NoError(err)
	return a.Balance.String()
}

func (s *ReceivingSuite) movementCount(id int64) int {
	movs, err := s.articles.Movements(s.ctx, id, 500)
	s.Require().NoError(err)
	return len(movs)
}

func (s *ReceivingSuite) TestReceiveByScan() {
	a := s.register("A001", "QR-A001", "2")

	r, err := s.receiving.ReceiveByScan(s.ctx, receiving.ScanReceiptInput{
		SupplierName: "Distribuidora Sur", DocumentNumber: "R-0001-00001234",
		ScannedCode: "QR-A001", Quantity: dec("3.5"), Actor: "op1",
	})
	s.Require().NoError(err)
	s.Equal(entity.ReceiptStatusConfirmed, r.Status)
	s.Require().NotNil(r.ConfirmedAt)
	s.Require().Len(r.Items, 1)
	s.Equal(a.ID, r.Items[0].ArticleID)
	s.Equal("5.5", s.balance(a.ID))

	movs, err := s.articles.Movements(s.ctx, a.ID, 1)
	s.Require().NoError(err)
	s.Equal("Recepción #1 - R-0001-00001234", movs[0].Note)
	s.Equal("op1", movs[0].Actor)

	stored, err := s.receiving.Get(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Len(stored.Items, 1)
}

func (s *ReceivingSuite) TestReceiveByScan_Validaciones() {
	s.register("A001", "QR-A001", "0")

	_, err := s.receiving.ReceiveByScan(s.ctx, receiving.ScanReceiptInput{ScannedCode: "QR-A001", Quantity: dec("1")})
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.receiving.ReceiveByScan(s.ctx, receiving.ScanReceiptInput{SupplierName: "X", ScannedCode: "QR-A001", Quantity: dec("0")})
	s.ErrorIs(err, domain.ErrInvalidQuantity)

	_, err = s.receiving.ReceiveByScan(s.ctx, receiving.ScanReceiptInput{SupplierName: "X", ScannedCode: "QR-NADA", Quantity: dec("1")})
	s.ErrorIs(err, domain.ErrArticleNotFound)

	// nada quedó persistido por los intentos fallidos
	_, err = s.receiving.Get(s.ctx, 1)
	s.ErrorIs(err, domain.ErrReceiptNotFound)
}

func (s *ReceivingSuite) TestEscenarioOrdenDeCompra() {
	a1 := s.register("A001", "QR-A001", "10")
	a2 := s.register("A002", "QR-A002", "1")

	order, err := s.orders.Create(s.ctx, purchasing.CreateOrderInput{
		SupplierID: s.supplier.ID,
		Items: []purchasing.OrderLine{
			{ArticleID: a1.ID, Quantity: dec("5")},
			{ArticleID: a2.ID, Quantity: dec("3")},
		},
		Actor: "compras",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), order.SequenceNumber)
	s.Equal(entity.OrderStatusPending, order.Status)

	out, err := s.receiving.ReceiveOrder(s.ctx, order.ID, "deposito")
	s.Require().NoError(err)
	s.Equal(entity.OrderStatusReceived, out.Order.Status)
	s.Require().NotNil(out.Order.ReceivedAt)
	s.Equal("OC-1", out.Receipt.DocumentNumber)
	s.Equal("Distribuidora Sur", out.Receipt.SupplierName)
	s.Require().Len(out.Receipt.Items, 2)
	s.Equal(fixedNow, *out.Receipt.ConfirmedAt)

	s.Equal("15", s.balance(a1.ID))
	s.Equal("4", s.balance(a2.ID))

	movs, err := s.articles.Movements(s.ctx, a1.ID, 1)
	s.Require().NoError(err)
	s.Equal(entity.MovementKindIngress, movs[0].Kind)
	s.Equal("OC #1", movs[0].Note)
	movs2, err := s.articles.Movements(s.ctx, a2.ID, 1)
	s.Require().NoError(err)
	s.Equal(movs[0].TransactionID, movs2[0].TransactionID)

	stored, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(entity.OrderStatusReceived, stored.Status)
}

func (s *ReceivingSuite) TestReceiveOrder_DosVecesEsAlreadyReceived() {
	a := s.register("A001", "QR-A001", "0")
	order, err := s.orders.Create(s.ctx, purchasing.CreateOrderInput{
		SupplierID: s.supplier.ID,
		Items:      []purchasing.OrderLine{{ArticleID: a.ID, Quantity: dec("2")}},
	})
	s.Require().NoError(err)

	_, err = s.receiving.ReceiveOrder(s.ctx, order.ID, "x")
	s.Require().NoError(err)
	before := s.movementCount(a.ID)

	out, err := s.receiving.ReceiveOrder(s.ctx, order.ID, "x")
	s.ErrorIs(err, domain.ErrAlreadyReceived)
	s.Require().NotNil(out)
	s.Equal(order.ID, out.Order.ID)
	s.Nil(out.Receipt)
	s.Equal("2", s.balance(a.ID))
	s.Equal(before, s.movementCount(a.ID))

	// la segunda llamada no creó otra recepción
	_, err = s.receiving.Get(s.ctx, 2)
	s.ErrorIs(err, domain.ErrReceiptNotFound)
}

func (s *ReceivingSuite) TestReceiveOrder_FallaUnItemNoQuedaNada() {
	a1 := s.register("A001", "QR-A001", "0")
	a2 := s.register("A002", "QR-A002", "0")
	order, err := s.orders.Create(s.ctx, purchasing.CreateOrderInput{
		SupplierID: s.supplier.ID,
		Items: []purchasing.OrderLine{
			{ArticleID: a1.ID, Quantity: dec("5")},
			{ArticleID: a2.ID, Quantity: dec("3")},
		},
	})
	s.Require().NoError(err)

	// A002 se da de baja después de crear la orden
	_, err = s.articles.Retire(s.ctx, a2.ID, "jefe", "")
	s.Require().NoError(err)

	_, err = s.receiving.ReceiveOrder(s.ctx, order.ID, "deposito")
	s.ErrorIs(err, domain.ErrArticleRetired)

	s.Equal("0", s.balance(a1.ID))
	s.Equal(0, s.movementCount(a1.ID))
	stored, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(entity.OrderStatusPending, stored.Status)
}

func (s *ReceivingSuite) TestReceiveOrder_Inexistente() {
	_, err := s.receiving.ReceiveOrder(s.ctx, 42, "x")
	s.ErrorIs(err, domain.ErrOrderNotFound)
}

func (s *ReceivingSuite) TestBorrador() {
	a := s.register("A001", "QR-A001", "1")
	b := s.register("B001", "QR-B001", "0")

	draft, err := s.receiving.CreateDraft(s.ctx, receiving.DraftInput{SupplierName: "Sur", DocumentNumber: "R-99", Actor: "op"})
	s.Require().NoError(err)
	s.Equal(entity.ReceiptStatusDraft, draft.Status)

	_, err = s.receiving.ConfirmDraft(s.ctx, draft.ID, "op")
	s.ErrorIs(err, domain.ErrEmptyReceipt)

	_, err = s.receiving.AddDraftItem(s.ctx, draft.ID, "QR-A001", dec("2"))
	s.Require().NoError(err)
	_, err = s.receiving.AddDraftItem(s.ctx, draft.ID, "QR-A001", dec("1"))
	s.Require().NoError(err)
	r, err := s.receiving.AddDraftItem(s.ctx, draft.ID, "QR-B001", dec("4"))
	s.Require().NoError(err)
	s.Len(r.Items, 3)

	_, err = s.receiving.AddDraftItem(s.ctx, draft.ID, "QR-B001", dec("-1"))
	s.ErrorIs(err, domain.ErrInvalidQuantity)

	// el borrador no mueve stock
	s.Equal("1", s.balance(a.ID))

	confirmed, err := s.receiving.ConfirmDraft(s.ctx, draft.ID, "op")
	s.Require().NoError(err)
	s.Equal(entity.ReceiptStatusConfirmed, confirmed.Status)
	s.Equal("4", s.balance(a.ID))
	s.Equal("4", s.balance(b.ID))

	_, err = s.receiving.ConfirmDraft(s.ctx, draft.ID, "op")
	s.ErrorIs(err, domain.ErrReceiptAlreadyConfirmed)
	_, err = s.receiving.AddDraftItem(s.ctx, draft.ID, "QR-A001", dec("1"))
	s.ErrorIs(err, domain.ErrReceiptAlreadyConfirmed)
}

func TestReceivingSuite(t *testing.T) {
	suite.Run(t, new(ReceivingSuite))
}
