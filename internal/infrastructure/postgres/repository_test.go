package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

var articleCols = []string{
	"id", "code", "description", "unit_measure", "balance", "minimum", "location",
	"qr_value", "status", "category_id", "created_at", "updated_at", "retired_at",
}

type RepositorySuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	ctx  context.Context
	now  time.Time
}

func (s *RepositorySuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.mock.Close()
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

// anyArgs devuelve n comodines; pgxmock exige que la cantidad de argumentos coincida.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func (s *RepositorySuite) articleRow(id int64, code, balance, minimum, status string) []any {
	return []any{
		id, code, "Tornillo " + code, "unidad", balance, minimum, "Depósito A",
		code, status, (*int64)(nil), s.now, s.now, (*time.Time)(nil),
	}
}

func (s *RepositorySuite) TestArticleCreate_AssignsID() {
	repo := NewArticleRepository(s.mock)
	a := &entity.Article{
		Code: "A001", Description: "Tornillo", UnitMeasure: "unidad",
		Balance: decimal.Zero, Minimum: decimal.NewFromInt(5), QRValue: "A001",
		Status: entity.ArticleStatusActive, CreatedAt: s.now, UpdatedAt: s.now,
	}
	s.mock.ExpectQuery(`INSERT INTO articles`).
		WithArgs("A001", "Tornillo", "unidad", pgxmock.AnyArg(), pgxmock.AnyArg(), "", "A001", "ACTIVE", pgxmock.AnyArg(), s.now, s.now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	s.Require().NoError(repo.Create(s.ctx, a))
	s.Equal(int64(7), a.ID)
}

func (s *RepositorySuite) TestArticleCreate_DuplicateCode() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectQuery(`INSERT INTO articles`).
		WithArgs(anyArgs(11)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "articles_code_key"})

	err := repo.Create(s.ctx, &entity.Article{Code: "A001", Status: entity.ArticleStatusActive})
	s.ErrorIs(err, domain.ErrDuplicateCode)
}

func (s *RepositorySuite) TestArticleGetByIDForUpdate() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectQuery(`FROM articles WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(articleCols).AddRow(s.articleRow(1, "A001", "10.125", "2", "ACTIVE")...))

	a, err := repo.GetByIDForUpdate(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(a)
	s.Equal("A001", a.Code)
	s.True(a.Balance.Equal(decimal.RequireFromString("10.125")))
	s.Equal(entity.ArticleStatusActive, a.Status)
	s.Nil(a.CategoryID)
	s.Nil(a.RetiredAt)
}

func (s *RepositorySuite) TestArticleGetByQR_NotFound() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectQuery(`FROM articles WHERE qr_value = \$1`).
		WithArgs("ZZZ").
		WillReturnError(pgx.ErrNoRows)

	a, err := repo.GetByQR(s.ctx, "ZZZ")
	s.NoError(err)
	s.Nil(a)
}

func (s *RepositorySuite) TestArticleUpdate_NotFound() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectExec(`UPDATE articles SET code`).
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(s.ctx, &entity.Article{ID: 99, Status: entity.ArticleStatusRetired})
	s.ErrorIs(err, domain.ErrArticleNotFound)
}

func (s *RepositorySuite) TestArticleUpdateBalance() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectExec(`UPDATE articles SET balance = \$2`).
		WithArgs(int64(1), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	s.NoError(repo.UpdateBalance(s.ctx, 1, decimal.NewFromInt(6)))
}

func (s *RepositorySuite) TestArticleList_ActiveOnly() {
	repo := NewArticleRepository(s.mock)
	s.mock.ExpectQuery(`FROM articles WHERE \(\$1 OR status = 'ACTIVE'\) ORDER BY code`).
		WithArgs(false).
		WillReturnRows(pgxmock.NewRows(articleCols).
			AddRow(s.articleRow(1, "A001", "3", "5", "ACTIVE")...).
			AddRow(s.articleRow(2, "A002", "0", "0", "ACTIVE")...))

	list, err := repo.List(s.ctx, false)
	s.Require().NoError(err)
	s.Len(list, 2)
	s.Equal("A002", list[1].Code)
}

func (s *RepositorySuite) TestMovementCreate_AndListByArticle() {
	repo := NewMovementRepository(s.mock)
	m := &entity.Movement{
		TransactionID: "tx-1", ArticleID: 1, Kind: entity.MovementKindEgress,
		Quantity: decimal.NewFromInt(4), BalanceAfter: decimal.NewFromInt(6),
		Note: "consumo", Actor: "user-1", CreatedAt: s.now,
	}
	s.mock.ExpectQuery(`INSERT INTO stock_movements`).
		WithArgs("tx-1", int64(1), "EGRESS", pgxmock.AnyArg(), pgxmock.AnyArg(), "consumo", "user-1", s.now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	s.Require().NoError(repo.Create(s.ctx, m))
	s.Equal(int64(11), m.ID)

	cols := []string{"id", "transaction_id", "article_id", "kind", "quantity", "balance_after", "note", "actor", "created_at"}
	s.mock.ExpectQuery(`FROM stock_movements WHERE article_id = \$1 ORDER BY id DESC LIMIT \$2`).
		WithArgs(int64(1), 50).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(12), "tx-2", int64(1), "ADJUSTMENT", "-6", "0", "", "user-1", s.now).
			AddRow(int64(11), "tx-1", int64(1), "EGRESS", "4", "6", "consumo", "user-1", s.now))

	list, err := repo.ListByArticle(s.ctx, 1, 50)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(entity.MovementKindAdjustment, list[0].Kind)
	s.True(list[0].Quantity.Equal(decimal.NewFromInt(-6)))
	s.True(list[0].Effect().Equal(decimal.NewFromInt(-6)))
	s.True(list[1].Effect().Equal(decimal.NewFromInt(-4)))
}

func (s *RepositorySuite) TestMovementListByTransaction() {
	repo := NewMovementRepository(s.mock)
	cols := []string{"id", "transaction_id", "article_id", "kind", "quantity", "balance_after", "note", "actor", "created_at"}
	s.mock.ExpectQuery(`FROM stock_movements WHERE transaction_id = \$1 ORDER BY id`).
		WithArgs("tx-7").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(20), "tx-7", int64(1), "INGRESS", "5", "5", "OC #3", "user-1", s.now).
			AddRow(int64(21), "tx-7", int64(2), "INGRESS", "3", "3", "OC #3", "user-1", s.now))

	list, err := repo.ListByTransaction(s.ctx, "tx-7")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(int64(1), list[0].ArticleID)
	s.Equal(int64(2), list[1].ArticleID)
	s.Equal(entity.MovementKindIngress, list[1].Kind)
}

func (s *RepositorySuite) TestOrderNextSequence() {
	repo := NewPurchaseOrderRepository(s.mock)
	s.mock.ExpectQuery(`UPDATE purchase_order_counter SET last_value = last_value \+ 1`).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

	seq, err := repo.NextSequence(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(42), seq)
}

func (s *RepositorySuite) TestOrderCreate_WithItems() {
	repo := NewPurchaseOrderRepository(s.mock)
	o := &entity.PurchaseOrder{
		SequenceNumber: 3, SupplierID: 2, Status: entity.OrderStatusPending, CreatedAt: s.now, CreatedBy: "user-1",
		Items: []entity.PurchaseOrderItem{
			{ArticleID: 1, RequestedQuantity: decimal.NewFromInt(5)},
			{ArticleID: 2, RequestedQuantity: decimal.NewFromInt(3)},
		},
	}
	s.mock.ExpectQuery(`INSERT INTO purchase_orders`).
		WithArgs(int64(3), int64(2), "PENDING", "", s.now, pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	s.mock.ExpectQuery(`INSERT INTO purchase_order_items`).
		WithArgs(int64(10), int64(1), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
	s.mock.ExpectQuery(`INSERT INTO purchase_order_items`).
		WithArgs(int64(10), int64(2), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))

	s.Require().NoError(repo.Create(s.ctx, o))
	s.Equal(int64(10), o.ID)
	s.Equal(int64(10), o.Items[1].OrderID)
	s.Equal(int64(101), o.Items[1].ID)
}

func (s *RepositorySuite) TestOrderCreate_DuplicateSequence() {
	repo := NewPurchaseOrderRepository(s.mock)
	s.mock.ExpectQuery(`INSERT INTO purchase_orders`).
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "purchase_orders_sequence_number_key"})

	err := repo.Create(s.ctx, &entity.PurchaseOrder{SequenceNumber: 1, Status: entity.OrderStatusPending})
	s.ErrorIs(err, domain.ErrDuplicate)
}

func (s *RepositorySuite) TestOrderList_LoadsItems() {
	repo := NewPurchaseOrderRepository(s.mock)
	orderCols := []string{"id", "sequence_number", "supplier_id", "status", "note", "created_at", "received_at", "created_by"}
	s.mock.ExpectQuery(`FROM purchase_orders`).
		WithArgs("PENDING", 20, 0).
		WillReturnRows(pgxmock.NewRows(orderCols).
			AddRow(int64(5), int64(2), int64(1), "PENDING", "", s.now, (*time.Time)(nil), "u").
			AddRow(int64(4), int64(1), int64(1), "PENDING", "urgente", s.now, (*time.Time)(nil), "u"))
	s.mock.ExpectQuery(`FROM purchase_order_items WHERE order_id = ANY\(\$1\)`).
		WithArgs([]int64{5, 4}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "article_id", "requested_quantity"}).
			AddRow(int64(1), int64(4), int64(1), "5").
			AddRow(int64(2), int64(5), int64(2), "1.5"))

	list, err := repo.List(s.ctx, entity.OrderStatusPending, 20, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(int64(2), list[0].SequenceNumber)
	s.Require().Len(list[0].Items, 1)
	s.True(list[0].Items[0].RequestedQuantity.Equal(decimal.RequireFromString("1.5")))
	s.Equal("urgente", list[1].Note)
	s.Len(list[1].Items, 1)
}

func (s *RepositorySuite) TestOrderDelete_NotFound() {
	repo := NewPurchaseOrderRepository(s.mock)
	s.mock.ExpectExec(`DELETE FROM purchase_orders WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	s.ErrorIs(repo.Delete(s.ctx, 8), domain.ErrOrderNotFound)
}

func (s *RepositorySuite) TestReceiptGetByIDForUpdate_WithItems() {
	repo := NewReceiptRepository(s.mock)
	orderID := int64(9)
	s.mock.ExpectQuery(`FROM receipts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "supplier_name", "document_number", "status", "purchase_order_id", "created_at", "confirmed_at", "created_by"}).
			AddRow(int64(3), "Ferretería Sur", "OC-1", "CONFIRMED", &orderID, s.now, &s.now, "u"))
	s.mock.ExpectQuery(`FROM receipt_items WHERE receipt_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "receipt_id", "article_id", "quantity", "scanned_code"}).
			AddRow(int64(1), int64(3), int64(1), "5", "A001").
			AddRow(int64(2), int64(3), int64(2), "3", "A002"))

	r, err := repo.GetByIDForUpdate(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().NotNil(r)
	s.True(r.IsConfirmed())
	s.Require().NotNil(r.PurchaseOrderID)
	s.Equal(int64(9), *r.PurchaseOrderID)
	s.Len(r.Items, 2)
}

func (s *RepositorySuite) TestReceiptConfirm_AlreadyConfirmed() {
	repo := NewReceiptRepository(s.mock)
	s.mock.ExpectExec(`UPDATE receipts SET status = 'CONFIRMED'`).
		WithArgs(int64(3), s.now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	s.ErrorIs(repo.Confirm(s.ctx, 3, s.now), domain.ErrReceiptAlreadyConfirmed)
}

func (s *RepositorySuite) TestSupplierCreate_DuplicateTaxID() {
	repo := NewSupplierRepository(s.mock)
	s.mock.ExpectQuery(`INSERT INTO suppliers`).
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "suppliers_tax_id_key"})

	err := repo.Create(s.ctx, &entity.Supplier{TaxID: "30712345678", Name: "Sur", PaymentTerm: entity.PaymentTermCash})
	s.ErrorIs(err, domain.ErrDuplicateTaxID)
}

func (s *RepositorySuite) TestCategoryGetByID_Inactive() {
	repo := NewCategoryRepository(s.mock)
	s.mock.ExpectQuery(`FROM categories WHERE id = \$1 AND active`).
		WithArgs(int64(4)).
		WillReturnError(pgx.ErrNoRows)

	c, err := repo.GetByID(s.ctx, 4)
	s.NoError(err)
	s.Nil(c)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/stock?sslmode=disable", migrateURL("postgres://u:p@db:5432/stock?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/stock", migrateURL("postgresql://u@db/stock"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")
}
