// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests de casos de uso y con STORE_DRIVER=memory para desarrollo local.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// Store guarda todo el estado detrás de un mutex. Run serializa transacciones completas:
// trabaja sobre una copia y solo la publica si fn no devuelve error.
type Store struct {
	mu   sync.Mutex
	data *state
}

type state struct {
	articles     map[int64]*entity.Article
	movements    []*entity.Movement
	receipts     map[int64]*entity.Receipt // sin Items
	receiptItems []entity.ReceiptItem
	orders       map[int64]*entity.PurchaseOrder
	suppliers    map[int64]*entity.Supplier
	categories   map[int64]*entity.Category

	orderCounter int64
	lastID       ids
}

type ids struct {
	article, movement, receipt, receiptItem, order, orderItem, supplier, category int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func newState() *state {
	return &state{
		articles:   make(map[int64]*entity.Article),
		receipts:   make(map[int64]*entity.Receipt),
		orders:     make(map[int64]*entity.PurchaseOrder),
		suppliers:  make(map[int64]*entity.Supplier),
		categories: make(map[int64]*entity.Category),
	}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, bind(s, work)); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Repositories devuelve repositorios fuera de transacción; cada llamada toma el mutex.
func (s *Store) Repositories() repository.Repositories {
	return bind(s, nil)
}

// AddCategory registra una categoría (el ABM de categorías no es parte del servicio).
func (s *Store) AddCategory(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.lastID.category++
	id := s.data.lastID.category
	s.data.categories[id] = &entity.Category{ID: id, Name: name, Active: true}
	return id
}

func (st *state) clone() *state {
	c := newState()
	for id, a := range st.articles {
		c.articles[id] = cloneArticle(a)
	}
	c.movements = make([]*entity.Movement, len(st.movements))
	for i, m := range st.movements {
		mm := *m
		c.movements[i] = &mm
	}
	for id, r := range st.receipts {
		c.receipts[id] = cloneReceipt(r)
	}
	c.receiptItems = append([]entity.ReceiptItem(nil), st.receiptItems...)
	for id, o := range st.orders {
		c.orders[id] = cloneOrder(o)
	}
	for id, sp := range st.suppliers {
		ss := *sp
		c.suppliers[id] = &ss
	}
	for id, cat := range st.categories {
		cc := *cat
		c.categories[id] = &cc
	}
	c.orderCounter = st.orderCounter
	c.lastID = st.lastID
	return c
}

func cloneArticle(a *entity.Article) *entity.Article {
	c := *a
	if a.CategoryID != nil {
		id := *a.CategoryID
		c.CategoryID = &id
	}
	if a.RetiredAt != nil {
		t := *a.RetiredAt
		c.RetiredAt = &t
	}
	return &c
}

func cloneReceipt(r *entity.Receipt) *entity.Receipt {
	c := *r
	if r.PurchaseOrderID != nil {
		id := *r.PurchaseOrderID
		c.PurchaseOrderID = &id
	}
	if r.ConfirmedAt != nil {
		t := *r.ConfirmedAt
		c.ConfirmedAt = &t
	}
	c.Items = append([]entity.ReceiptItem(nil), r.Items...)
	return &c
}

func cloneOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	if o.ReceivedAt != nil {
		t := *o.ReceivedAt
		c.ReceivedAt = &t
	}
	c.Items = append([]entity.PurchaseOrderItem(nil), o.Items...)
	return &c
}
