package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// view da acceso al estado: el de la transacción en curso (tx) o el publicado, bajo mutex.
type view struct {
	s  *Store
	tx *state
}

func (v view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

func bind(s *Store, tx *state) repository.Repositories {
	v := view{s: s, tx: tx}
	return repository.Repositories{
		Articles:   &articleRepo{v},
		Movements:  &movementRepo{v},
		Receipts:   &receiptRepo{v},
		Orders:     &orderRepo{v},
		Suppliers:  &supplierRepo{v},
		Categories: &categoryRepo{v},
	}
}

// ─── Articles ────────────────────────────────────────────────────────────────

type articleRepo struct{ v view }

func (r *articleRepo) Create(_ context.Context, a *entity.Article) error {
	return r.v.with(func(st *state) error {
		if err := st.checkArticleUnique(0, a.Code, a.QRValue); err != nil {
			return err
		}
		st.lastID.article++
		a.ID = st.lastID.article
		st.articles[a.ID] = cloneArticle(a)
		return nil
	})
}

func (st *state) checkArticleUnique(selfID int64, code, qr string) error {
	for _, other := range st.articles {
		if other.ID == selfID {
			continue
		}
		if other.Code == code {
			return domain.ErrDuplicateCode
		}
		if other.QRValue == qr {
			return domain.ErrDuplicateQR
		}
	}
	return nil
}

func (r *articleRepo) GetByID(_ context.Context, id int64) (*entity.Article, error) {
	var out *entity.Article
	err := r.v.with(func(st *state) error {
		if a, ok := st.articles[id]; ok {
			out = cloneArticle(a)
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate no necesita bloqueo de fila: Run ya serializa la transacción completa.
func (r *articleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *articleRepo) GetByCode(_ context.Context, code string) (*entity.Article, error) {
	return r.find(func(a *entity.Article) bool { return a.Code == code })
}

func (r *articleRepo) GetByQR(_ context.Context, qr string) (*entity.Article, error) {
	return r.find(func(a *entity.Article) bool { return a.QRValue == qr })
}

func (r *articleRepo) find(match func(*entity.Article) bool) (*entity.Article, error) {
	var out *entity.Article
	err := r.v.with(func(st *state) error {
		for _, a := range st.articles {
			if match(a) {
				out = cloneArticle(a)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *articleRepo) Update(_ context.Context, a *entity.Article) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.articles[a.ID]
		if !ok {
			return domain.ErrArticleNotFound
		}
		if err := st.checkArticleUnique(a.ID, a.Code, a.QRValue); err != nil {
			return err
		}
		next := cloneArticle(a)
		next.Balance = cur.Balance
		st.articles[a.ID] = next
		return nil
	})
}

func (r *articleRepo) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	return r.v.with(func(st *state) error {
		a, ok := st.articles[id]
		if !ok {
			return domain.ErrArticleNotFound
		}
		a.Balance = balance
		return nil
	})
}

func (r *articleRepo) List(_ context.Context, includeRetired bool) ([]*entity.Article, error) {
	return r.list(func(a *entity.Article) bool { return includeRetired || a.IsActive() })
}

func (r *articleRepo) ListBelowMinimum(_ context.Context) ([]*entity.Article, error) {
	return r.list(func(a *entity.Article) bool { return a.IsActive() && a.BelowMinimum() })
}

func (r *articleRepo) list(keep func(*entity.Article) bool) ([]*entity.Article, error) {
	out := []*entity.Article{}
	err := r.v.with(func(st *state) error {
		for _, a := range st.articles {
			if keep(a) {
				out = append(out, cloneArticle(a))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

// ─── Movements ───────────────────────────────────────────────────────────────

type movementRepo struct{ v view }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.articles[m.ArticleID]; !ok {
			return domain.ErrArticleNotFound
		}
		st.lastID.movement++
		m.ID = st.lastID.movement
		mm := *m
		st.movements = append(st.movements, &mm)
		return nil
	})
}

func (r *movementRepo) ListByArticle(_ context.Context, articleID int64, limit int) ([]*entity.Movement, error) {
	out := []*entity.Movement{}
	err := r.v.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if limit > 0 && len(out) == limit {
				break
			}
			if m := st.movements[i]; m.ArticleID == articleID {
				mm := *m
				out = append(out, &mm)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.Movement, error) {
	out := []*entity.Movement{}
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.TransactionID == transactionID {
				mm := *m
				out = append(out, &mm)
			}
		}
		return nil
	})
	return out, err
}

// ─── Receipts ────────────────────────────────────────────────────────────────

type receiptRepo struct{ v view }

func (r *receiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	return r.v.with(func(st *state) error {
		st.lastID.receipt++
		rc.ID = st.lastID.receipt
		h := cloneReceipt(rc)
		h.Items = nil
		st.receipts[rc.ID] = h
		return nil
	})
}

func (r *receiptRepo) AddItem(_ context.Context, it *entity.ReceiptItem) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.receipts[it.ReceiptID]; !ok {
			return domain.ErrReceiptNotFound
		}
		if _, ok := st.articles[it.ArticleID]; !ok {
			return domain.ErrArticleNotFound
		}
		st.lastID.receiptItem++
		it.ID = st.lastID.receiptItem
		st.receiptItems = append(st.receiptItems, *it)
		return nil
	})
}

func (r *receiptRepo) GetByID(_ context.Context, id int64) (*entity.Receipt, error) {
	var out *entity.Receipt
	err := r.v.with(func(st *state) error {
		h, ok := st.receipts[id]
		if !ok {
			return nil
		}
		out = cloneReceipt(h)
		for _, it := range st.receiptItems {
			if it.ReceiptID == id {
				out.Items = append(out.Items, it)
			}
		}
		return nil
	})
	return out, err
}

func (r *receiptRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.GetByID(ctx, id)
}

func (r *receiptRepo) Confirm(_ context.Context, id int64, confirmedAt time.Time) error {
	return r.v.with(func(st *state) error {
		h, ok := st.receipts[id]
		if !ok {
			return domain.ErrReceiptNotFound
		}
		h.Status = entity.ReceiptStatusConfirmed
		h.ConfirmedAt = &confirmedAt
		return nil
	})
}

// ─── Purchase orders ─────────────────────────────────────────────────────────

type orderRepo struct{ v view }

func (r *orderRepo) NextSequence(_ context.Context) (int64, error) {
	var seq int64
	err := r.v.with(func(st *state) error {
		st.orderCounter++
		seq = st.orderCounter
		return nil
	})
	return seq, err
}

func (r *orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.v.with(func(st *state) error {
		for _, other := range st.orders {
			if other.SequenceNumber == o.SequenceNumber {
				return domain.ErrDuplicate
			}
		}
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return domain.ErrSupplierNotFound
		}
		st.lastID.order++
		o.ID = st.lastID.order
		for i := range o.Items {
			st.lastID.orderItem++
			o.Items[i].ID = st.lastID.orderItem
			o.Items[i].OrderID = o.ID
		}
		st.orders[o.ID] = cloneOrder(o)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.v.with(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = cloneOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) MarkReceived(_ context.Context, id int64, receivedAt time.Time) error {
	return r.v.with(func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		o.Status = entity.OrderStatusReceived
		o.ReceivedAt = &receivedAt
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id int64) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrOrderNotFound
		}
		delete(st.orders, id)
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	all := []*entity.PurchaseOrder{}
	err := r.v.with(func(st *state) error {
		for _, o := range st.orders {
			if status == "" || o.Status == status {
				all = append(all, cloneOrder(o))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SequenceNumber > all[j].SequenceNumber })
	return page(all, limit, offset), nil
}

// ─── Suppliers ───────────────────────────────────────────────────────────────

type supplierRepo struct{ v view }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.with(func(st *state) error {
		for _, other := range st.suppliers {
			if other.TaxID == s.TaxID {
				return domain.ErrDuplicateTaxID
			}
		}
		st.lastID.supplier++
		s.ID = st.lastID.supplier
		ss := *s
		st.suppliers[s.ID] = &ss
		return nil
	})
}

func (r *supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	return r.find(func(s *entity.Supplier) bool { return s.ID == id })
}

func (r *supplierRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Supplier, error) {
	return r.find(func(s *entity.Supplier) bool { return s.TaxID == taxID })
}

func (r *supplierRepo) find(match func(*entity.Supplier) bool) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.with(func(st *state) error {
		for _, s := range st.suppliers {
			if match(s) {
				ss := *s
				out = &ss
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	all := []*entity.Supplier{}
	err := r.v.with(func(st *state) error {
		for _, s := range st.suppliers {
			ss := *s
			all = append(all, &ss)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

// ─── Categories ──────────────────────────────────────────────────────────────

type categoryRepo struct{ v view }

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.with(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			cc := *c
			out = &cc
		}
		return nil
	})
	return out, err
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return all[:0]
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
