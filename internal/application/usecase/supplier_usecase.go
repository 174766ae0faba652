package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// SupplierUseCase alta y consulta de proveedores. Los proveedores no se dan de baja.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, now: time.Now}
}

// Create da de alta un proveedor. El CUIT es único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	taxID := normalizeTaxID(in.TaxID)
	name := strings.TrimSpace(in.Name)
	if taxID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	term := entity.PaymentTerm(in.PaymentTerm)
	if term == "" {
		term = entity.PaymentTermCash
	}
	if !term.Valid() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateTaxID
	}
	now := uc.now()
	supplier := &entity.Supplier{
		TaxID:       taxID,
		Name:        name,
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		PaymentTerm: term,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrSupplierNotFound
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores ordenados por nombre.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// normalizeTaxID quita guiones, puntos y espacios: "20-12345678-3" y "20123456783" son el mismo CUIT.
func normalizeTaxID(s string) string {
	r := strings.NewReplacer("-", "", ".", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(s)))
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		TaxID:       s.TaxID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		PaymentTerm: string(s.PaymentTerm),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
