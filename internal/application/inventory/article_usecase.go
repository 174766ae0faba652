package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// Límites del historial de movimientos por artículo.
const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500
)

// ArticleUseCase ABM del registro de artículos. El saldo solo cambia vía LedgerUseCase.
type ArticleUseCase struct {
	txRunner TxRunner
	repos    repository.Repositories
	ledger   *LedgerUseCase
	clock    Clock
	log      *logger.Logger
}

// NewArticleUseCase construye el caso de uso. repos son los repositorios de lectura (fuera de tx).
func NewArticleUseCase(txRunner TxRunner, repos repository.Repositories, ledger *LedgerUseCase, clock Clock, log *logger.Logger) *ArticleUseCase {
	return &ArticleUseCase{txRunner: txRunner, repos: repos, ledger: ledger, clock: clock, log: log.Named("articles")}
}

// RegisterArticleInput alta de artículo. InitialBalance > 0 se registra como INGRESS "Saldo inicial".
type RegisterArticleInput struct {
	Code           string
	Description    string
	UnitMeasure    string
	Minimum        decimal.Decimal
	InitialBalance decimal.Decimal
	Location       string
	QRValue        string
	CategoryID     *int64
	Actor          string
}

// UpdateArticleInput cambios parciales; nil = sin cambio. Código y saldo no se editan.
type UpdateArticleInput struct {
	Description   *string
	UnitMeasure   *string
	Minimum       *decimal.Decimal
	Location      *string
	QRValue       *string
	CategoryID    *int64
	ClearCategory bool
}

// Register da de alta un artículo activo. Si no se indica QR se usa el código.
func (uc *ArticleUseCase) Register(ctx context.Context, in RegisterArticleInput) (*entity.Article, error) {
	code := NormalizeCode(in.Code)
	desc := strings.TrimSpace(in.Description)
	if code == "" || desc == "" {
		return nil, fmt.Errorf("%w: código y descripción son obligatorios", domain.ErrInvalidInput)
	}
	if in.Minimum.IsNegative() || in.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	qr := NormalizeCode(in.QRValue)
	if qr == "" {
		qr = code
	}
	unit := strings.TrimSpace(in.UnitMeasure)
	if unit == "" {
		unit = entity.DefaultUnitMeasure
	}
	now := uc.clock.now()
	article := &entity.Article{
		Code:        code,
		Description: desc,
		UnitMeasure: unit,
		Balance:     decimal.Zero,
		Minimum:     in.Minimum,
		Location:    strings.TrimSpace(in.Location),
		QRValue:     qr,
		Status:      entity.ArticleStatusActive,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := checkCategory(ctx, repos.Categories, in.CategoryID); err != nil {
			return err
		}
		if err := checkIdentifiersFree(ctx, repos.Articles, 0, code, qr); err != nil {
			return err
		}
		if err := repos.Articles.Create(ctx, article); err != nil {
			return err
		}
		if !in.InitialBalance.IsPositive() {
			return nil
		}
		_, err := uc.ledger.ApplyInTx(ctx, repos, article, Posting{
			Kind:          entity.MovementKindIngress,
			Quantity:      in.InitialBalance,
			Note:          "Saldo inicial",
			Actor:         in.Actor,
			TransactionID: uuid.New().String(),
			At:            now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("article_id", article.ID).Str("code", article.Code).Msg("artículo registrado")
	return article, nil
}

// Update modifica datos descriptivos de un artículo activo.
func (uc *ArticleUseCase) Update(ctx context.Context, id int64, in UpdateArticleInput) (*entity.Article, error) {
	var article *entity.Article
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		a, err := repos.Articles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrArticleNotFound
		}
		if !a.IsActive() {
			return domain.ErrArticleRetired
		}
		if in.Description != nil {
			d := strings.TrimSpace(*in.Description)
			if d == "" {
				return fmt.Errorf("%w: la descripción no puede quedar vacía", domain.ErrInvalidInput)
			}
			a.Description = d
		}
		if in.UnitMeasure != nil {
			if u := strings.TrimSpace(*in.UnitMeasure); u != "" {
				a.UnitMeasure = u
			}
		}
		if in.Minimum != nil {
			if in.Minimum.IsNegative() {
				return domain.ErrInvalidQuantity
			}
			a.Minimum = *in.Minimum
		}
		if in.Location != nil {
			a.Location = strings.TrimSpace(*in.Location)
		}
		if in.QRValue != nil {
			qr := NormalizeCode(*in.QRValue)
			if qr == "" {
				return fmt.Errorf("%w: el QR no puede quedar vacío", domain.ErrInvalidInput)
			}
			if qr != a.QRValue {
				if err := checkIdentifiersFree(ctx, repos.Articles, a.ID, "", qr); err != nil {
					return err
				}
				a.QRValue = qr
			}
		}
		switch {
		case in.ClearCategory:
			a.CategoryID = nil
		case in.CategoryID != nil:
			if err := checkCategory(ctx, repos.Categories, in.CategoryID); err != nil {
				return err
			}
			a.CategoryID = in.CategoryID
		}
		a.UpdatedAt = uc.clock.now()
		article = a
		return repos.Articles.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// Retire da de baja el artículo mediante un movimiento RETIREMENT.
func (uc *ArticleUseCase) Retire(ctx context.Context, id int64, actor, note string) (*MovementResult, error) {
	if strings.TrimSpace(note) == "" {
		note = "Baja de artículo"
	}
	return uc.ledger.ApplyMovement(ctx, MovementInput{
		ArticleID: id,
		Kind:      entity.MovementKindRetirement,
		Note:      note,
		Actor:     actor,
	})
}

// Get obtiene un artículo por id.
func (uc *ArticleUseCase) Get(ctx context.Context, id int64) (*entity.Article, error) {
	a, err := uc.repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrArticleNotFound
	}
	return a, nil
}

// GetByScan resuelve un artículo a partir del texto leído del QR.
func (uc *ArticleUseCase) GetByScan(ctx context.Context, scanned string) (*entity.Article, error) {
	return FindByScan(ctx, uc.repos.Articles, scanned)
}

// List devuelve los artículos ordenados por código.
func (uc *ArticleUseCase) List(ctx context.Context, includeRetired bool) ([]*entity.Article, error) {
	return uc.repos.Articles.List(ctx, includeRetired)
}

// Movements devuelve el historial del artículo, del más reciente al más antiguo.
func (uc *ArticleUseCase) Movements(ctx context.Context, id int64, limit int) ([]*entity.Movement, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}
	return uc.repos.Movements.ListByArticle(ctx, id, limit)
}

// TransactionMovements devuelve los movimientos de una misma operación (una recepción,
// una orden recibida, un alta con saldo inicial) en el orden en que se registraron.
func (uc *ArticleUseCase) TransactionMovements(ctx context.Context, transactionID string) ([]*entity.Movement, error) {
	txID, err := uuid.Parse(strings.TrimSpace(transactionID))
	if err != nil {
		return nil, fmt.Errorf("%w: transaction_id inválido", domain.ErrInvalidInput)
	}
	list, err := uc.repos.Movements.ListByTransaction(ctx, txID.String())
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return list, nil
}

func checkCategory(ctx context.Context, categories repository.CategoryRepository, id *int64) error {
	if id == nil {
		return nil
	}
	c, err := categories.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// checkIdentifiersFree verifica que código y QR no estén tomados por otro artículo (selfID se excluye).
// Un artículo dado de baja ya tiene sus identificadores renombrados, así que no bloquea.
func checkIdentifiersFree(ctx context.Context, articles repository.ArticleRepository, selfID int64, code, qr string) error {
	if code != "" {
		a, err := articles.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if a != nil && a.ID != selfID {
			return domain.ErrDuplicateCode
		}
	}
	if qr != "" {
		a, err := articles.GetByQR(ctx, qr)
		if err != nil {
			return err
		}
		if a != nil && a.ID != selfID {
			return domain.ErrDuplicateQR
		}
	}
	return nil
}
