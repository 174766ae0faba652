package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/inventory"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// LedgerUseCase es el único punto que modifica el saldo de un artículo.
// Cada movimiento bloquea la fila del artículo (SELECT FOR UPDATE), valida la regla de saldo,
// escribe el nuevo saldo y agrega el registro al libro, todo en una transacción.
type LedgerUseCase struct {
	txRunner TxRunner
	clock    Clock
	log      *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. clock puede ser nil.
func NewLedgerUseCase(txRunner TxRunner, clock Clock, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, clock: clock, log: log.Named("ledger")}
}

// MovementInput entrada para registrar un movimiento.
// El artículo se identifica por ArticleID o, si es cero, por ScannedCode (QR o código).
type MovementInput struct {
	ArticleID   int64
	ScannedCode string
	Kind        entity.MovementKind
	Quantity    decimal.Decimal
	Note        string
	Actor       string
}

// MovementResult saldo resultante y movimiento registrado.
type MovementResult struct {
	Article  *entity.Article
	Movement *entity.Movement
}

// Posting datos de un asiento a aplicar dentro de una transacción abierta por el caller.
type Posting struct {
	Kind          entity.MovementKind
	Quantity      decimal.Decimal
	Note          string
	Actor         string
	TransactionID string
	At            time.Time
}

// ApplyMovement registra un movimiento en su propia transacción.
// RETIREMENT además da de baja el artículo (renombra código y QR) en la misma transacción.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if !in.Kind.Valid() {
		return nil, domain.ErrUnknownMovementKind
	}
	if in.ArticleID <= 0 && strings.TrimSpace(in.ScannedCode) == "" {
		return nil, fmt.Errorf("%w: indique el artículo", domain.ErrInvalidInput)
	}
	p := Posting{
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		Note:          strings.TrimSpace(in.Note),
		Actor:         in.Actor,
		TransactionID: uuid.New().String(),
		At:            uc.clock.now(),
	}

	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		article, err := LockArticle(ctx, repos.Articles, in.ArticleID, in.ScannedCode)
		if err != nil {
			return err
		}
		if p.Kind == entity.MovementKindRetirement {
			res, err = uc.retireInTx(ctx, repos, article, p)
		} else {
			res, err = uc.ApplyInTx(ctx, repos, article, p)
		}
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("article_id", in.ArticleID).Str("kind", string(in.Kind)).Msg("movimiento rechazado")
		return nil, err
	}
	uc.log.Info().
		Int64("article_id", res.Article.ID).
		Str("kind", string(res.Movement.Kind)).
		Str("quantity", res.Movement.Quantity.String()).
		Str("balance", res.Article.Balance.String()).
		Str("tx", p.TransactionID).
		Msg("movimiento registrado")
	return res, nil
}

// ApplyInTx aplica un movimiento sobre un artículo ya bloqueado, usando los repositorios de la
// transacción del caller (recepciones, órdenes de compra, alta con saldo inicial).
// Escribe exactamente un saldo y un registro de movimiento; no hace Commit.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, repos repository.Repositories, article *entity.Article, p Posting) (*MovementResult, error) {
	if !article.IsActive() {
		return nil, domain.ErrArticleRetired
	}
	if p.Kind == entity.MovementKindRetirement {
		return uc.retireInTx(ctx, repos, article, p)
	}
	stored, next, err := inventory.Apply(p.Kind, article.Balance, p.Quantity)
	if err != nil {
		return nil, err
	}
	if err := repos.Articles.UpdateBalance(ctx, article.ID, next); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		TransactionID: p.TransactionID,
		ArticleID:     article.ID,
		Kind:          p.Kind,
		Quantity:      stored,
		BalanceAfter:  next,
		Note:          p.Note,
		Actor:         p.Actor,
		CreatedAt:     p.At,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	article.Balance = next
	article.UpdatedAt = p.At
	return &MovementResult{Article: article, Movement: mov}, nil
}

// retireInTx da de baja el artículo y registra el movimiento RETIREMENT con cantidad 0.
// El saldo queda como estaba.
func (uc *LedgerUseCase) retireInTx(ctx context.Context, repos repository.Repositories, article *entity.Article, p Posting) (*MovementResult, error) {
	if !article.IsActive() {
		return nil, domain.ErrArticleRetired
	}
	article.Retire(p.At)
	if err := repos.Articles.Update(ctx, article); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		TransactionID: p.TransactionID,
		ArticleID:     article.ID,
		Kind:          entity.MovementKindRetirement,
		Quantity:      decimal.Zero,
		BalanceAfter:  article.Balance,
		Note:          p.Note,
		Actor:         p.Actor,
		CreatedAt:     p.At,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &MovementResult{Article: article, Movement: mov}, nil
}

// LockArticle resuelve el artículo por id o por código escaneado y bloquea su fila.
// El código escaneado se busca primero como valor QR y luego como código interno.
func LockArticle(ctx context.Context, articles repository.ArticleRepository, id int64, scanned string) (*entity.Article, error) {
	if id <= 0 {
		a, err := FindByScan(ctx, articles, scanned)
		if err != nil {
			return nil, err
		}
		id = a.ID
	}
	a, err := articles.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrArticleNotFound
	}
	return a, nil
}

// FindByScan busca un artículo por el texto leído del QR (o tipeado como código).
func FindByScan(ctx context.Context, articles repository.ArticleRepository, scanned string) (*entity.Article, error) {
	code := NormalizeCode(scanned)
	if code == "" {
		return nil, domain.ErrArticleNotFound
	}
	a, err := articles.GetByQR(ctx, code)
	if err != nil {
		return nil, err
	}
	if a == nil {
		if a, err = articles.GetByCode(ctx, code); err != nil {
			return nil, err
		}
	}
	if a == nil {
		return nil, domain.ErrArticleNotFound
	}
	return a, nil
}
