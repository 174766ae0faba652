package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// MovementHandler maneja el registro de movimientos del libro de stock (protegido).
type MovementHandler struct {
	ledger   *inventory.LedgerUseCase
	articles *inventory.ArticleUseCase
	log      *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.LedgerUseCase, articles *inventory.ArticleUseCase, log *logger.Logger) *MovementHandler {
	return &MovementHandler{ledger: ledger, articles: articles, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  type: INGRESS, EGRESS, ADJUSTMENT o RETIREMENT (también IN/OUT/AJUSTE/BAJA). El artículo va por article_id o scanned_code.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "article_id o scanned_code, type, quantity, note"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if in.ArticleID == 0 && in.ScannedCode == "" {
		return writeError(c, h.log, fmt.Errorf("%w: article_id o scanned_code requerido", domain.ErrInvalidInput))
	}
	kind, ok := entity.ParseMovementKind(in.Type)
	if !ok {
		return writeError(c, h.log, fmt.Errorf("%w: %q", domain.ErrUnknownMovementKind, in.Type))
	}
	res, err := h.ledger.ApplyMovement(c.Context(), inventory.MovementInput{
		ArticleID:   in.ArticleID,
		ScannedCode: in.ScannedCode,
		Kind:        kind,
		Quantity:    in.Quantity.Decimal,
		Note:        in.Note,
		Actor:       GetActor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResult(res))
}

// ByTransaction godoc
// @Summary      Movimientos de una operación
// @Description  Todos los movimientos que comparten transaction_id: las líneas de una recepción o de una orden recibida.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        transaction_id  path  string  true  "UUID de la operación"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/transactions/{transaction_id} [get]
func (h *MovementHandler) ByTransaction(c *fiber.Ctx) error {
	list, err := h.articles.TransactionMovements(c.Context(), c.Params("transaction_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementsFromEntities(list))
}
