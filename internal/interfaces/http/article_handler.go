package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// ArticleHandler maneja el registro de artículos, su historial, etiqueta y reposición (protegido).
type ArticleHandler struct {
	articles      *inventory.ArticleUseCase
	labels        *inventory.LabelUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewArticleHandler construye el handler.
func NewArticleHandler(articles *inventory.ArticleUseCase, labels *inventory.LabelUseCase, replenishment *inventory.ReplenishmentUseCase, log *logger.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, labels: labels, replenishment: replenishment, log: log}
}

// Create godoc
// @Summary      Alta de artículo
// @Description  initial_balance > 0 se registra como un INGRESS "Saldo inicial".
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.articles.Register(c.Context(), inventory.RegisterArticleInput{
		Code:           in.Code,
		Description:    in.Description,
		UnitMeasure:    in.UnitMeasure,
		Minimum:        in.Minimum.Decimal,
		InitialBalance: in.InitialBalance.Decimal,
		Location:       in.Location,
		QRValue:        in.QRValue,
		CategoryID:     in.CategoryID,
		Actor:          GetActor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ArticleFromEntity(a))
}

// List godoc
// @Summary      Listar artículos
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        include_retired  query  bool  false  "Incluir dados de baja"
// @Success      200  {object}  dto.ArticleListResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	list, err := h.articles.List(c.Context(), c.QueryBool("include_retired", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ArticlesFromEntities(list))
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.articles.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ArticleFromEntity(a))
}

// Scan godoc
// @Summary      Resolver artículo escaneado
// @Description  Busca primero por valor de QR y luego por código.
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Texto leído del QR"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/scan/{code} [get]
func (h *ArticleHandler) Scan(c *fiber.Ctx) error {
	code, err := url.PathUnescape(c.Params("code"))
	if err != nil {
		return writeError(c, h.log, fmt.Errorf("%w: código mal codificado", domain.ErrInvalidInput))
	}
	a, err := h.articles.GetByScan(c.Context(), code)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ArticleFromEntity(a))
}

// Update godoc
// @Summary      Actualizar artículo
// @Description  Código y saldo no se editan; el saldo solo cambia con movimientos.
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.UpdateArticleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	var minimum *decimal.Decimal
	if in.Minimum != nil {
		minimum = &in.Minimum.Decimal
	}
	a, err := h.articles.Update(c.Context(), id, inventory.UpdateArticleInput{
		Description:   in.Description,
		UnitMeasure:   in.UnitMeasure,
		Minimum:       minimum,
		Location:      in.Location,
		QRValue:       in.QRValue,
		CategoryID:    in.CategoryID,
		ClearCategory: in.ClearCategory,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ArticleFromEntity(a))
}

// Retire godoc
// @Summary      Dar de baja un artículo
// @Description  Registra un movimiento RETIREMENT y libera el código (se renombra a <código>__inactivo_<id>).
// @Tags         articles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true   "ID del artículo"
// @Param        body  body  dto.RetireArticleRequest  false  "Motivo"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/retire [post]
func (h *ArticleHandler) Retire(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.RetireArticleRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	res, err := h.articles.Retire(c.Context(), id, GetActor(c), in.Note)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(movementResult(res))
}

// Movements godoc
// @Summary      Historial de movimientos del artículo
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Param        id     path   int  true   "ID del artículo"
// @Param        limit  query  int  false  "Máximo de registros"  default(50)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/movements [get]
func (h *ArticleHandler) Movements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.articles.Movements(c.Context(), id, c.QueryInt("limit", inventory.DefaultMovementLimit))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementsFromEntities(list))
}

// Label godoc
// @Summary      Etiqueta QR del artículo
// @Tags         articles
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/articles/{id}/label.pdf [get]
func (h *ArticleHandler) Label(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	pdf, filename, err := h.labels.ArticleLabel(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendPDF(c, pdf, filename)
}

// BelowMinimum godoc
// @Summary      Artículos bajo stock mínimo
// @Description  Ordenados por mayor déficit, con cantidad sugerida = mínimo × 1,5 − saldo.
// @Tags         articles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/articles/below-minimum [get]
func (h *ArticleHandler) BelowMinimum(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

func movementResult(res *inventory.MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		Article:  dto.ArticleFromEntity(res.Article),
		Movement: dto.MovementFromEntity(res.Movement),
	}
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(pdf)
}
