package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/application/purchasing"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// PurchaseOrderHandler maneja órdenes de compra y su recepción (protegido).
type PurchaseOrderHandler struct {
	orders    *purchasing.UseCase
	receiving *receiving.UseCase
	log       *logger.Logger
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(orders *purchasing.UseCase, rec *receiving.UseCase, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, receiving: rec, log: log}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Líneas repetidas del mismo artículo se suman. El número de secuencia nunca se reutiliza.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	lines := make([]purchasing.OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, purchasing.OrderLine{ArticleID: it.ArticleID, Quantity: it.Quantity.Decimal})
	}
	o, err := h.orders.Create(c.Context(), purchasing.CreateOrderInput{
		SupplierID: in.SupplierID,
		Note:       in.Note,
		Items:      lines,
		Actor:      GetActor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseOrderFromEntity(o))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING o RECEIVED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseOrderListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	req := dto.ListPurchaseOrdersRequest{
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", dto.DefaultPageLimit),
			Offset: c.QueryInt("offset", 0),
		},
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
	}
	req.Normalize()
	list, err := h.orders.List(c.Context(), entity.OrderStatus(req.Status), req.Limit, req.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.PurchaseOrderFromEntity(o))
	}
	return c.JSON(dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Count: len(items)},
	})
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	o, err := h.orders.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.PurchaseOrderFromEntity(o))
}

// Receive godoc
// @Summary      Recibir orden de compra
// @Description  Ingresa todas las líneas y marca la orden RECEIVED. Si ya estaba recibida responde 200 con code ALREADY_RECEIVED y no mueve stock.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.ReceiveOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.receiving.ReceiveOrder(c.Context(), id, GetActor(c))
	if errors.Is(err, domain.ErrAlreadyReceived) && out != nil && out.Order != nil {
		return c.JSON(dto.ReceiveOrderResponse{
			Code:            domain.CodeOf(err),
			Order:           dto.PurchaseOrderFromEntity(out.Order),
			AlreadyReceived: true,
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	receipt := dto.ReceiptFromEntity(out.Receipt)
	return c.JSON(dto.ReceiveOrderResponse{
		Order:   dto.PurchaseOrderFromEntity(out.Order),
		Receipt: &receipt,
	})
}

// Delete godoc
// @Summary      Eliminar orden de compra
// @Description  Solo órdenes pendientes.
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  int  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.orders.Delete(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
