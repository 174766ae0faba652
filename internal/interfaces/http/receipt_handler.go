package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// ReceiptHandler maneja recepciones de mercadería: por escaneo, borradores y el comprobante PDF (protegido).
type ReceiptHandler struct {
	uc  *receiving.UseCase
	pdf *receiving.PDFUseCase
	log *logger.Logger
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receiving.UseCase, pdf *receiving.PDFUseCase, log *logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, pdf: pdf, log: log}
}

// ReceiveByScan godoc
// @Summary      Recepción por escaneo
// @Description  Crea una recepción confirmada con un ítem y el ingreso correspondiente, en una sola transacción.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanReceiptRequest  true  "Proveedor, documento, código escaneado y cantidad"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/scan [post]
func (h *ReceiptHandler) ReceiveByScan(c *fiber.Ctx) error {
	var in dto.ScanReceiptRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.uc.ReceiveByScan(c.Context(), receiving.ScanReceiptInput{
		SupplierName:   in.SupplierName,
		DocumentNumber: in.DocumentNumber,
		ScannedCode:    in.ScannedCode,
		Quantity:       in.Quantity.Decimal,
		Actor:          GetActor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptFromEntity(r))
}

// CreateDraft godoc
// @Summary      Abrir recepción en borrador
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftReceiptRequest  true  "Proveedor y documento"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) CreateDraft(c *fiber.Ctx) error {
	var in dto.CreateDraftReceiptRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.uc.CreateDraft(c.Context(), receiving.DraftInput{
		SupplierName:   in.SupplierName,
		DocumentNumber: in.DocumentNumber,
		Actor:          GetActor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptFromEntity(r))
}

// AddItem godoc
// @Summary      Agregar ítem a un borrador
// @Description  No mueve stock hasta confirmar.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la recepción"
// @Param        body  body  dto.AddDraftItemRequest  true  "Código escaneado y cantidad"
// @Success      200   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/items [post]
func (h *ReceiptHandler) AddItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.AddDraftItemRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.uc.AddDraftItem(c.Context(), id, in.ScannedCode, in.Quantity.Decimal)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReceiptFromEntity(r))
}

// Confirm godoc
// @Summary      Confirmar borrador
// @Description  Registra un ingreso por ítem, todos con la misma transacción.
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/confirm [post]
func (h *ReceiptHandler) Confirm(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.uc.ConfirmDraft(c.Context(), id, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReceiptFromEntity(r))
}

// GetByID godoc
// @Summary      Obtener recepción
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReceiptFromEntity(r))
}

// DownloadPDF godoc
// @Summary      Comprobante de recepción en PDF
// @Tags         receipts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la recepción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/pdf [get]
func (h *ReceiptHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	pdf, filename, err := h.pdf.DownloadReceiptPDF(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendPDF(c, pdf, filename)
}
