package domain

import "errors"

// Kind clasifica los errores de dominio para que la capa HTTP decida el status.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindState      Kind = "STATE"
)

// Error es un error de dominio etiquetado (tipo + código + mensaje legible).
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Errores de dominio (sin dependencias externas). Comparar con errors.Is.
var (
	ErrNotFound            = newError(KindNotFound, "NOT_FOUND", "recurso no encontrado")
	ErrArticleNotFound     = newError(KindNotFound, "ARTICLE_NOT_FOUND", "artículo no encontrado")
	ErrSupplierNotFound    = newError(KindNotFound, "SUPPLIER_NOT_FOUND", "proveedor no encontrado")
	ErrCategoryNotFound    = newError(KindNotFound, "CATEGORY_NOT_FOUND", "categoría no encontrada")
	ErrOrderNotFound       = newError(KindNotFound, "ORDER_NOT_FOUND", "orden de compra no encontrada")
	ErrReceiptNotFound     = newError(KindNotFound, "RECEIPT_NOT_FOUND", "recepción no encontrada")
	ErrTransactionNotFound = newError(KindNotFound, "TRANSACTION_NOT_FOUND", "no hay movimientos con ese transaction_id")

	ErrInvalidInput        = newError(KindValidation, "VALIDATION", "entrada inválida")
	ErrInvalidQuantity     = newError(KindValidation, "INVALID_QUANTITY", "cantidad inválida")
	ErrUnknownMovementKind = newError(KindValidation, "UNKNOWN_MOVEMENT_KIND", "tipo de movimiento desconocido")
	ErrEmptyOrder          = newError(KindValidation, "EMPTY_ORDER", "la orden no tiene ítems válidos")
	ErrEmptyReceipt        = newError(KindValidation, "EMPTY_RECEIPT", "la recepción no tiene ítems")

	ErrDuplicateCode   = newError(KindConflict, "DUPLICATE_CODE", "ya existe un artículo con ese código")
	ErrDuplicateQR     = newError(KindConflict, "DUPLICATE_QR", "ya existe un artículo con ese código QR")
	ErrDuplicateTaxID  = newError(KindConflict, "DUPLICATE_TAX_ID", "ya existe un proveedor con ese CUIT")
	ErrDuplicate       = newError(KindConflict, "DUPLICATE", "recurso duplicado")
	ErrConcurrentWrite = newError(KindConflict, "CONCURRENT_UPDATE", "conflicto de concurrencia, reintente la operación")

	ErrInsufficientStock       = newError(KindState, "INSUFFICIENT_STOCK", "stock insuficiente")
	ErrNegativeBalanceResult   = newError(KindState, "NEGATIVE_BALANCE_RESULT", "el ajuste dejaría el stock en negativo")
	ErrArticleRetired          = newError(KindState, "ARTICLE_RETIRED", "el artículo está dado de baja")
	ErrAlreadyReceived         = newError(KindState, "ALREADY_RECEIVED", "la orden ya fue recibida")
	ErrOrderAlreadyReceived    = newError(KindState, "ORDER_ALREADY_RECEIVED", "solo se pueden eliminar órdenes pendientes")
	ErrReceiptAlreadyConfirmed = newError(KindState, "RECEIPT_ALREADY_CONFIRMED", "la recepción ya está confirmada")
)

// KindOf devuelve el tipo del primer *Error de la cadena, o "" si no es un error de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf devuelve el código del error de dominio, o "INTERNAL".
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}
