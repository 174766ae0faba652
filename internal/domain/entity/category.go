package entity

// Category agrupa artículos. Referencia débil: el artículo puede no tener categoría.
type Category struct {
	ID     int64
	Name   string
	Active bool
}
