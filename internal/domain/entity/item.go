package entity

import "github.com/shopspring/decimal"

// Item representa un artículo del inventario.
// Quantity nunca es negativa; solo el motor de stock la modifica.
type Item struct {
	ID       int64
	Name     string
	Quantity int64
	Subtotal decimal.Decimal // precio unitario
}

// Value devuelve quantity × subtotal.
func (i Item) Value() decimal.Decimal {
	return i.Subtotal.Mul(decimal.NewFromInt(i.Quantity))
}
