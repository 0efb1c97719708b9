package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// TotalValue suma quantity × subtotal de todos los ítems (servicio de dominio).
// Un inventario vacío vale cero.
func TotalValue(items []entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value())
	}
	return total
}
