package inventory

import (
	"strconv"
	"strings"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// MaxQuantity tope de la columna quantity (INT con signo de 32 bits).
const MaxQuantity int64 = 2147483647

// ParseQuantity interpreta la cantidad ingresada por el usuario.
// Debe ser un entero positivo no mayor a MaxQuantity; si no, ErrInvalidQuantity.
func ParseQuantity(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.ErrInvalidQuantity
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 || n > MaxQuantity {
		return 0, domain.ErrInvalidQuantity
	}
	return n, nil
}

// NextQuantity calcula la cantidad resultante de aplicar change sobre current.
//   - add: current + qty; si excede MaxQuantity, ErrInvalidQuantity.
//   - remove: current - qty; si queda negativa, ErrInsufficientStock.
func NextQuantity(current int64, change entity.ChangeType, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	switch change {
	case entity.ChangeAdd:
		if qty > MaxQuantity-current {
			return 0, domain.ErrInvalidQuantity
		}
		return current + qty, nil
	case entity.ChangeRemove:
		next := current - qty
		if next < 0 {
			return 0, domain.ErrInsufficientStock
		}
		return next, nil
	default:
		return 0, domain.ErrInvalidAction
	}
}
