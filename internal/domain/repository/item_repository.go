package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ItemRepository define el puerto para consultar/actualizar ítems.
// GetByID y GetForUpdate devuelven (nil, nil) si el ítem no existe.
type ItemRepository interface {
	List(ctx context.Context) ([]entity.Item, error)
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Item, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error
}
