package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository (usable con pool o tx).
type ItemRepo struct {
	q       Querier
	dialect Dialect
}

// NewItemRepository construye el adaptador de ítems. Pasar *sql.DB o *sql.Tx.
func NewItemRepository(q Querier, dialect Dialect) *ItemRepo {
	return &ItemRepo{q: q, dialect: dialect}
}

const itemColumns = `item_id, item_name, quantity, subtotal`

// List devuelve todos los ítems ordenados por id.
func (r *ItemRepo) List(ctx context.Context) ([]entity.Item, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []entity.Item{}
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetByID obtiene un ítem; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = ?`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = ?`+r.dialect.forUpdate(), id)
}

func (r *ItemRepo) get(ctx context.Context, query string, id int64) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Quantity, &it.Subtotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// UpdateQuantity fija la cantidad del ítem.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE items SET quantity = ? WHERE item_id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update item quantity: ítem %d no existe", id)
	}
	return nil
}
