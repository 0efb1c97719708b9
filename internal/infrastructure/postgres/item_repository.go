package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// List devuelve todos los ítems ordenados por id.
func (r *ItemRepo) List(ctx context.Context) ([]entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT item_id, item_name, quantity, subtotal FROM items ORDER BY item_id`)
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
	return r.get(ctx, `
		SELECT item_id, item_name, quantity, subtotal
		FROM items WHERE item_id = $1`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Item, error) {
	return r.get(ctx, `
		SELECT item_id, item_name, quantity, subtotal
		FROM items WHERE item_id = $1
		FOR UPDATE`, id)
}

func (r *ItemRepo) get(ctx context.Context, query string, id int64) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRow(ctx, query, id).Scan(&it.ID, &it.Name, &it.Quantity, &it.Subtotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// UpdateQuantity fija la cantidad del ítem.
func (r *ItemRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET quantity = $2 WHERE item_id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item quantity: ítem %d no existe", id)
	}
	return nil
}
