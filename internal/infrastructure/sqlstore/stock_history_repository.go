package sqlstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo libro de auditoría sobre la tabla stock_history.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Append inserta la entrada y asigna entry.ID.
func (r *StockHistoryRepo) Append(ctx context.Context, entry *entity.StockHistoryEntry) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_history (item_id, item_name, change_type, quantity_changed, changed_by, change_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ItemID, entry.ItemName, entry.ChangeType.String(), entry.QuantityChanged,
		entry.ChangedBy, entry.ChangeDate.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByItem devuelve el historial del ítem, más reciente primero, con el nombre actual del ítem.
func (r *StockHistoryRepo) ListByItem(ctx context.Context, itemID int64) ([]entity.StockHistoryEntry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT h.id, h.item_id, h.item_name, h.change_type, h.quantity_changed,
		       h.changed_by, h.change_date, COALESCE(i.item_name, '')
		FROM stock_history h
		LEFT JOIN items i ON i.item_id = h.item_id
		WHERE h.item_id = ?
		ORDER BY h.change_date DESC, h.id DESC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()

	entries := []entity.StockHistoryEntry{}
	for rows.Next() {
		var (
			e          entity.StockHistoryEntry
			changeType string
		)
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ItemName, &changeType, &e.QuantityChanged,
			&e.ChangedBy, &e.ChangeDate, &e.CurrentItemName); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		ct, err := entity.ParseChangeType(changeType)
		if err != nil {
			return nil, fmt.Errorf("stock history %d: change_type %q: %w", e.ID, changeType, err)
		}
		e.ChangeType = ct
		e.ChangeDate = e.ChangeDate.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	return entries, nil
}
