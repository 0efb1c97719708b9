package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// StockHistoryRepository puerto del libro de auditoría (append-only).
type StockHistoryRepository interface {
	// Append inserta la entrada y asigna entry.ID.
	Append(ctx context.Context, entry *entity.StockHistoryEntry) error
	// ListByItem devuelve las entradas del ítem, más reciente primero. No valida que el ítem exista.
	ListByItem(ctx context.Context, itemID int64) ([]entity.StockHistoryEntry, error)
}
