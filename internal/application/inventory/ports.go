package inventory

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; ningún cambio parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		historyRepo repository.StockHistoryRepository,
	) error) error
}

// StockReportGenerator genera un documento (PDF, XLSX) con el listado valorizado.
type StockReportGenerator interface {
	Generate(ctx context.Context, listing *StockListing) ([]byte, error)
}
