package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// StockListing listado de ítems con su valor total.
type StockListing struct {
	Items       []entity.Item
	TotalValue  decimal.Decimal
	GeneratedAt time.Time
}

// EmptyListing listado vacío usado como degradación cuando el almacén no responde.
func EmptyListing(at time.Time) *StockListing {
	return &StockListing{Items: []entity.Item{}, TotalValue: decimal.Zero, GeneratedAt: at}
}

// ItemHistory ítem con sus entradas de historial (más reciente primero).
type ItemHistory struct {
	Item    entity.Item
	Entries []entity.StockHistoryEntry
}

// StockQueryUseCase rutas de lectura: listado valorizado, detalle e historial.
type StockQueryUseCase struct {
	itemRepo    repository.ItemRepository
	historyRepo repository.StockHistoryRepository
	now         func() time.Time
}

// NewStockQueryUseCase construye el caso de uso de consultas.
func NewStockQueryUseCase(itemRepo repository.ItemRepository, historyRepo repository.StockHistoryRepository) *StockQueryUseCase {
	return &StockQueryUseCase{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj usado para GeneratedAt.
func (uc *StockQueryUseCase) WithClock(now func() time.Time) *StockQueryUseCase {
	uc.now = now
	return uc
}

// ListStock devuelve todos los ítems y el valor total del inventario.
func (uc *StockQueryUseCase) ListStock(ctx context.Context) (*StockListing, error) {
	items, err := uc.itemRepo.List(ctx)
	if err != nil {
		return nil, domain.NewStorageError("list items", err)
	}
	if items == nil {
		items = []entity.Item{}
	}
	return &StockListing{
		Items:       items,
		TotalValue:  domaininv.TotalValue(items),
		GeneratedAt: uc.now(),
	}, nil
}

// GetItem obtiene un ítem; ErrItemNotFound si no existe.
func (uc *StockQueryUseCase) GetItem(ctx context.Context, id int64) (*entity.Item, error) {
	if id <= 0 {
		return nil, domain.ErrItemNotFound
	}
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("get item", err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// ItemHistory valida que el ítem exista y devuelve su historial. Sin entradas no es error.
func (uc *StockQueryUseCase) ItemHistory(ctx context.Context, id int64) (*ItemHistory, error) {
	item, err := uc.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := uc.historyRepo.ListByItem(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("list stock history", err)
	}
	if entries == nil {
		entries = []entity.StockHistoryEntry{}
	}
	return &ItemHistory{Item: *item, Entries: entries}, nil
}
