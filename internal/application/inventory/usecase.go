package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// ApplyChangeUseCase aplica cambios de cantidad a un ítem de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), actualización y registro de auditoría en la misma tx.
type ApplyChangeUseCase struct {
	txRunner       TxRunner
	historyEnabled bool
	now            func() time.Time
}

// NewApplyChangeUseCase construye el caso de uso. historyEnabled activa el libro stock_history.
func NewApplyChangeUseCase(txRunner TxRunner, historyEnabled bool) *ApplyChangeUseCase {
	return &ApplyChangeUseCase{
		txRunner:       txRunner,
		historyEnabled: historyEnabled,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj usado para change_date.
func (uc *ApplyChangeUseCase) WithClock(now func() time.Time) *ApplyChangeUseCase {
	uc.now = now
	return uc
}

// HistoryEnabled indica si los cambios se auditan.
func (uc *ApplyChangeUseCase) HistoryEnabled() bool { return uc.historyEnabled }

// ChangeInput entrada de un cambio de stock tal como llega del usuario.
type ChangeInput struct {
	ItemID   int64
	Action   string // add | remove
	Quantity string // se valida como entero positivo
	Actor    string // username de la sesión
}

// ChangeResult resultado de un cambio aplicado.
type ChangeResult struct {
	ItemID           int64
	ItemName         string
	Action           entity.ChangeType
	Quantity         int64
	PreviousQuantity int64
	NewQuantity      int64
	HistoryID        int64 // 0 si el historial está desactivado
}

// ApplyChange valida la entrada, y dentro de una transacción bloquea el ítem, calcula la nueva
// cantidad, la persiste y agrega la entrada de historial. Todo o nada.
// Errores: ErrItemNotFound, ErrInvalidAction, ErrInvalidQuantity, ErrInsufficientStock,
// ErrActorRequired o *domain.StorageError.
func (uc *ApplyChangeUseCase) ApplyChange(ctx context.Context, in ChangeInput) (*ChangeResult, error) {
	action, err := entity.ParseChangeType(in.Action)
	if err != nil {
		return nil, err
	}
	qty, err := domaininv.ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	actor := strings.TrimSpace(in.Actor)
	if uc.historyEnabled && actor == "" {
		return nil, domain.ErrActorRequired
	}
	if in.ItemID <= 0 {
		return nil, domain.ErrItemNotFound
	}

	var result *ChangeResult
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		historyRepo repository.StockHistoryRepository,
	) error {
		// Bloquea la fila del ítem para evitar lost updates entre requests concurrentes
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		next, err := domaininv.NextQuantity(item.Quantity, action, qty)
		if err != nil {
			return err
		}
		if err := itemRepo.UpdateQuantity(ctx, item.ID, next); err != nil {
			return err
		}
		result = &ChangeResult{
			ItemID:           item.ID,
			ItemName:         item.Name,
			Action:           action,
			Quantity:         qty,
			PreviousQuantity: item.Quantity,
			NewQuantity:      next,
		}
		if !uc.historyEnabled {
			return nil
		}
		entry := &entity.StockHistoryEntry{
			ItemID:          item.ID,
			ItemName:        item.Name,
			ChangeType:      action,
			QuantityChanged: qty,
			ChangedBy:       actor,
			ChangeDate:      uc.now(),
		}
		if err := historyRepo.Append(ctx, entry); err != nil {
			return err
		}
		result.HistoryID = entry.ID
		return nil
	})
	if err != nil {
		return nil, classify("apply stock change", err)
	}
	return result, nil
}

// classify deja pasar los errores de negocio y envuelve el resto como StorageError.
func classify(op string, err error) error {
	if domain.IsBusinessError(err) || errors.Is(err, domain.ErrStorage) {
		return err
	}
	return domain.NewStorageError(op, err)
}
