package entity

import "time"

// StockHistoryEntry registro de auditoría append-only de un cambio de stock.
// ItemName es el nombre al momento del cambio; CurrentItemName el actual (solo lectura).
type StockHistoryEntry struct {
	ID              int64
	ItemID          int64
	ItemName        string
	ChangeType      ChangeType
	QuantityChanged int64 // siempre positivo
	ChangedBy       string
	ChangeDate      time.Time
	CurrentItemName string
}

// DisplayName prefiere el nombre actual del ítem y cae en el nombre histórico.
func (e StockHistoryEntry) DisplayName() string {
	if e.CurrentItemName != "" {
		return e.CurrentItemName
	}
	return e.ItemName
}
