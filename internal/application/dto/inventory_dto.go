package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ItemResponse ítem con su valor (quantity × subtotal).
type ItemResponse struct {
	ID       int64           `json:"item_id"`
	Name     string          `json:"item_name"`
	Quantity int64           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Value    decimal.Decimal `json:"value"`
}

// StockListResponse salida de GET /api/stocks.
type StockListResponse struct {
	Items       []ItemResponse  `json:"items"`
	TotalValue  decimal.Decimal `json:"total_value"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// StockHistoryResponse una entrada del historial.
type StockHistoryResponse struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	ItemName        string    `json:"item_name"`
	CurrentItemName string    `json:"current_item_name"`
	ChangeType      string    `json:"change_type"`
	QuantityChanged int64     `json:"quantity_changed"`
	ChangedBy       string    `json:"changed_by"`
	ChangeDate      time.Time `json:"change_date"`
}

// ItemHistoryResponse salida de GET /api/stocks/:id/history.
type ItemHistoryResponse struct {
	Item    ItemResponse           `json:"item"`
	Entries []StockHistoryResponse `json:"entries"`
}

// ChangeRequest body para POST /api/stocks/:id/:action.
type ChangeRequest struct {
	Quantity RawQuantity `json:"quantity" form:"quantity"`
}

// ChangeResponse resultado de un cambio de stock aplicado.
type ChangeResponse struct {
	ItemID           int64  `json:"item_id"`
	ItemName         string `json:"item_name"`
	Action           string `json:"action"`
	Quantity         int64  `json:"quantity"`
	PreviousQuantity int64  `json:"previous_quantity"`
	NewQuantity      int64  `json:"new_quantity"`
	HistoryID        int64  `json:"history_id,omitempty"`
	Message          string `json:"message"`
}

// RawQuantity cantidad tal como llegó; acepta "5" o 5 en JSON.
// La validación (entero positivo) la hace el caso de uso.
type RawQuantity string

// UnmarshalJSON acepta string o número sin reinterpretarlo.
func (q *RawQuantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = RawQuantity(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	*q = RawQuantity(b)
	return nil
}
