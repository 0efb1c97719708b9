package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// InventoryHandler API JSON de stock (protegida con Bearer Token).
type InventoryHandler struct {
	engine *inventory.ApplyChangeUseCase
	query  *inventory.StockQueryUseCase
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.ApplyChangeUseCase, query *inventory.StockQueryUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, query: query, log: log}
}

// ListStock godoc
// @Summary      Listado de stock con valor total
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stocks [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	listing, err := h.query.ListStock(c.UserContext())
	if err != nil {
		h.logError(c, err)
		return writeAPIError(c, err)
	}
	out := dto.StockListResponse{
		Items:       make([]dto.ItemResponse, 0, len(listing.Items)),
		TotalValue:  listing.TotalValue,
		GeneratedAt: listing.GeneratedAt,
	}
	for _, it := range listing.Items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return c.JSON(out)
}

// ItemHistory godoc
// @Summary      Historial de cambios de un ítem (más reciente primero)
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "item id"
// @Success      200  {object}  dto.ItemHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/history [get]
func (h *InventoryHandler) ItemHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return writeAPIError(c, domain.ErrItemNotFound)
	}
	hist, err := h.query.ItemHistory(c.UserContext(), int64(id))
	if err != nil {
		h.logError(c, err)
		return writeAPIError(c, err)
	}
	out := dto.ItemHistoryResponse{
		Item:    toItemResponse(hist.Item),
		Entries: make([]dto.StockHistoryResponse, 0, len(hist.Entries)),
	}
	for _, e := range hist.Entries {
		out.Entries = append(out.Entries, dto.StockHistoryResponse{
			ID:              e.ID,
			ItemID:          e.ItemID,
			ItemName:        e.ItemName,
			CurrentItemName: e.DisplayName(),
			ChangeType:      e.ChangeType.String(),
			QuantityChanged: e.QuantityChanged,
			ChangedBy:       e.ChangedBy,
			ChangeDate:      e.ChangeDate,
		})
	}
	return c.JSON(out)
}

// ApplyChange godoc
// @Summary      Sumar o restar cantidad a un ítem
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  int                 true  "item id"
// @Param        action  path  string              true  "add | remove"
// @Param        body    body  dto.ChangeRequest   true  "quantity (entero positivo)"
// @Success      200  {object}  dto.ChangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stocks/{id}/{action} [post]
func (h *InventoryHandler) ApplyChange(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return writeAPIError(c, domain.ErrItemNotFound)
	}
	var in dto.ChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	res, err := h.engine.ApplyChange(c.UserContext(), inventory.ChangeInput{
		ItemID:   int64(id),
		Action:   c.Params("action"),
		Quantity: string(in.Quantity),
		Actor:    GetUsername(c),
	})
	if err != nil {
		h.logError(c, err)
		return writeAPIError(c, err)
	}
	return c.JSON(dto.ChangeResponse{
		ItemID:           res.ItemID,
		ItemName:         res.ItemName,
		Action:           res.Action.String(),
		Quantity:         res.Quantity,
		PreviousQuantity: res.PreviousQuantity,
		NewQuantity:      res.NewQuantity,
		HistoryID:        res.HistoryID,
		Message:          fmt.Sprintf("Stock successfully %s.", res.Action.PastTense()),
	})
}

// logError registra solo los errores que no son de negocio.
func (h *InventoryHandler) logError(c *fiber.Ctx, err error) {
	if domain.IsBusinessError(err) {
		return
	}
	h.log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("api de stock")
}

func toItemResponse(it entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:       it.ID,
		Name:     it.Name,
		Quantity: it.Quantity,
		Subtotal: it.Subtotal,
		Value:    it.Value(),
	}
}
