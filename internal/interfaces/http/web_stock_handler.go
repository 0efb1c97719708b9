package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain"
)

// Stocks lista los ítems y el valor total. Si el almacén falla se muestra un listado
// vacío con el aviso de error en lugar de una página de error.
func (h *WebHandler) Stocks(c *fiber.Ctx) error {
	flashes := h.sessions.PopFlash(c)
	listing, err := h.query.ListStock(c.UserContext())
	if err != nil {
		h.logStorage(c, err, "listar stock")
		listing = inventory.EmptyListing(time.Now().UTC())
		flashes = append(flashes, userMessage(err))
	}
	return h.render(c, fiber.StatusOK, "stocks", "Stock", fiber.Map{
		"Items":      listing.Items,
		"TotalValue": listing.TotalValue,
		"Flashes":    flashes,
	})
}

// StockHistory muestra el historial del ítem, más reciente primero.
func (h *WebHandler) StockHistory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.flashAndRedirect(c, msgItemNotFound, "/stocks")
	}
	hist, err := h.query.ItemHistory(c.UserContext(), int64(id))
	if err != nil {
		if !domain.IsBusinessError(err) {
			h.logStorage(c, err, "historial de stock")
		}
		return h.flashAndRedirect(c, userMessage(err), "/stocks")
	}
	return h.render(c, fiber.StatusOK, "stock_history", "History", fiber.Map{
		"Item":    hist.Item,
		"Entries": hist.Entries,
	})
}

// StockActionForm muestra el formulario con la acción de la URL preseleccionada.
// Un ítem inexistente vuelve al listado con aviso.
func (h *WebHandler) StockActionForm(c *fiber.Ctx) error {
	return h.renderActionForm(c, fiber.StatusOK, c.Params("action"), "", "")
}

// StockAction aplica el cambio. Éxito: flash y redirect al listado.
// Error de validación o stock insuficiente: se vuelve a mostrar el formulario con el mensaje.
func (h *WebHandler) StockAction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.flashAndRedirect(c, msgItemNotFound, "/stocks")
	}
	action := c.FormValue("action")
	if action == "" {
		action = c.Params("action")
	}
	rawQty := c.FormValue("quantity")

	res, err := h.engine.ApplyChange(c.UserContext(), inventory.ChangeInput{
		ItemID:   int64(id),
		Action:   action,
		Quantity: rawQty,
		Actor:    CurrentUsername(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			return h.flashAndRedirect(c, msgItemNotFound, "/stocks")
		case domain.IsBusinessError(err):
			return h.renderActionForm(c, fiber.StatusUnprocessableEntity, action, rawQty, userMessage(err))
		default:
			h.logStorage(c, err, "aplicar cambio de stock")
			return h.flashAndRedirect(c, msgDatabaseError, "/stocks")
		}
	}

	h.log.Info().
		Int64("item_id", res.ItemID).
		Str("action", res.Action.String()).
		Int64("quantity", res.Quantity).
		Int64("new_quantity", res.NewQuantity).
		Str("username", CurrentUsername(c)).
		Msg("stock actualizado")
	return h.flashAndRedirect(c, fmt.Sprintf("Stock successfully %s.", res.Action.PastTense()), "/stocks")
}

func (h *WebHandler) renderActionForm(c *fiber.Ctx, status int, action, rawQty, errMsg string) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return h.flashAndRedirect(c, msgItemNotFound, "/stocks")
	}
	item, err := h.query.GetItem(c.UserContext(), int64(id))
	if err != nil {
		if !domain.IsBusinessError(err) {
			h.logStorage(c, err, "obtener ítem")
		}
		return h.flashAndRedirect(c, userMessage(err), "/stocks")
	}
	return h.render(c, status, "stock_action", "Update stock", fiber.Map{
		"Item":         item,
		"Action":       action,
		"FormQuantity": rawQty,
		"Error":        errMsg,
	})
}

// ExportXLSX descarga el listado valorizado en Excel.
func (h *WebHandler) ExportXLSX(c *fiber.Ctx) error {
	return h.download(c, inventory.ReportXLSX)
}

// ReportPDF descarga el reporte de valorización en PDF.
func (h *WebHandler) ReportPDF(c *fiber.Ctx) error {
	return h.download(c, inventory.ReportPDF)
}

func (h *WebHandler) download(c *fiber.Ctx, format inventory.ReportFormat) error {
	report, err := h.reports.Generate(c.UserContext(), format)
	if err != nil {
		h.logStorage(c, err, "generar reporte")
		return h.flashAndRedirect(c, msgDatabaseError, "/stocks")
	}
	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Send(report.Data)
}
