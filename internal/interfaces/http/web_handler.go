package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// WebHandler páginas HTML: login, listado, formulario de acción, historial y exportaciones.
type WebHandler struct {
	auth     *auth.AuthUseCase
	engine   *inventory.ApplyChangeUseCase
	query    *inventory.StockQueryUseCase
	reports  *inventory.ReportUseCase
	sessions *SessionManager
	log      *logger.Logger
}

// NewWebHandler construye el handler de páginas.
func NewWebHandler(
	authUC *auth.AuthUseCase,
	engine *inventory.ApplyChangeUseCase,
	query *inventory.StockQueryUseCase,
	reports *inventory.ReportUseCase,
	sessions *SessionManager,
	log *logger.Logger,
) *WebHandler {
	return &WebHandler{
		auth:     authUC,
		engine:   engine,
		query:    query,
		reports:  reports,
		sessions: sessions,
		log:      log,
	}
}

// render dibuja una vista dentro del layout principal con el usuario y los flash pendientes.
func (h *WebHandler) render(c *fiber.Ctx, status int, view, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["Username"] = CurrentUsername(c)
	data["CSRF"] = csrfToken(c)
	if _, ok := data["Flashes"]; !ok {
		data["Flashes"] = h.sessions.PopFlash(c)
	}
	return c.Status(status).Render(view, data, layoutMain)
}

// flashAndRedirect guarda un mensaje y redirige (303) a path.
func (h *WebHandler) flashAndRedirect(c *fiber.Ctx, msg, path string) error {
	if err := h.sessions.Flash(c, msg); err != nil {
		h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("no se pudo guardar flash")
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

// logStorage registra la causa de un error de almacenamiento; nunca se muestra al usuario.
func (h *WebHandler) logStorage(c *fiber.Ctx, err error, msg string) {
	h.log.Error().Err(err).
		Str("request_id", requestID(c)).
		Str("path", c.Path()).
		Msg(msg)
}
