package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
)

// Home redirige al listado si hay sesión, o al login.
func (h *WebHandler) Home(c *fiber.Ctx) error {
	s, _ := h.sessions.Current(c)
	if h.auth.Authorize(s) {
		return c.Redirect("/stocks", fiber.StatusSeeOther)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// LoginForm muestra el formulario; con sesión activa redirige al listado.
func (h *WebHandler) LoginForm(c *fiber.Ctx) error {
	s, _ := h.sessions.Current(c)
	if h.auth.Authorize(s) {
		return c.Redirect("/stocks", fiber.StatusSeeOther)
	}
	return h.render(c, fiber.StatusOK, "login", "Log in", nil)
}

// Login verifica credenciales y establece la sesión.
// El mensaje de error no indica cuál campo falló.
func (h *WebHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.render(c, fiber.StatusBadRequest, "login", "Log in", fiber.Map{"Error": msgInvalidCredentials})
	}

	s, err := h.auth.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		data := fiber.Map{"Error": userMessage(err), "FormUsername": in.Username}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Warn().Str("username", in.Username).Str("ip", c.IP()).Msg("login fallido")
			return h.render(c, fiber.StatusUnauthorized, "login", "Log in", data)
		}
		h.logStorage(c, err, "login: error de almacenamiento")
		return h.render(c, fiber.StatusServiceUnavailable, "login", "Log in", data)
	}

	if err := h.sessions.Establish(c, s); err != nil {
		h.logStorage(c, err, "login: guardar sesión")
		return h.render(c, fiber.StatusServiceUnavailable, "login", "Log in", fiber.Map{"Error": msgDatabaseError})
	}
	h.log.Info().Str("username", s.Username).Msg("login exitoso")
	return c.Redirect("/stocks", fiber.StatusSeeOther)
}

// Logout destruye la sesión (idempotente) y vuelve al login.
func (h *WebHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.End(c); err != nil {
		h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("logout: destruir sesión")
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
