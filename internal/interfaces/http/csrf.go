package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/jhoicas/stock-tracker/pkg/logger"
)

const (
	csrfFormField  = "_csrf"
	csrfCookieName = "csrf_"
	localCSRFToken = "csrf"
)

// CSRFProtect protege los formularios HTML. En GET deja el token en c.Locals para la vista;
// en POST exige el campo _csrf igual a la cookie y al token guardado en la sesión del servidor.
func CSRFProtect(sessions *SessionManager, log *logger.Logger) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:" + csrfFormField,
		CookieName:     csrfCookieName,
		CookieSecure:   sessions.secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     sessions.ttl,
		Session:        sessions.store,
		ContextKey:     localCSRFToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Warn().Err(err).
				Str("request_id", requestID(c)).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("token CSRF rechazado")
			return fiber.ErrForbidden
		},
	})
}

// csrfToken token vigente para el formulario; vacío si la ruta no pasa por CSRFProtect.
func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localCSRFToken).(string)
	return token
}
