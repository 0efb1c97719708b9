package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// LocalSession llave de c.Locals con la *entity.Session resuelta por RequireSession.
const LocalSession = "session"

// Authorizer decide si una sesión puede acceder a las rutas protegidas.
type Authorizer interface {
	Authorize(s *entity.Session) bool
}

// RequireSession resuelve la sesión una vez por request y redirige a /login si no hay identidad.
// Nada del handler protegido se ejecuta para un usuario anónimo.
func RequireSession(sessions *SessionManager, authz Authorizer, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := sessions.Current(c)
		if err != nil {
			log.Warn().Err(err).Str("request_id", requestID(c)).Msg("sesión ilegible")
			s = nil
		}
		if !authz.Authorize(s) {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// CurrentSession devuelve la sesión cargada por RequireSession (nil fuera de rutas protegidas).
func CurrentSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// CurrentUsername atajo para el actor de la sesión.
func CurrentUsername(c *fiber.Ctx) string {
	if s := CurrentSession(c); s != nil {
		return s.Username
	}
	return ""
}
