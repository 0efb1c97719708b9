package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

const (
	sessionCookieName = "stock_session"

	sessionKeyUsername = "username"
	sessionKeyAuthAt   = "authenticated_at"
	sessionKeyFlashes  = "flashes"
)

// SessionConfig opciones del almacén de sesiones web.
type SessionConfig struct {
	Storage      fiber.Storage // nil = memoria del proceso
	TTL          time.Duration
	CookieSecure bool
}

// SessionManager guarda la identidad autenticada y los mensajes flash en la sesión del servidor.
// La cookie solo transporta el id de sesión (cifrado por encryptcookie).
type SessionManager struct {
	store  *session.Store
	ttl    time.Duration
	secure bool
}

// NewSessionManager construye el manejador de sesiones.
func NewSessionManager(cfg SessionConfig) *SessionManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	store := session.New(session.Config{
		Expiration:     ttl,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + sessionCookieName,
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	store.RegisterType([]string{})
	return &SessionManager{store: store, ttl: ttl, secure: cfg.CookieSecure}
}

// Establish regenera el id de sesión y guarda la identidad autenticada.
func (m *SessionManager) Establish(c *fiber.Ctx, s *entity.Session) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionKeyUsername, s.Username)
	sess.Set(sessionKeyAuthAt, s.AuthenticatedAt.Unix())
	return sess.Save()
}

// Current devuelve la sesión autenticada o nil si no hay identidad.
func (m *SessionManager) Current(c *fiber.Ctx) (*entity.Session, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, err
	}
	username, _ := sess.Get(sessionKeyUsername).(string)
	if username == "" {
		return nil, nil
	}
	out := &entity.Session{Username: username}
	if ts, ok := sess.Get(sessionKeyAuthAt).(int64); ok {
		out.AuthenticatedAt = time.Unix(ts, 0).UTC()
	}
	return out, nil
}

// End destruye la sesión. Terminar una sesión inexistente no es error.
func (m *SessionManager) End(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// Flash agrega un mensaje de un solo uso a la sesión.
func (m *SessionManager) Flash(c *fiber.Ctx, msg string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	flashes, _ := sess.Get(sessionKeyFlashes).([]string)
	sess.Set(sessionKeyFlashes, append(flashes, msg))
	return sess.Save()
}

// PopFlash devuelve y borra los mensajes pendientes.
func (m *SessionManager) PopFlash(c *fiber.Ctx) []string {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil
	}
	flashes, _ := sess.Get(sessionKeyFlashes).([]string)
	if len(flashes) == 0 {
		return nil
	}
	sess.Delete(sessionKeyFlashes)
	if err := sess.Save(); err != nil {
		return nil
	}
	return flashes
}
