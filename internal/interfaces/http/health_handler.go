package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifica la conectividad con un almacén.
type Pinger func(ctx context.Context) error

// Health devuelve el estado del servicio y del almacén.
func Health(service string, ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "service": service, "database": "ok"}
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				body["status"] = "degraded"
				body["database"] = "unreachable"
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
		}
		return c.JSON(body)
	}
}
