package http

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name           string
	CookieKey      string // base64 de 32 bytes para encryptcookie
	Session        SessionConfig
	SwaggerFile    string // se sirve en /docs si el archivo existe
	LoginRateLimit int    // intentos de login por minuto e IP; 0 = 20
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ApplyChange *inventory.ApplyChangeUseCase
	StockQuery  *inventory.StockQueryUseCase
	Reports     *inventory.ReportUseCase
	JWTSecret   string
	Ping        Pinger
	Log         *logger.Logger
}

// NewApp construye la aplicación Fiber con middlewares, vistas y rutas.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		Views:        NewViewEngine(),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler(deps.Log),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	}))
	app.Use(AccessLog(deps.Log))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.CookieKey}))

	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			// Swagger UI: http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Stock Tracker API",
			}))
		}
	}

	app.Get("/health", Health(cfg.Name, deps.Ping))

	Router(app, NewSessionManager(cfg.Session), loginLimiter(cfg.LoginRateLimit), deps)
	return app
}

// Router registra las páginas HTML y la API JSON.
func Router(app *fiber.App, sessions *SessionManager, loginLimit fiber.Handler, deps RouterDeps) {
	web := NewWebHandler(deps.AuthUC, deps.ApplyChange, deps.StockQuery, deps.Reports, sessions, deps.Log)

	// Páginas públicas
	app.Get("/", web.Home)
	csrfGuard := CSRFProtect(sessions, deps.Log)
	app.Get("/login", csrfGuard, web.LoginForm)
	app.Post("/login", loginLimit, csrfGuard, web.Login)
	app.Get("/logout", web.Logout)

	// Páginas protegidas (requieren sesión)
	requireSession := RequireSession(sessions, deps.AuthUC, deps.Log)
	app.Get("/stocks", requireSession, web.Stocks)
	app.Get("/stocks/export.xlsx", requireSession, web.ExportXLSX)
	app.Get("/stocks/report.pdf", requireSession, web.ReportPDF)
	app.Get("/stock_history/:id<int>", requireSession, web.StockHistory)
	app.Get("/stock/:id<int>/:action", requireSession, csrfGuard, web.StockActionForm)
	app.Post("/stock/:id<int>/:action", requireSession, csrfGuard, web.StockAction)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", loginLimit, authHandler.Login)

	// Stock (requiere Bearer Token)
	stocks := api.Group("/stocks", AuthMiddleware(deps.JWTSecret))
	inventoryHandler := NewInventoryHandler(deps.ApplyChange, deps.StockQuery, deps.Log)
	stocks.Get("/", inventoryHandler.ListStock)
	stocks.Get("/:id<int>/history", inventoryHandler.ItemHistory)
	stocks.Post("/:id<int>/:action", inventoryHandler.ApplyChange)
}

// loginLimiter limita los POST de login por IP.
func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 20
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			if isAPI(c) {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_REQUESTS", Message: msgTooManyAttempts})
			}
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{
				"Title": "Log in",
				"Error": msgTooManyAttempts,
			}, layoutMain)
		},
	})
}

// errorHandler responde JSON bajo /api y texto plano en el resto; los 5xx se registran.
func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", requestID(c)).Str("path", c.Path()).Msg("error no controlado")
			msg = "Internal Server Error"
		}
		if isAPI(c) {
			return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: msg})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(msg)
	}
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// errorCode "Not Found" → "NOT_FOUND".
func errorCode(status int) string {
	s := utils.StatusMessage(status)
	if s == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
}
